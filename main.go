package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jhofstede/energycost-go/config"
	"github.com/jhofstede/energycost-go/database"
	"github.com/jhofstede/energycost-go/energyprice"
	"github.com/jhofstede/energycost-go/hours"
	"github.com/jhofstede/energycost-go/logging"
	"github.com/jhofstede/energycost-go/report"
	"github.com/jhofstede/energycost-go/sensors"
	"github.com/jhofstede/energycost-go/simulation"
	"github.com/jhofstede/energycost-go/task"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			slog.Default().Error("application shutting down with error", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Default().Info("application is shutting down...")
	}()

	configPath := flag.String("config", "", "path to config file")
	watch := flag.Bool("watch", false, "keep running and recompute when new prices arrive")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(logging.NewConsoleHandler(os.Stdout, cnfg.Logging.GetConsoleLevel()))
	slog.SetDefault(logger)
	logger.Debug("energycost is starting...", slog.String("version", Version))

	db, err := database.New(ctx, cnfg.Database.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to open database: %v", err))
	}
	defer db.Close()
	db.SetLogger(logger.With("module", "database"))

	provider := energyprice.New(
		logger.With("module", "energyprice"),
		cnfg.EnergyPrice.ApiUrl,
		cnfg.EnergyPrice.ApiKey)

	from, to, err := cnfg.Simulation.Range()
	if err != nil {
		panic(fmt.Sprintf("invalid simulation range: %v", err))
	}
	years := yearsInRange(from, to)

	if err := task.RefreshPrices(ctx, logger, db, provider, years); err != nil {
		panic(fmt.Sprintf("failed to refresh energy prices: %v", err))
	}

	if err := run(ctx, logger, db, cnfg, from, to); err != nil {
		panic(fmt.Sprintf("simulation failed: %v", err))
	}

	if !*watch {
		return
	}

	recompute := func() {
		if err := run(ctx, logger, db, cnfg, from, to); err != nil {
			logger.Error("recompute failed", slog.Any("error", err))
		}
	}
	tasks := task.NewTasks(db, provider, years, cnfg, recompute)
	if err := tasks.Run(); err != nil {
		panic(fmt.Sprintf("failed to schedule tasks: %v", err))
	}
	defer tasks.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		logger.Info("main context done")
	case sig := <-sigCh:
		logger.Info("received signal", slog.Any("signal", sig))
		cancel()
	}
}

// run executes one full pipeline pass: load sensor flows, read cached
// prices, simulate the period and write the reports.
func run(ctx context.Context, logger *slog.Logger, db *database.Database, cnfg *config.AppConfig, from, to hours.DateHour) error {
	consumption, production, err := sensors.Load(ctx, logger.With("module", "sensors"), cnfg.Sensors, from, to)
	if err != nil {
		return fmt.Errorf("loading sensor data: %w", err)
	}

	prices, err := db.GetEnergyPricesBetween(ctx, from, to)
	if err != nil {
		return fmt.Errorf("loading cached prices: %w", err)
	}
	if len(prices) == 0 {
		return fmt.Errorf("no energy prices cached for %s..%s", from.Key(), to.Key())
	}

	result, err := simulation.Run(
		logger.With("module", "simulation"),
		consumption,
		production,
		prices,
		cnfg.Taxes,
		cnfg.BatterySpec,
		cnfg.Simulation)
	if err != nil {
		return err
	}

	logger.Info("simulation done",
		slog.Int("hours", len(result.Hours)),
		slog.Float64("totalCost", result.TotalCost),
		slog.Float64("totalIncome", result.TotalIncome))

	_, err = report.New(logger.With("module", "report"), cnfg.Report.GetOutputDir()).
		WriteAll(result, time.Now())
	return err
}

// yearsInRange lists the calendar years touched by [from, to).
func yearsInRange(from, to hours.DateHour) []int {
	first, _ := strconv.Atoi(from.Date[:4])
	last, _ := strconv.Atoi(to.Add(-1).Date[:4])

	var years []int
	for y := first; y <= last; y++ {
		years = append(years, y)
	}
	return years
}
