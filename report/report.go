// Package report writes simulation results as CSV files: a one-line summary
// of the grand totals, a monthly breakdown and the full hourly ledger.
package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jhofstede/energycost-go/convert"
	"github.com/jhofstede/energycost-go/simulation"
)

type Writer struct {
	logger    *slog.Logger
	outputDir string
}

func New(logger *slog.Logger, outputDir string) *Writer {
	return &Writer{logger: logger, outputDir: outputDir}
}

// WriteAll writes the summary, monthly and hourly reports for one run, each
// file prefixed with the same timestamp so a run's files sort together.
// Returns the paths of the written files.
func (w *Writer) WriteAll(result *simulation.Result, at time.Time) ([]string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	prefix := at.Format("20060102-150405")
	paths := make([]string, 0, 3)

	for _, r := range []struct {
		name  string
		write func(*csv.Writer, *simulation.Result) error
	}{
		{"summary", writeSummary},
		{"monthly", writeMonthly},
		{"hourly", writeHourly},
	} {
		path := filepath.Join(w.outputDir, fmt.Sprintf("%s-%s.csv", prefix, r.name))
		if err := w.writeFile(path, result, r.write); err != nil {
			return nil, err
		}
		w.logger.Info("report written", slog.String("path", path))
		paths = append(paths, path)
	}

	return paths, nil
}

func (w *Writer) writeFile(path string, result *simulation.Result, write func(*csv.Writer, *simulation.Result) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := write(cw, result); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing report %s: %w", path, err)
	}

	return file.Close()
}

func writeSummary(cw *csv.Writer, result *simulation.Result) error {
	rows := [][]string{
		{"metric", "value"},
		{"total_cost", amount(result.TotalCost)},
		{"total_income", amount(result.TotalIncome)},
		{"net_cost", amount(result.TotalCost - result.TotalIncome)},
		{"total_consumption_kwh", energy(result.TotalConsumption)},
		{"total_production_kwh", energy(result.TotalProduction)},
		{"battery_adjusted_cost", amount(result.BatteryAdjustedCost)},
		{"battery_adjusted_income", amount(result.BatteryAdjustedIncome)},
		{"battery_adjusted_net_cost", amount(result.BatteryAdjustedCost - result.BatteryAdjustedIncome)},
		{"battery_adjusted_consumption_kwh", energy(result.BatteryAdjustedConsumption)},
		{"battery_adjusted_production_kwh", energy(result.BatteryAdjustedProduction)},
		{"battery_energy_loss_kwh", energy(result.EnergyLoss)},
		{"battery_total_charged_kwh", energy(result.TotalCharged)},
		{"battery_total_discharged_kwh", energy(result.TotalDischarged)},
		{"battery_charge_cycles", strconv.Itoa(result.ChargeCycles)},
	}
	return cw.WriteAll(rows)
}

func writeMonthly(cw *csv.Writer, result *simulation.Result) error {
	if err := cw.Write([]string{
		"month", "cost", "income", "net",
		"consumption_kwh", "production_kwh",
		"battery_adjusted_cost", "battery_adjusted_income", "battery_adjusted_net",
		"fixed_supply_cost", "transport_cost", "energy_tax_compensation",
	}); err != nil {
		return err
	}

	for _, month := range result.MonthKeys() {
		entry := result.Monthly[month]
		err := cw.Write([]string{
			month,
			amount(entry.Cost),
			amount(entry.Income),
			amount(entry.Cost - entry.Income),
			energy(entry.Consumption),
			energy(entry.Production),
			amount(entry.BatteryAdjustedCost),
			amount(entry.BatteryAdjustedIncome),
			amount(entry.BatteryAdjustedCost - entry.BatteryAdjustedIncome),
			amount(entry.FixedSupplyCost),
			amount(entry.TransportCost),
			amount(entry.EnergyTaxCompensation),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeHourly(cw *csv.Writer, result *simulation.Result) error {
	if err := cw.Write([]string{
		"hour", "wholesale_price", "consumption_price", "production_price",
		"consumption_kwh", "production_kwh",
		"battery_adjusted_consumption_kwh", "battery_adjusted_production_kwh",
		"battery_level_kwh", "cost", "income",
	}); err != nil {
		return err
	}

	for _, h := range result.Hours {
		err := cw.Write([]string{
			h.Hour.Key(),
			price(h.WholesalePrice),
			price(h.ConsumptionPrice),
			price(h.ProductionPrice),
			energy(h.Consumption),
			energy(h.Production),
			energy(h.AdjustedConsumption),
			energy(h.AdjustedProduction),
			energy(h.BatteryLevel),
			amount(h.Cost),
			amount(h.Income),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func amount(v float64) string {
	return strconv.FormatFloat(convert.RoundFloat64(v, 2), 'f', 2, 64)
}

func energy(v float64) string {
	return strconv.FormatFloat(convert.RoundFloat64(v, 3), 'f', 3, 64)
}

func price(v float64) string {
	return strconv.FormatFloat(convert.RoundFloat64(v, 4), 'f', 4, 64)
}
