package task

import (
	"context"
	"log/slog"

	"github.com/jhofstede/energycost-go/config"
	"github.com/jhofstede/energycost-go/database"
	"github.com/jhofstede/energycost-go/types"
	"github.com/robfig/cron/v3"
)

type Tasks struct {
	cron            *cron.Cron
	cnfg            *config.AppConfig
	EnergyPriceTask func()
}

func NewTasks(
	db *database.Database,
	provider types.EnergyPriceProvider,
	years []int,
	cnfg *config.AppConfig,
	onUpdate func(),
) *Tasks {
	logger := slog.Default().With("module", "tasks")
	return &Tasks{
		cron:            cron.New(),
		cnfg:            cnfg,
		EnergyPriceTask: NewEnergyPriceTask(logger.With(slog.String("task", "energy_price")), db, provider, years, onUpdate),
	}
}

func (t *Tasks) Run() error {
	_, err := t.cron.AddFunc(t.cnfg.EnergyPrice.GetRunAt(), t.EnergyPriceTask)
	if err != nil {
		return err
	}
	t.cron.Start()
	return nil
}

func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}
