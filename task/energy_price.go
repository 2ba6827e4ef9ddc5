package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jhofstede/energycost-go/database"
	"github.com/jhofstede/energycost-go/types"
)

// How long downloaded prices for the current year stay fresh.
const priceMaxAge = 24 * time.Hour

// RefreshPrices downloads and caches hourly prices for every listed year
// whose cached copy is stale. Past years are downloaded once and kept.
func RefreshPrices(ctx context.Context, logger *slog.Logger, db *database.Database, provider types.EnergyPriceProvider, years []int) error {
	now := time.Now()
	for _, year := range years {
		stale, err := db.IsPriceYearStale(ctx, year, now, priceMaxAge)
		if err != nil {
			return err
		}
		if !stale {
			logger.Debug("cached prices still fresh", slog.Int("year", year))
			continue
		}

		logger.Info("fetching energy prices", slog.Int("year", year))
		prices, err := provider.GetEnergyPrices(ctx, year)
		if err != nil {
			return fmt.Errorf("fetching energy prices for %d: %w", year, err)
		}
		if err := db.SaveEnergyPrices(ctx, prices); err != nil {
			return err
		}
		if err := db.MarkPriceYearFetched(ctx, year, now); err != nil {
			return err
		}

		logger.Info("energy prices updated", slog.Int("year", year), slog.Int("noOfHours", len(prices)))
	}
	return nil
}

func NewEnergyPriceTask(logger *slog.Logger, db *database.Database, provider types.EnergyPriceProvider, years []int, onUpdate func()) func() {
	return func() {
		logger.Debug("running energy price task...")
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		if err := RefreshPrices(ctx, logger, db, provider, years); err != nil {
			logger.Error("error refreshing energy prices", slog.Any("error", err))
			return
		}

		if onUpdate != nil {
			onUpdate()
		}
	}
}
