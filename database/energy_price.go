package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jhofstede/energycost-go/convert"
	"github.com/jhofstede/energycost-go/hours"
	"github.com/jhofstede/energycost-go/types"
)

func (d *Database) SaveEnergyPrices(ctx context.Context, prices []types.EnergyPrice) error {
	tx, err := d.write.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction for energy prices: %w", err)
	}

	for _, price := range prices {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO energy_price (date, hour, price) VALUES (?, ?, ?)
			ON CONFLICT(date, hour) DO UPDATE SET price = excluded.price`,
			price.Hour.Date,
			price.Hour.Hour,
			convert.RoundFloat64(price.Price, 4))
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return fmt.Errorf("rollback energy prices: %w", rbErr)
			}
			return fmt.Errorf("saving energy price for %s: %w", price.Hour.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit energy prices: %w", err)
	}

	return nil
}

// GetEnergyPricesBetween returns the cached prices for the half-open
// range [from, to), ordered chronologically.
func (d *Database) GetEnergyPricesBetween(ctx context.Context, from, to hours.DateHour) ([]types.EnergyPrice, error) {
	rows, err := d.read.QueryContext(ctx, `SELECT
		date, hour, price
		FROM energy_price
		WHERE ((date = ? AND hour >= ?) OR date > ?)
		  AND ((date = ? AND hour < ?) OR date < ?)
		ORDER BY date, hour ASC`,
		from.Date, from.Hour, from.Date,
		to.Date, to.Hour, to.Date)
	if err != nil {
		return nil, fmt.Errorf("fetching energy prices: %w", err)
	}

	defer rows.Close()

	var energyPrices []types.EnergyPrice
	for rows.Next() {
		var ep types.EnergyPrice
		err := rows.Scan(&ep.Hour.Date, &ep.Hour.Hour, &ep.Price)
		if err != nil {
			return nil, fmt.Errorf("scanning energy price row: %w", err)
		}

		energyPrices = append(energyPrices, ep)
	}

	return energyPrices, rows.Err()
}

// MarkPriceYearFetched records when the given year was last downloaded.
func (d *Database) MarkPriceYearFetched(ctx context.Context, year int, at time.Time) error {
	_, err := d.write.ExecContext(ctx, `
		INSERT INTO price_year (year, fetched_at) VALUES (?, ?)
		ON CONFLICT(year) DO UPDATE SET fetched_at = excluded.fetched_at`,
		year, at.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("marking price year %d as fetched: %w", year, err)
	}
	return nil
}

// IsPriceYearStale reports whether prices for the year should be
// (re)fetched. Past years never go stale once cached, the current year
// is refreshed when the cached copy is older than maxAge.
func (d *Database) IsPriceYearStale(ctx context.Context, year int, now time.Time, maxAge time.Duration) (bool, error) {
	var fetchedAt string
	err := d.read.QueryRowContext(ctx,
		`SELECT fetched_at FROM price_year WHERE year = ?`, year).Scan(&fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("fetching price year %d: %w", year, err)
	}

	if year < now.Year() {
		return false, nil
	}

	at, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		d.logger.Warn("unparsable fetched_at for price year, refetching",
			slog.Int("year", year), slog.String("fetchedAt", fetchedAt))
		return true, nil
	}

	return now.Sub(at) > maxAge, nil
}
