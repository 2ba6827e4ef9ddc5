package sensors

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/jhofstede/energycost-go/hours"
	"github.com/jhofstede/energycost-go/types"
)

// ExportRecord is one row of a Home Assistant statistics export
// (export.json): an hourly increment for one statistic.
type ExportRecord struct {
	StatisticID string      `json:"statistic_id"`
	D           string      `json:"d"` // "2006-01-02 15:04:05"
	Increment   json.Number `json:"increment"`
}

// LoadExport reads the export file and aggregates hourly increments for the
// given statistic ids within [from, to). Records that cannot be parsed are
// skipped; several sensors mapping to the same hour are summed.
func LoadExport(logger *slog.Logger, path string, statisticIds []string, from, to hours.DateHour) (types.EnergyFlowMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export file: %w", err)
	}

	var records []ExportRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parsing export file %s: %w", path, err)
	}

	return AggregateExport(logger, records, statisticIds, from, to), nil
}

// AggregateExport folds export records into an hourly flow map.
func AggregateExport(logger *slog.Logger, records []ExportRecord, statisticIds []string, from, to hours.DateHour) types.EnergyFlowMap {
	flows := make(types.EnergyFlowMap)
	for _, record := range records {
		if !slices.Contains(statisticIds, record.StatisticID) {
			continue
		}
		dh, err := hours.ParseKey(record.D)
		if err != nil {
			logger.Debug("skipping export record with bad timestamp",
				slog.String("statisticId", record.StatisticID),
				slog.String("timestamp", record.D))
			continue
		}
		if dh.Before(from) || !dh.Before(to) {
			continue
		}
		value, err := record.Increment.Float64()
		if err != nil {
			logger.Debug("skipping export record with bad increment",
				slog.String("statisticId", record.StatisticID),
				slog.String("timestamp", record.D),
				slog.Any("error", err))
			continue
		}
		flows.Add(dh, value)
	}
	return flows
}
