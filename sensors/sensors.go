// Package sensors turns metered energy readings into hourly flow maps. Two
// sources are supported: a Home Assistant statistics export file, and a
// VictoriaMetrics instance holding the raw counter series.
package sensors

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jhofstede/energycost-go/config"
	"github.com/jhofstede/energycost-go/hours"
	"github.com/jhofstede/energycost-go/types"
)

// Load fetches the consumption and production flow maps for the half-open
// hour range [from, to) using the configured source.
func Load(ctx context.Context, logger *slog.Logger, cnfg config.AppConfigSensors, from, to hours.DateHour) (types.EnergyFlowMap, types.EnergyFlowMap, error) {
	switch cnfg.Source {
	case config.SensorSourceExport:
		consumption, err := LoadExport(logger, cnfg.ExportPath, cnfg.Consumption, from, to)
		if err != nil {
			return nil, nil, fmt.Errorf("loading consumption from export: %w", err)
		}
		production, err := LoadExport(logger, cnfg.ExportPath, cnfg.Production, from, to)
		if err != nil {
			return nil, nil, fmt.Errorf("loading production from export: %w", err)
		}
		return consumption, production, nil

	case config.SensorSourceVictoriaMetrics:
		vm := NewVictoriaMetrics(logger, cnfg.VictoriaMetricsUrl)
		consumption, err := vm.FetchHourly(ctx, cnfg.Consumption, from, to)
		if err != nil {
			return nil, nil, fmt.Errorf("fetching consumption from victoriametrics: %w", err)
		}
		production, err := vm.FetchHourly(ctx, cnfg.Production, from, to)
		if err != nil {
			return nil, nil, fmt.Errorf("fetching production from victoriametrics: %w", err)
		}
		return consumption, production, nil
	}

	return nil, nil, fmt.Errorf("unknown sensor source %q", cnfg.Source)
}
