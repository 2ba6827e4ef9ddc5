package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYaml = `
simulation:
  start_date: "2025-01-01"
  end_date: "2025-12-31"
  stop_production_negative_prices: true

taxes:
  energy_tax: 0.1228
  storage_cost_consumption: 0.0248
  storage_cost_production: 0.0109
  vat_percent: 21
  fixed_supply_cost: 5.99
  transport_cost: 32.5
  energy_tax_compensation: -26.0
  net_metering: true

battery:
  enabled: true
  capacity: 10
  min_level: 10
  max_level: 95
  max_charge_rate: 3.5
  max_discharge_rate: 3.5
  round_trip_efficiency: 0.9
  price_threshold_low: 0.05
  price_threshold_high: 0.25
  strategy: dynamic_cost_optimization

energy_price:
  api_url: https://example.com/prices
  api_key: secret

sensors:
  source: export
  export_path: export.json
  consumption: [sensor.grid_consumption]
  production: [sensor.grid_production]

database:
  path: energycost.db
`

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeConfig(t, validYaml))
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if c.Simulation.StartDate != "2025-01-01" {
		t.Errorf("unexpected start date %s", c.Simulation.StartDate)
	}
	if !c.Simulation.StopProductionNegativePrices {
		t.Error("expected stop_production_negative_prices to be set")
	}
	if c.Taxes.VatPercent != 21 {
		t.Errorf("unexpected vat %g", c.Taxes.VatPercent)
	}
	if c.Taxes.EnergyTaxCompensation != -26.0 {
		t.Errorf("unexpected compensation %g", c.Taxes.EnergyTaxCompensation)
	}
	if !c.Taxes.NetMetering {
		t.Error("expected net metering enabled")
	}
	if c.BatterySpec.Strategy != StrategyDynamicCostOptimization {
		t.Errorf("unexpected strategy %q", c.BatterySpec.Strategy)
	}
	if c.BatterySpec.MaxKWh() != 9.5 {
		t.Errorf("expected max 9.5 kWh, got %g", c.BatterySpec.MaxKWh())
	}
	if c.Sensors.Source != SensorSourceExport {
		t.Errorf("unexpected sensor source %q", c.Sensors.Source)
	}
	if c.Report.GetOutputDir() != "results" {
		t.Errorf("expected default output dir, got %s", c.Report.GetOutputDir())
	}
	if c.EnergyPrice.GetRunAt() != "5 15 * * *" {
		t.Errorf("expected default run_at, got %s", c.EnergyPrice.GetRunAt())
	}
	if c.Logging.GetConsoleLevel() != slog.LevelInfo {
		t.Errorf("expected default INFO level, got %v", c.Logging.GetConsoleLevel())
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(string) string
		expected string
	}{
		{
			"reversed date range",
			func(y string) string {
				return strings.Replace(y, `end_date: "2025-12-31"`, `end_date: "2024-01-01"`, 1)
			},
			"after end_date",
		},
		{
			"bad efficiency",
			func(y string) string {
				return strings.Replace(y, "round_trip_efficiency: 0.9", "round_trip_efficiency: 1.5", 1)
			},
			"round_trip_efficiency",
		},
		{
			"unknown strategy",
			func(y string) string {
				return strings.Replace(y, "strategy: dynamic_cost_optimization", "strategy: peak_shaving", 1)
			},
			"strategy",
		},
		{
			"crossed thresholds",
			func(y string) string {
				return strings.Replace(y, "price_threshold_low: 0.05", "price_threshold_low: 0.50", 1)
			},
			"price_threshold_low",
		},
		{
			"export source without path",
			func(y string) string {
				return strings.Replace(y, "export_path: export.json", "export_path: \"\"", 1)
			},
			"export_path",
		},
		{
			"unknown sensor source",
			func(y string) string {
				return strings.Replace(y, "source: export", "source: mqtt", 1)
			},
			"sensors.source",
		},
		{
			"missing database path",
			func(y string) string {
				return strings.Replace(y, "path: energycost.db", "path: \"\"", 1)
			},
			"database.path",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, test.mutate(validYaml)))
			if err == nil {
				t.Fatal("expected error, got none")
			}
			if !strings.Contains(err.Error(), test.expected) {
				t.Errorf("expected error mentioning %q, got: %v", test.expected, err)
			}
		})
	}
}

func TestBatteryValidateSkippedWhenDisabled(t *testing.T) {
	b := AppConfigBatterySpec{Enabled: false, RoundTripEfficiency: 42}
	if err := b.Validate(); err != nil {
		t.Errorf("disabled battery should not be validated: %v", err)
	}
}
