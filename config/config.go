package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jhofstede/energycost-go/hours"
	"github.com/jhofstede/energycost-go/logging"
	"github.com/spf13/viper"
)

type AppConfigSimulation struct {
	StartDate string `mapstructure:"start_date"` // First simulated day, "YYYY-MM-DD"
	EndDate   string `mapstructure:"end_date"`   // Last simulated day (inclusive), "YYYY-MM-DD"
	// Drop solar production for hours with a negative production price,
	// as if the inverter had been curtailed.
	StopProductionNegativePrices bool `mapstructure:"stop_production_negative_prices"`
}

// Range returns the simulated period as a half-open hour range [start, end).
func (s AppConfigSimulation) Range() (hours.DateHour, hours.DateHour, error) {
	start, err := hours.FromDate(s.StartDate)
	if err != nil {
		return hours.DateHour{}, hours.DateHour{}, fmt.Errorf("start_date: %w", err)
	}
	last, err := hours.FromDate(s.EndDate)
	if err != nil {
		return hours.DateHour{}, hours.DateHour{}, fmt.Errorf("end_date: %w", err)
	}
	return start, last.Add(24), nil
}

type AppConfigTaxes struct {
	EnergyTax              float64 `mapstructure:"energy_tax"`               // Energy tax in EUR/kWh
	StorageCostConsumption float64 `mapstructure:"storage_cost_consumption"` // Supplier storage cost on consumption in EUR/kWh
	StorageCostProduction  float64 `mapstructure:"storage_cost_production"`  // Supplier storage cost on production in EUR/kWh
	VatPercent             float64 `mapstructure:"vat_percent"`              // VAT percentage, e.g. 21
	FixedSupplyCost        float64 `mapstructure:"fixed_supply_cost"`        // Fixed supply cost in EUR/month
	TransportCost          float64 `mapstructure:"transport_cost"`           // Grid transport cost in EUR/month
	// EUR/month. The accumulator adds this into monthly costs, matching the
	// supplier's invoice lines; treat it as a credit by configuring a
	// negative value.
	EnergyTaxCompensation float64 `mapstructure:"energy_tax_compensation"`
	NetMetering           bool    `mapstructure:"net_metering"` // Salderen: produced kWh offset consumed kWh at the taxed rate
}

type BatteryStrategy string

const (
	StrategySelfSufficiency         BatteryStrategy = "self_sufficiency"
	StrategyDynamicCostOptimization BatteryStrategy = "dynamic_cost_optimization"
)

func (s BatteryStrategy) IsValid() bool {
	return s == StrategySelfSufficiency || s == StrategyDynamicCostOptimization
}

type AppConfigBatterySpec struct {
	Enabled             bool            `mapstructure:"enabled"`
	Capacity            float64         `mapstructure:"capacity"`              // Battery maximum capacity in kWh
	MinLevel            float64         `mapstructure:"min_level"`             // Battery minimum level in percentage
	MaxLevel            float64         `mapstructure:"max_level"`             // Battery maximum level in percentage
	MaxChargeRate       float64         `mapstructure:"max_charge_rate"`       // Maximum charge energy per hour in kWh
	MaxDischargeRate    float64         `mapstructure:"max_discharge_rate"`    // Maximum discharge energy per hour in kWh
	RoundTripEfficiency float64         `mapstructure:"round_trip_efficiency"` // 0..1, applied on charge
	PriceThresholdLow   float64         `mapstructure:"price_threshold_low"`   // EUR/kWh, dynamic strategy charges below this
	PriceThresholdHigh  float64         `mapstructure:"price_threshold_high"`  // EUR/kWh, dynamic strategy discharges above this
	Strategy            BatteryStrategy `mapstructure:"strategy"`
}

func (b AppConfigBatterySpec) MaxKWh() float64 {
	return b.Capacity * b.MaxLevel / 100.0
}

func (b AppConfigBatterySpec) MinKWh() float64 {
	return b.Capacity * b.MinLevel / 100.0
}

// UsableKWh is the capacity between the configured level bounds, the
// denominator for charge cycle counting.
func (b AppConfigBatterySpec) UsableKWh() float64 {
	return b.MaxKWh() - b.MinKWh()
}

func (b AppConfigBatterySpec) Validate() error {
	if !b.Enabled {
		return nil
	}
	if b.Capacity <= 0 {
		return fmt.Errorf("battery capacity must be > 0, got %g", b.Capacity)
	}
	if b.MaxChargeRate < 0 || b.MaxDischargeRate < 0 {
		return fmt.Errorf("battery charge/discharge rates must be >= 0")
	}
	if b.RoundTripEfficiency <= 0 || b.RoundTripEfficiency > 1 {
		return fmt.Errorf("battery round_trip_efficiency must be in (0, 1], got %g", b.RoundTripEfficiency)
	}
	if b.MinLevel < 0 || b.MaxLevel > 100 || b.MinLevel > b.MaxLevel {
		return fmt.Errorf("battery levels must satisfy 0 <= min_level <= max_level <= 100")
	}
	if !b.Strategy.IsValid() {
		return fmt.Errorf("unknown battery strategy %q", b.Strategy)
	}
	if b.Strategy == StrategyDynamicCostOptimization && b.PriceThresholdLow > b.PriceThresholdHigh {
		return fmt.Errorf("price_threshold_low must not exceed price_threshold_high")
	}
	return nil
}

type AppConfigEnergyPrice struct {
	ApiUrl string `mapstructure:"api_url"` // Dynamic price feed endpoint, queried per calendar year
	ApiKey string `mapstructure:"api_key"`
	RunAt  string `mapstructure:"run_at"` // Cron spec for the watch-mode refresh, default daily at 15:05
}

func (e AppConfigEnergyPrice) GetRunAt() string {
	if e.RunAt == "" {
		return "5 15 * * *"
	}
	return e.RunAt
}

const (
	SensorSourceExport          = "export"
	SensorSourceVictoriaMetrics = "victoriametrics"
)

type AppConfigSensors struct {
	Source             string   `mapstructure:"source"` // "export" or "victoriametrics"
	ExportPath         string   `mapstructure:"export_path"`
	VictoriaMetricsUrl string   `mapstructure:"victoriametrics_url"`
	Consumption        []string `mapstructure:"consumption"` // Sensor/statistic ids for consumed energy
	Production         []string `mapstructure:"production"`  // Sensor/statistic ids for produced energy
}

type AppConfigDatabase struct {
	Path string
}

type AppConfigReport struct {
	// Directory for generated CSV files, default: "results"
	OutputDir *string `mapstructure:"output_dir"`
}

func (r AppConfigReport) GetOutputDir() string {
	if r.OutputDir == nil {
		return "results"
	}
	return *r.OutputDir
}

type AppConfigLogging struct {
	// Min console log level: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	Simulation  AppConfigSimulation
	Taxes       AppConfigTaxes
	BatterySpec AppConfigBatterySpec `mapstructure:"battery"`
	EnergyPrice AppConfigEnergyPrice `mapstructure:"energy_price"`
	Sensors     AppConfigSensors
	Database    AppConfigDatabase
	Report      AppConfigReport
	Logging     AppConfigLogging
}

func Load(path string) (*AppConfig, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath("config")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c AppConfig

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &c, nil
}

// Validate fails fast on configuration the simulation would otherwise
// silently mishandle. A run never starts with an invalid config.
func (c *AppConfig) Validate() error {
	if _, _, err := c.Simulation.Range(); err != nil {
		return err
	}
	start, end, _ := c.Simulation.Range()
	if !start.Before(end) {
		return fmt.Errorf("start_date %s is after end_date %s", c.Simulation.StartDate, c.Simulation.EndDate)
	}
	if c.Taxes.VatPercent < 0 {
		return fmt.Errorf("vat_percent must be >= 0, got %g", c.Taxes.VatPercent)
	}
	if err := c.BatterySpec.Validate(); err != nil {
		return err
	}
	switch c.Sensors.Source {
	case SensorSourceExport:
		if c.Sensors.ExportPath == "" {
			return fmt.Errorf("sensors.export_path is required for the export source")
		}
	case SensorSourceVictoriaMetrics:
		if c.Sensors.VictoriaMetricsUrl == "" {
			return fmt.Errorf("sensors.victoriametrics_url is required for the victoriametrics source")
		}
	default:
		return fmt.Errorf("unknown sensors.source %q", c.Sensors.Source)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	return nil
}
