package simulation

import (
	"slices"

	"github.com/jhofstede/energycost-go/hours"
)

// MonthlyEntry accumulates one calendar month of the simulation. The fixed
// cost fields are constants copied from the tax configuration when the month
// is first seen; they are folded into the cost figures exactly once, after
// the hourly loop.
type MonthlyEntry struct {
	Cost                  float64
	Income                float64
	Consumption           float64
	Production            float64
	BatteryAdjustedCost   float64
	BatteryAdjustedIncome float64

	FixedSupplyCost       float64
	TransportCost         float64
	EnergyTaxCompensation float64
}

// HourlyDetail is one row of the per-hour ledger, the raw material for the
// hourly report.
type HourlyDetail struct {
	Hour hours.DateHour

	WholesalePrice   float64
	ConsumptionPrice float64
	ProductionPrice  float64

	Consumption float64
	Production  float64

	AdjustedConsumption float64
	AdjustedProduction  float64

	BatteryLevel float64

	Cost   float64
	Income float64
}

// Result is the complete, immutable outcome of a simulation run.
type Result struct {
	TotalCost        float64
	TotalIncome      float64
	TotalConsumption float64
	TotalProduction  float64

	BatteryAdjustedCost        float64
	BatteryAdjustedIncome      float64
	BatteryAdjustedConsumption float64
	BatteryAdjustedProduction  float64

	EnergyLoss      float64 // kWh lost to round-trip inefficiency
	TotalCharged    float64
	TotalDischarged float64
	ChargeCycles    int

	Monthly map[string]*MonthlyEntry
	Hours   []HourlyDetail
}

// MonthKeys returns the encountered months in ascending order.
func (r *Result) MonthKeys() []string {
	keys := make([]string, 0, len(r.Monthly))
	for k := range r.Monthly {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
