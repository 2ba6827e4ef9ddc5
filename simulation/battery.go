package simulation

import (
	"math"

	"github.com/jhofstede/energycost-go/config"
	"github.com/jhofstede/energycost-go/tariff"
)

// BatteryState is the mutable state threaded through the hourly loop. It is
// owned by the accumulator; nothing else holds a reference to it.
type BatteryState struct {
	Level           float64 // Stored energy in kWh, always within [MinKWh, MaxKWh]
	TotalCharged    float64 // Cumulative energy drawn into the battery in kWh
	TotalDischarged float64 // Cumulative energy delivered by the battery in kWh
}

type Battery struct {
	Spec  config.AppConfigBatterySpec
	State BatteryState
}

// NewBattery returns a battery starting at its minimum allowed level.
// The configuration is assumed valid; it is checked at load time.
func NewBattery(spec config.AppConfigBatterySpec) *Battery {
	return &Battery{
		Spec:  spec,
		State: BatteryState{Level: spec.MinKWh()},
	}
}

// CycleCount derives the number of full charge cycles from the cumulative
// discharged energy and the usable capacity. It is recomputed from totals,
// not incremented.
func (b *Battery) CycleCount() int {
	usable := b.Spec.UsableKWh()
	if usable <= 0 {
		return 0
	}
	return int(math.Floor(b.State.TotalDischarged / usable))
}

// Adjustment is the outcome of one simulated hour: the energy flows that
// remain after the battery acted, and the energy lost to round-trip
// inefficiency while charging. Flows are never negative.
type Adjustment struct {
	Consumption float64
	Production  float64
	Loss        float64
}

// Simulate runs one hour of battery behavior. consumptionKWh and
// productionKWh are the household's metered flows for the hour; prices are
// the tariff prices for the same hour (only the dynamic strategy looks at
// them). A disabled battery passes the flows through untouched.
func (b *Battery) Simulate(consumptionKWh, productionKWh float64, prices tariff.Prices) Adjustment {
	if !b.Spec.Enabled {
		return Adjustment{Consumption: consumptionKWh, Production: productionKWh}
	}

	if b.Spec.Strategy == config.StrategyDynamicCostOptimization {
		return b.simulateDynamic(consumptionKWh, productionKWh, prices)
	}
	return b.simulateSelfSufficiency(consumptionKWh, productionKWh)
}

// simulateSelfSufficiency maximizes self-consumption regardless of price:
// store every producible kWh, then cover consumption from the battery.
func (b *Battery) simulateSelfSufficiency(consumptionKWh, productionKWh float64) Adjustment {
	adj := Adjustment{Consumption: consumptionKWh, Production: productionKWh}

	if adj.Production > 0 {
		charge := math.Min(adj.Production, math.Min(b.Spec.MaxChargeRate, b.Spec.MaxKWh()-b.State.Level))
		if charge > 0 {
			b.charge(charge, &adj)
			adj.Production -= charge
		}
	}

	if adj.Consumption > 0 {
		discharge := math.Min(adj.Consumption, math.Min(b.Spec.MaxDischargeRate, b.headroom()))
		if discharge > 0 {
			b.discharge(discharge)
			adj.Consumption -= discharge
		}
	}

	// Only reachable with inconsistent inputs; surplus battery energy counts
	// as production rather than negative consumption.
	if adj.Consumption < 0 {
		adj.Production -= adj.Consumption
		adj.Consumption = 0
	}

	return adj
}

// simulateDynamic charges below the low price threshold and discharges above
// the high one, using the household's flows only as bounds.
func (b *Battery) simulateDynamic(consumptionKWh, productionKWh float64, prices tariff.Prices) Adjustment {
	adj := Adjustment{Consumption: consumptionKWh, Production: productionKWh}

	if prices.Production < b.Spec.PriceThresholdLow {
		charge := math.Min(b.Spec.MaxChargeRate, b.Spec.MaxKWh()-b.State.Level)
		if charge > 0 {
			b.charge(charge, &adj)
			// Charging eats into the hour's export first; whatever production
			// cannot cover is imported from the grid.
			adj.Production -= charge
			if adj.Production < 0 {
				adj.Consumption += -adj.Production
				adj.Production = 0
			}
		}
		return adj
	}

	rate := b.Spec.MaxDischargeRate

	if prices.Consumption > b.Spec.PriceThresholdHigh && adj.Consumption > 0 {
		discharge := math.Min(adj.Consumption, math.Min(rate, b.headroom()))
		if discharge > 0 {
			b.discharge(discharge)
			adj.Consumption -= discharge
			rate -= discharge
		}
	}

	if prices.Production > b.Spec.PriceThresholdHigh {
		discharge := math.Min(rate, b.headroom())
		if discharge > 0 {
			b.discharge(discharge)
			adj.Production += discharge
		}
	}

	if adj.Consumption < 0 {
		// Bounded by what is actually left in the battery; an empty battery
		// cannot manufacture production.
		adj.Production += math.Min(-adj.Consumption, b.headroom())
		adj.Consumption = 0
	}

	return adj
}

// headroom is the energy available for discharging before the level floor.
func (b *Battery) headroom() float64 {
	return b.State.Level - b.Spec.MinKWh()
}

func (b *Battery) charge(kWh float64, adj *Adjustment) {
	b.State.Level += kWh * b.Spec.RoundTripEfficiency
	b.State.TotalCharged += kWh
	adj.Loss += kWh * (1 - b.Spec.RoundTripEfficiency)
}

func (b *Battery) discharge(kWh float64) {
	b.State.Level -= kWh
	b.State.TotalDischarged += kWh
}
