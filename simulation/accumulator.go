package simulation

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/jhofstede/energycost-go/config"
	"github.com/jhofstede/energycost-go/tariff"
	"github.com/jhofstede/energycost-go/types"
)

// Run folds the hourly price sequence into a Result: per hour it computes
// tariff prices, lets the battery act, and accumulates running and monthly
// totals. The fold is deterministic; identical inputs give identical output.
//
// Prices are sorted and filtered to the configured half-open date range
// here, so callers cannot accidentally feed hours out of order into the
// path-dependent net-metering pricing.
func Run(
	logger *slog.Logger,
	consumption types.EnergyFlowMap,
	production types.EnergyFlowMap,
	prices []types.EnergyPrice,
	taxes config.AppConfigTaxes,
	batterySpec config.AppConfigBatterySpec,
	sim config.AppConfigSimulation,
) (*Result, error) {
	if err := batterySpec.Validate(); err != nil {
		return nil, fmt.Errorf("battery config invalid: %w", err)
	}
	start, end, err := sim.Range()
	if err != nil {
		return nil, fmt.Errorf("simulation range invalid: %w", err)
	}

	// Period totals over the full maps, needed before the loop because the
	// net-metering branch compares against them.
	annualConsumption := consumption.Sum()
	annualProduction := production.Sum()
	logger.Debug("period totals",
		slog.Float64("consumptionKWh", annualConsumption),
		slog.Float64("productionKWh", annualProduction))

	sorted := make([]types.EnergyPrice, len(prices))
	copy(sorted, prices)
	slices.SortFunc(sorted, func(a, b types.EnergyPrice) int {
		return a.Hour.Compare(b.Hour)
	})

	battery := NewBattery(batterySpec)
	cumulativeProduction := 0.0

	res := &Result{
		Monthly: make(map[string]*MonthlyEntry),
		Hours:   make([]HourlyDetail, 0, len(sorted)),
	}

	for _, pe := range sorted {
		if pe.Hour.Before(start) || !pe.Hour.Before(end) {
			continue
		}

		hourConsumption := consumption.Get(pe.Hour)
		hourProduction := production.Get(pe.Hour)

		cumulativeProduction += hourProduction
		hourPrices := tariff.ForHour(pe.Price, cumulativeProduction, annualConsumption, taxes)

		// The unadjusted figures always use the metered flows.
		cost := hourConsumption * hourPrices.Consumption
		income := hourProduction * hourPrices.Production

		batteryProduction := hourProduction
		if sim.StopProductionNegativePrices && hourPrices.Production < 0 {
			logger.Debug("negative production price, curtailing production",
				slog.String("hour", pe.Hour.Key()),
				slog.Float64("price", hourPrices.Production))
			batteryProduction = 0
		}

		adj := battery.Simulate(hourConsumption, batteryProduction, hourPrices)

		res.TotalConsumption += hourConsumption
		res.TotalProduction += hourProduction
		res.TotalCost += cost
		res.TotalIncome += income

		res.BatteryAdjustedConsumption += adj.Consumption
		res.BatteryAdjustedProduction += adj.Production
		res.BatteryAdjustedCost += adj.Consumption * hourPrices.Consumption
		res.BatteryAdjustedIncome += adj.Production * hourPrices.Production
		res.EnergyLoss += adj.Loss

		month := res.Monthly[pe.Hour.MonthKey()]
		if month == nil {
			month = &MonthlyEntry{
				FixedSupplyCost:       taxes.FixedSupplyCost,
				TransportCost:         taxes.TransportCost,
				EnergyTaxCompensation: taxes.EnergyTaxCompensation,
			}
			res.Monthly[pe.Hour.MonthKey()] = month
		}
		month.Cost += cost
		month.Income += income
		month.Consumption += hourConsumption
		month.Production += hourProduction
		month.BatteryAdjustedCost += adj.Consumption * hourPrices.Consumption
		month.BatteryAdjustedIncome += adj.Production * hourPrices.Production

		res.Hours = append(res.Hours, HourlyDetail{
			Hour:                pe.Hour,
			WholesalePrice:      pe.Price,
			ConsumptionPrice:    hourPrices.Consumption,
			ProductionPrice:     hourPrices.Production,
			Consumption:         hourConsumption,
			Production:          hourProduction,
			AdjustedConsumption: adj.Consumption,
			AdjustedProduction:  adj.Production,
			BatteryLevel:        battery.State.Level,
			Cost:                cost,
			Income:              income,
		})
	}

	// Fixed monthly costs, once per encountered month. The energy tax
	// compensation is added rather than subtracted, mirroring the supplier's
	// invoice lines; configure a negative value to model it as a credit.
	for _, key := range res.MonthKeys() {
		month := res.Monthly[key]
		fixed := month.FixedSupplyCost + month.TransportCost + month.EnergyTaxCompensation
		month.Cost += fixed
		month.BatteryAdjustedCost += fixed
		res.TotalCost += fixed
		res.BatteryAdjustedCost += fixed
	}

	res.TotalCharged = battery.State.TotalCharged
	res.TotalDischarged = battery.State.TotalDischarged
	res.ChargeCycles = battery.CycleCount()

	return res, nil
}
