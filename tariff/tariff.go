package tariff

import (
	"github.com/jhofstede/energycost-go/config"
)

// Prices are the consumer-facing prices for one hour in EUR/kWh.
type Prices struct {
	Consumption float64
	Production  float64
}

// ForHour converts a raw wholesale price into the prices the household
// actually pays and receives.
//
// Consumption always carries storage costs, energy tax and VAT. Production
// is compensated at the bare wholesale price plus storage costs, unless net
// metering (salderen) applies: while cumulative production has not yet
// offset the period's total consumption, produced kWh are credited at the
// fully taxed rate. The caller must update cumulativeProductionKWh before
// each call and process hours in chronological order, since the branch taken
// depends on how much has been produced so far.
//
// With a zero annualConsumptionKWh there is nothing to offset, so the
// within-allowance branch is never taken.
func ForHour(wholesale, cumulativeProductionKWh, annualConsumptionKWh float64, taxes config.AppConfigTaxes) Prices {
	vat := 1 + taxes.VatPercent/100

	consumption := (wholesale + taxes.StorageCostConsumption + taxes.EnergyTax) * vat

	production := wholesale + taxes.StorageCostProduction
	if taxes.NetMetering && annualConsumptionKWh > 0 && cumulativeProductionKWh <= annualConsumptionKWh {
		production = (wholesale + taxes.StorageCostProduction + taxes.EnergyTax) * vat
	}

	return Prices{Consumption: consumption, Production: production}
}
