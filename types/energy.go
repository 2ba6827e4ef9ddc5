package types

import (
	"context"

	"github.com/jhofstede/energycost-go/hours"
)

type EnergyPrice struct {
	Hour  hours.DateHour
	Price float64 // Wholesale price in EUR per kWh excluding taxes and VAT
}

type EnergyPriceProvider interface {
	// GetEnergyPrices returns all published hourly prices for a calendar year.
	GetEnergyPrices(ctx context.Context, year int) ([]EnergyPrice, error)
}

// EnergyFlowMap maps an hour key to a non-negative kWh value. One map is
// built for consumption and one for production; hours without a metered
// value count as zero.
type EnergyFlowMap map[string]float64

func (m EnergyFlowMap) Get(dh hours.DateHour) float64 {
	return m[dh.Key()]
}

func (m EnergyFlowMap) Add(dh hours.DateHour, kWh float64) {
	m[dh.Key()] += kWh
}

// Sum returns the total kWh over every hour in the map.
func (m EnergyFlowMap) Sum() float64 {
	total := 0.0
	for _, v := range m {
		total += v
	}
	return total
}
