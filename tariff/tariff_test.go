package tariff

import (
	"math"
	"testing"

	"github.com/jhofstede/energycost-go/config"
)

var testTaxes = config.AppConfigTaxes{
	EnergyTax:              0.10,
	StorageCostConsumption: 0.02,
	StorageCostProduction:  0.01,
	VatPercent:             21,
}

func TestForHourWithoutNetMetering(t *testing.T) {
	p := ForHour(0.20, 0, 0, testTaxes)

	// (0.20 + 0.02 + 0.10) * 1.21
	if !almostEqual(p.Consumption, 0.3872) {
		t.Errorf("consumption price expected 0.3872, got %f", p.Consumption)
	}
	// 0.20 + 0.01, no tax and no VAT for the producer
	if !almostEqual(p.Production, 0.21) {
		t.Errorf("production price expected 0.21, got %f", p.Production)
	}
}

func TestForHourNetMeteringWithinAllowance(t *testing.T) {
	taxes := testTaxes
	taxes.NetMetering = true

	p := ForHour(0.20, 50, 100, taxes)

	// (0.20 + 0.01 + 0.10) * 1.21
	if !almostEqual(p.Production, 0.3751) {
		t.Errorf("production price expected 0.3751, got %f", p.Production)
	}
	// Consumption price is independent of the allowance.
	if !almostEqual(p.Consumption, 0.3872) {
		t.Errorf("consumption price expected 0.3872, got %f", p.Consumption)
	}
}

func TestForHourNetMeteringExhausted(t *testing.T) {
	taxes := testTaxes
	taxes.NetMetering = true

	tests := []struct {
		name       string
		cumulative float64
		annual     float64
		expected   float64
	}{
		{name: "on the threshold", cumulative: 100, annual: 100, expected: 0.3751},
		{name: "past the threshold", cumulative: 100.5, annual: 100, expected: 0.21},
		{name: "zero annual consumption", cumulative: 0, annual: 0, expected: 0.21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ForHour(0.20, tt.cumulative, tt.annual, taxes)
			if !almostEqual(p.Production, tt.expected) {
				t.Errorf("production price expected %f, got %f", tt.expected, p.Production)
			}
		})
	}
}

func TestForHourNegativeWholesale(t *testing.T) {
	p := ForHour(-0.15, 0, 0, testTaxes)

	// (-0.15 + 0.02 + 0.10) * 1.21
	if !almostEqual(p.Consumption, -0.0363) {
		t.Errorf("consumption price expected -0.0363, got %f", p.Consumption)
	}
	if !almostEqual(p.Production, -0.14) {
		t.Errorf("production price expected -0.14, got %f", p.Production)
	}
}

func almostEqual(f1 float64, f2 float64) bool {
	return math.Abs(f1-f2) < 1e-9
}
