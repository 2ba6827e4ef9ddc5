package energyprice

import (
	"log/slog"
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	raw := []RawPrice{
		{Datum: "2025-01-01T00:00:00", Price: "0,105"},
		{Datum: "2025-01-01 01:00:00", Price: "0.099"},
		{Datum: "garbage", Price: "0,100"},
		{Datum: "2025-01-01T03:00:00", Price: "n/a"},
		{Datum: "2025-01-01T04:00:00", Price: "-0,002"},
	}

	prices := Parse(slog.Default(), raw)

	// Two malformed rows are skipped, the rest survive.
	if len(prices) != 3 {
		t.Fatalf("expected 3 parsed prices, got %d", len(prices))
	}

	if prices[0].Hour.Key() != "2025-01-01T00" {
		t.Errorf("unexpected first hour %s", prices[0].Hour.Key())
	}
	if !almostEqual(prices[0].Price, 0.105) {
		t.Errorf("comma decimal expected 0.105, got %f", prices[0].Price)
	}
	if !almostEqual(prices[1].Price, 0.099) {
		t.Errorf("dot decimal expected 0.099, got %f", prices[1].Price)
	}
	if !almostEqual(prices[2].Price, -0.002) {
		t.Errorf("negative price expected -0.002, got %f", prices[2].Price)
	}
}

func TestParseEmpty(t *testing.T) {
	if prices := Parse(slog.Default(), nil); len(prices) != 0 {
		t.Errorf("expected no prices for empty input, got %d", len(prices))
	}
}

func almostEqual(f1 float64, f2 float64) bool {
	return math.Abs(f1-f2) < 1e-9
}
