package sensors

import (
	"testing"
	"time"
)

func TestLocalHour(t *testing.T) {
	tests := []struct {
		utc      string
		expected string
	}{
		{"2025-01-15T12:00:00Z", "2025-01-15T12:00:00Z"},
		{"2025-03-30T01:59:59Z", "2025-03-30T01:59:59Z"},
		{"2025-03-30T02:00:00Z", "2025-03-30T03:00:00Z"},
		{"2025-07-01T00:00:00Z", "2025-07-01T01:00:00Z"},
		{"2025-10-26T02:59:59Z", "2025-10-26T03:59:59Z"},
		{"2025-10-26T03:00:00Z", "2025-10-26T03:00:00Z"},
		{"2025-12-31T23:00:00Z", "2025-12-31T23:00:00Z"},
	}

	for _, test := range tests {
		utc, err := time.Parse(time.RFC3339, test.utc)
		if err != nil {
			t.Fatalf("bad test input %s: %v", test.utc, err)
		}
		expected, _ := time.Parse(time.RFC3339, test.expected)
		if actual := LocalHour(utc); !actual.Equal(expected) {
			t.Errorf("LocalHour(%s) = %s, expected %s", test.utc, actual, test.expected)
		}
	}
}

func TestLastSundayBefore(t *testing.T) {
	// April 1st 2029 is itself a Sunday, the last Sunday of March is the 25th.
	actual := lastSundayBefore(time.Date(2029, time.April, 1, 0, 0, 0, 0, time.UTC))
	if actual.Day() != 25 || actual.Month() != time.March {
		t.Errorf("expected 2029-03-25, got %s", actual)
	}

	actual = lastSundayBefore(time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC))
	if actual.Day() != 26 || actual.Month() != time.October {
		t.Errorf("expected 2025-10-26, got %s", actual)
	}
}
