package hours

import (
	"testing"
	"time"
)

func TestDateHourKey(t *testing.T) {
	dh := DateHour{Date: "2025-01-01", Hour: 5}
	expected := "2025-01-01T05"
	if s := dh.Key(); s != expected {
		t.Errorf("Key() expected %q, got %q", expected, s)
	}
}

func TestDateHourMonthKey(t *testing.T) {
	dh := DateHour{Date: "2025-12-31", Hour: 23}
	expected := "2025-12"
	if s := dh.MonthKey(); s != expected {
		t.Errorf("MonthKey() expected %q, got %q", expected, s)
	}
}

func TestDateHourAdd(t *testing.T) {
	tests := []struct {
		name     string
		input    DateHour
		addHours int
		expected DateHour
	}{
		{
			name:     "add within same day",
			input:    DateHour{Date: "2025-01-01", Hour: 10},
			addHours: 2,
			expected: DateHour{Date: "2025-01-01", Hour: 12},
		},
		{
			name:     "add crossing midnight",
			input:    DateHour{Date: "2025-01-01", Hour: 23},
			addHours: 2,
			expected: DateHour{Date: "2025-01-02", Hour: 1},
		},
		{
			name:     "add negative hours (subtract)",
			input:    DateHour{Date: "2025-01-01", Hour: 1},
			addHours: -2,
			expected: DateHour{Date: "2024-12-31", Hour: 23},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.input.Add(tt.addHours)
			if result != tt.expected {
				t.Errorf("Add(%d) expected %+v, got %+v", tt.addHours, tt.expected, result)
			}
		})
	}
}

func TestDateHourCompare(t *testing.T) {
	a := DateHour{Date: "2025-01-01", Hour: 10}
	b := DateHour{Date: "2025-01-01", Hour: 11}
	c := DateHour{Date: "2025-01-02", Hour: 0}

	if a.Compare(a) != 0 {
		t.Errorf("expected Compare to return 0 for equal hours")
	}
	if a.Compare(b) != -1 || b.Compare(a) != 1 {
		t.Errorf("expected hour ordering within the same day")
	}
	if !b.Before(c) {
		t.Errorf("expected %v to be before %v", b, c)
	}
}

func TestDateHourIsZero(t *testing.T) {
	var dh DateHour
	if !dh.IsZero() {
		t.Errorf("expected a zero value DateHour to be zero")
	}
	dh = DateHour{Date: "2025-01-01", Hour: 0}
	if dh.IsZero() {
		t.Errorf("expected a DateHour with non-empty Date not to be zero")
	}
}

func TestFromTime(t *testing.T) {
	tm := time.Date(2025, time.January, 1, 15, 30, 0, 0, time.UTC)
	dh := FromTime(tm)
	expected := DateHour{Date: "2025-01-01", Hour: 15}
	if dh != expected {
		t.Errorf("FromTime() expected %+v, got %+v", expected, dh)
	}

	var zero time.Time
	if !FromTime(zero).IsZero() {
		t.Errorf("FromTime() with zero time expected a zero DateHour")
	}
}

func TestFromDate(t *testing.T) {
	dh, err := FromDate("2025-03-01")
	if err != nil {
		t.Fatalf("FromDate() unexpected error: %v", err)
	}
	expected := DateHour{Date: "2025-03-01", Hour: 0}
	if dh != expected {
		t.Errorf("FromDate() expected %+v, got %+v", expected, dh)
	}

	if _, err := FromDate("01-03-2025"); err == nil {
		t.Errorf("FromDate() expected error for malformed date")
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected DateHour
		wantErr  bool
	}{
		{
			name:     "short key",
			input:    "2025-01-01T15",
			expected: DateHour{Date: "2025-01-01", Hour: 15},
		},
		{
			name:     "long form with T",
			input:    "2025-01-01T15:00:00",
			expected: DateHour{Date: "2025-01-01", Hour: 15},
		},
		{
			name:     "long form with space",
			input:    "2025-01-01 15:00:00",
			expected: DateHour{Date: "2025-01-01", Hour: 15},
		},
		{
			name:    "garbage",
			input:   "not a timestamp",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dh, err := ParseKey(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseKey(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKey(%q) unexpected error: %v", tt.input, err)
			}
			if dh != tt.expected {
				t.Errorf("ParseKey(%q) expected %+v, got %+v", tt.input, tt.expected, dh)
			}
		})
	}
}
