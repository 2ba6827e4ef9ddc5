package hours

import (
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"
	hourLayout = "2006-01-02T15"
)

// DateHour identifies one local clock hour. It is the canonical key for
// price rows and metered energy values throughout the application.
type DateHour struct {
	Date string
	Hour uint8
}

// Key renders the interchange form "YYYY-MM-DDTHH".
func (dh DateHour) Key() string {
	return fmt.Sprintf("%sT%02d", dh.Date, dh.Hour)
}

func (dh DateHour) String() string {
	return dh.Key()
}

// MonthKey renders "YYYY-MM", the key used for monthly breakdowns.
func (dh DateHour) MonthKey() string {
	if len(dh.Date) < 7 {
		return dh.Date
	}
	return dh.Date[:7]
}

func (dh DateHour) Add(hours int) DateHour {
	t, err := time.ParseInLocation(hourLayout, dh.Key(), time.UTC)
	if err != nil {
		return dh
	}

	t = t.Add(time.Duration(hours) * time.Hour)
	return DateHour{
		Date: t.Format(dateLayout),
		Hour: uint8(t.Hour()),
	}
}

func (dh DateHour) Sub(hours int) DateHour {
	return dh.Add(-hours)
}

func (dh DateHour) Compare(other DateHour) int {
	if dh == other {
		return 0
	}
	if dh.Date < other.Date {
		return -1
	}
	if dh.Date > other.Date {
		return 1
	}
	if dh.Hour < other.Hour {
		return -1
	}
	return 1
}

func (dh DateHour) Before(other DateHour) bool {
	return dh.Compare(other) < 0
}

func (dh DateHour) IsZero() bool {
	return dh.Date == "" && dh.Hour == 0
}

// Time returns the start of the hour as a UTC time.Time, or the zero time
// for an unparseable DateHour.
func (dh DateHour) Time() time.Time {
	t, err := time.ParseInLocation(hourLayout, dh.Key(), time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

func FromTime(t time.Time) DateHour {
	if t.IsZero() {
		return DateHour{}
	}
	return DateHour{
		Date: t.Format(dateLayout),
		Hour: uint8(t.Hour()),
	}
}

// FromDate returns the first hour of the given calendar day.
func FromDate(date string) (DateHour, error) {
	t, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return DateHour{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return FromTime(t), nil
}

// ParseKey parses an hour timestamp. The price feed publishes both
// "2006-01-02T15:04:05" and "2006-01-02 15:04:05", and the short key
// "2006-01-02T15" is used everywhere internally, so all three are accepted.
func ParseKey(str string) (DateHour, error) {
	for _, layout := range []string{hourLayout, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, str, time.UTC); err == nil {
			return FromTime(t), nil
		}
	}
	return DateHour{}, fmt.Errorf("unsupported hour timestamp %q", str)
}
