package sensors

import (
	"time"
)

// LocalHour shifts a UTC timestamp into the local clock hour the meter
// readings are keyed by: one hour forward while CET summer time is in
// effect. The window runs from the last Sunday of March 02:00 until the
// last Sunday of October 03:00.
func LocalHour(utc time.Time) time.Time {
	year := utc.Year()
	if !utc.Before(dstStart(year)) && utc.Before(dstEnd(year)) {
		return utc.Add(time.Hour)
	}
	return utc
}

func dstStart(year int) time.Time {
	return lastSundayBefore(time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC)).Add(2 * time.Hour)
}

func dstEnd(year int) time.Time {
	return lastSundayBefore(time.Date(year, time.November, 1, 0, 0, 0, 0, time.UTC)).Add(3 * time.Hour)
}

func lastSundayBefore(t time.Time) time.Time {
	days := int(t.Weekday())
	if days == 0 {
		days = 7
	}
	return t.AddDate(0, 0, -days)
}
