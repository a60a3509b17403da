package domain

import (
	"fmt"
	"time"
)

// DayKeyLayout is the layout of calendar-day keys (YYYY-MM-DD)
const DayKeyLayout = "2006-01-02"

// DayKey returns the calendar-day key of t in loc.
// A nil loc means the process's local zone.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DayKeyLayout)
}

// ParseDayKey parses a calendar-day key into midnight UTC of that date
func ParseDayKey(key string) (time.Time, error) {
	date, err := time.ParseInLocation(DayKeyLayout, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return date, nil
}

// DaysBetween returns the number of calendar days from one key to another.
// The result is negative when to is before from.
func DaysBetween(from, to string) (int, error) {
	a, err := ParseDayKey(from)
	if err != nil {
		return 0, err
	}
	b, err := ParseDayKey(to)
	if err != nil {
		return 0, err
	}

	// Both dates are UTC midnights, so every day is exactly 24h.
	return int(b.Sub(a) / (24 * time.Hour)), nil
}

// Day represents a calendar day with studied minutes
type Day struct {
	Date    time.Time
	Minutes int64
}

// DateString returns the day key of the date
func (d Day) DateString() string {
	return d.Date.Format(DayKeyLayout)
}

// DisplayString returns user-friendly date string
func (d Day) DisplayString() string {
	date := d.Date
	now := time.Now().In(date.Location())

	if sameDate(date, now) {
		return "Today"
	}

	if sameDate(date, now.AddDate(0, 0, -1)) {
		return "Yesterday"
	}

	return date.Format("Mon, Jan 2")
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
