package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKey(t *testing.T) {
	tokyo := time.FixedZone("UTC+9", 9*60*60)

	tests := []struct {
		name     string
		instant  time.Time
		loc      *time.Location
		expected string
	}{
		{
			name:     "zero padded",
			instant:  time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC),
			loc:      time.UTC,
			expected: "2024-01-05",
		},
		{
			name:     "late evening UTC is next day in UTC+9",
			instant:  time.Date(2024, 12, 31, 20, 0, 0, 0, time.UTC),
			loc:      tokyo,
			expected: "2025-01-01",
		},
		{
			name:     "nil location uses local zone",
			instant:  time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local),
			loc:      nil,
			expected: "2024-06-15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DayKey(tt.instant, tt.loc))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		expected int
	}{
		{name: "same day", from: "2024-03-10", to: "2024-03-10", expected: 0},
		{name: "next day", from: "2024-03-10", to: "2024-03-11", expected: 1},
		{name: "leap day", from: "2024-02-28", to: "2024-02-29", expected: 1},
		{name: "after leap day", from: "2024-02-29", to: "2024-03-01", expected: 1},
		{name: "non-leap february", from: "2023-02-28", to: "2023-03-01", expected: 1},
		{name: "year boundary", from: "2023-12-31", to: "2024-01-01", expected: 1},
		{name: "thirty day month", from: "2024-04-30", to: "2024-05-01", expected: 1},
		{name: "gap", from: "2024-03-10", to: "2024-03-13", expected: 3},
		{name: "backwards", from: "2024-03-10", to: "2024-03-08", expected: -2},
		{name: "whole leap year", from: "2024-01-01", to: "2025-01-01", expected: 366},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff, err := DaysBetween(tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, diff)
		})
	}
}

func TestDaysBetween_InvalidKey(t *testing.T) {
	_, err := DaysBetween("2024-13-01", "2024-01-01")
	assert.Error(t, err)

	_, err = DaysBetween("2024-01-01", "20240102")
	assert.Error(t, err)
}

func TestDay_DateString(t *testing.T) {
	day := Day{Date: time.Date(2024, 12, 12, 10, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2024-12-12", day.DateString())
}

func TestDay_DisplayString(t *testing.T) {
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	twoDaysAgo := now.AddDate(0, 0, -2)

	tests := []struct {
		name     string
		date     time.Time
		expected string
	}{
		{
			name:     "today",
			date:     now,
			expected: "Today",
		},
		{
			name:     "yesterday",
			date:     yesterday,
			expected: "Yesterday",
		},
		{
			name:     "two days ago",
			date:     twoDaysAgo,
			expected: twoDaysAgo.Format("Mon, Jan 2"),
		},
		{
			name:     "specific date",
			date:     time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			expected: "Sat, Jun 15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day := Day{Date: tt.date}
			assert.Equal(t, tt.expected, day.DisplayString())
		})
	}
}
