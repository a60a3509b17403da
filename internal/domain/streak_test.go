package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextStreak(t *testing.T) {
	tests := []struct {
		name     string
		prev     int
		lastDay  string
		eventDay string
		expected int
	}{
		{name: "first ever event", prev: 0, lastDay: "", eventDay: "2024-05-01", expected: 1},
		{name: "first ever event ignores stale count", prev: 9, lastDay: "", eventDay: "2024-05-01", expected: 1},
		{name: "same day keeps streak", prev: 4, lastDay: "2024-05-01", eventDay: "2024-05-01", expected: 4},
		{name: "same day with zero streak", prev: 0, lastDay: "2024-05-01", eventDay: "2024-05-01", expected: 1},
		{name: "consecutive day", prev: 4, lastDay: "2024-05-01", eventDay: "2024-05-02", expected: 5},
		{name: "leap year february", prev: 2, lastDay: "2024-02-28", eventDay: "2024-02-29", expected: 3},
		{name: "non-leap year february", prev: 2, lastDay: "2023-02-28", eventDay: "2023-03-01", expected: 3},
		{name: "year boundary", prev: 10, lastDay: "2023-12-31", eventDay: "2024-01-01", expected: 11},
		{name: "two day gap resets", prev: 10, lastDay: "2024-05-01", eventDay: "2024-05-03", expected: 1},
		{name: "long gap resets", prev: 3, lastDay: "2023-05-01", eventDay: "2024-05-03", expected: 1},
		{name: "out of order keeps streak", prev: 6, lastDay: "2024-05-10", eventDay: "2024-05-08", expected: 6},
		{name: "malformed history", prev: 6, lastDay: "garbage", eventDay: "2024-05-08", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextStreak(tt.prev, tt.lastDay, tt.eventDay))
		})
	}
}

func TestLatestDay(t *testing.T) {
	assert.Equal(t, "2024-05-02", LatestDay("", "2024-05-02"))
	assert.Equal(t, "2024-05-02", LatestDay("2024-05-01", "2024-05-02"))
	assert.Equal(t, "2024-05-02", LatestDay("2024-05-02", "2024-05-02"))
	assert.Equal(t, "2024-05-10", LatestDay("2024-05-10", "2024-05-02"))
}

func TestActiveStreak(t *testing.T) {
	assert.Equal(t, 0, ActiveStreak(3, "", "2024-05-10"))
	assert.Equal(t, 3, ActiveStreak(3, "2024-05-10", "2024-05-10"))
	assert.Equal(t, 3, ActiveStreak(3, "2024-05-09", "2024-05-10"))
	assert.Equal(t, 0, ActiveStreak(3, "2024-05-08", "2024-05-10"))
}
