package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanCallbackData(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "normal string",
			input:    "stats",
			expected: "stats",
		},
		{
			name:     "string with whitespace",
			input:    "  mark_read  ",
			expected: "mark_read",
		},
		{
			name:     "string with newline",
			input:    "log\n_session",
			expected: "log_session",
		},
		{
			name:     "string with tab",
			input:    "bad\tges",
			expected: "badges",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only whitespace",
			input:    "   ",
			expected: "",
		},
		{
			name:     "string with unprintable characters",
			input:    "\fnotifications\x00\x01",
			expected: "notifications",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cleanCallbackData(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}
