package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEpoch(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "first day of year",
			input: "2024-001T00:00:00Z",
			want:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "day of year crosses into February",
			input: "2024-045T12:30:15Z",
			want:  time.Date(2024, time.February, 14, 12, 30, 15, 0, time.UTC),
		},
		{
			name:  "feed form with millisecond fraction",
			input: "2024-046T12:00:00.000Z",
			want:  time.Date(2024, time.February, 15, 12, 0, 0, 0, time.UTC),
		},
		{
			name:  "nonzero fraction",
			input: "2024-046T12:00:00.250Z",
			want:  time.Date(2024, time.February, 15, 12, 0, 0, 250_000_000, time.UTC),
		},
		{
			name:  "day 366 in a leap year",
			input: "2024-366T23:59:59Z",
			want:  time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEpoch(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseEpoch_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "garbage", input: "not-an-epoch"},
		{name: "calendar date instead of day of year", input: "2024-02-14T12:00:00Z"},
		{name: "day zero", input: "2024-000T00:00:00Z"},
		{name: "day beyond year", input: "2024-367T00:00:00Z"},
		{name: "day 366 in a non-leap year", input: "2023-366T00:00:00Z"},
		{name: "missing trailing Z", input: "2024-001T00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEpoch(tt.input)
			require.Error(t, err)
		})
	}
}
