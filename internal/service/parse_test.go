package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1500", 1500, true},
		{"$1,500.75", 1500.75, true},
		{"€ 99,50", 99.50, true},
		{"-250.00", -250, true},
		{"1500.50 USD", 1500.50, true},
		{"", 0, false},
		{"n/a", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseMoney(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 0.001, "input %q", tt.in)
		}
	}
}

func TestParseProbability(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"75", 75, true},
		{"75%", 75, true},
		{"74.6", 75, true},
		{"150", 100, true},
		{"-10", 0, true},
		{"", 0, false},
		{"high", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseProbability(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, "input %q", tt.in)
		}
	}
}

func TestParseBool(t *testing.T) {
	for _, in := range []string{"true", "TRUE", "Yes", "y", "1"} {
		got, ok := parseBool(in)
		require.True(t, ok, "input %q", in)
		assert.True(t, got, "input %q", in)
	}
	for _, in := range []string{"false", "No", "n", "0"} {
		got, ok := parseBool(in)
		require.True(t, ok, "input %q", in)
		assert.False(t, got, "input %q", in)
	}
	for _, in := range []string{"", "maybe", "2"} {
		_, ok := parseBool(in)
		assert.False(t, ok, "input %q", in)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2026-03-15", "2026-03-15"},
		{"03/15/2026", "2026-03-15"},
		{"2026/03/15", "2026-03-15"},
		{"Mar 15, 2026", "2026-03-15"},
		{"15 Mar 2026", "2026-03-15"},
	}
	for _, tt := range tests {
		got, ok := parseDate(tt.in)
		require.True(t, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got.Format("2006-01-02"), "input %q", tt.in)
	}

	_, ok := parseDate("")
	assert.False(t, ok)
	_, ok = parseDate("next tuesday")
	assert.False(t, ok)
}

func TestSplitFullName(t *testing.T) {
	tests := []struct {
		in    string
		first string
		last  string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Jane van der Berg", "Jane", "van der Berg"},
		{"Doe", "Doe", "Doe"},
		{"  Jane   Doe  ", "Jane", "Doe"},
		{"", "", ""},
	}
	for _, tt := range tests {
		first, last := splitFullName(tt.in)
		assert.Equal(t, tt.first, first, "input %q", tt.in)
		assert.Equal(t, tt.last, last, "input %q", tt.in)
	}
}
