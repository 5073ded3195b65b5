package analysis

import (
	"testing"

	"github.com/de-tools/weekly-pulse/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

func TestWeekOverWeek(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		expected domain.WoWResult
	}{
		{
			name:     "growth",
			current:  57945,
			previous: 27510,
			expected: domain.WoWResult{
				Current:    57945,
				Previous:   27510,
				ChangeAbs:  30435,
				ChangeRate: 110.6,
				Trend:      domain.TrendUp,
			},
		},
		{
			name:     "decline",
			current:  59889,
			previous: 64785,
			expected: domain.WoWResult{
				Current:    59889,
				Previous:   64785,
				ChangeAbs:  -4896,
				ChangeRate: -7.6,
				Trend:      domain.TrendDown,
			},
		},
		{
			name:     "no movement",
			current:  100,
			previous: 100,
			expected: domain.WoWResult{
				Current:  100,
				Previous: 100,
				Trend:    domain.TrendFlat,
			},
		},
		{
			name:    "zero baseline reports current as absolute change",
			current: 42,
			expected: domain.WoWResult{
				Current:   42,
				ChangeAbs: 42,
				Trend:     domain.TrendFlat,
			},
		},
		{
			name:     "both zero",
			expected: domain.WoWResult{Trend: domain.TrendFlat},
		},
		{
			name:     "drop to zero",
			previous: 250,
			expected: domain.WoWResult{
				Previous:   250,
				ChangeAbs:  -250,
				ChangeRate: -100,
				Trend:      domain.TrendDown,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekOverWeek(tt.current, tt.previous)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestWeekOverWeek_SignLaw(t *testing.T) {
	up := WeekOverWeek(120, 100)
	down := WeekOverWeek(80, 100)

	assert.Equal(t, domain.TrendUp, up.Trend)
	assert.Positive(t, up.ChangeAbs)
	assert.Positive(t, up.ChangeRate)

	assert.Equal(t, domain.TrendDown, down.Trend)
	assert.Negative(t, down.ChangeAbs)
	assert.Negative(t, down.ChangeRate)
}

func TestFunnelRate(t *testing.T) {
	tests := []struct {
		name        string
		numerator   float64
		denominator float64
		expected    float64
	}{
		{"plain ratio", 30, 120, 25},
		{"rounded to two decimals", 1, 3, 33.33},
		{"zero denominator", 10, 0, 0},
		{"zero numerator", 0, 50, 0},
		{"above one hundred", 130, 120, 108.33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FunnelRate(tt.numerator, tt.denominator))
		})
	}
}

func TestRoundedAbs(t *testing.T) {
	w := WeekOverWeek(103, 50.5)
	assert.Equal(t, 52.5, w.ChangeAbs)
	assert.Equal(t, 53.0, w.RoundedAbs())
}
