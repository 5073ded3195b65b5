package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowAccessors(t *testing.T) {
	row := Row{
		"count_f64":  42.5,
		"count_i64":  int64(7),
		"count_str":  "13.25",
		"count_byte": []byte("99"),
		"name":       "organic",
		"name_byte":  []byte("paid"),
		"empty":      nil,
	}

	t.Run("Float normalizes driver types", func(t *testing.T) {
		assert.Equal(t, 42.5, row.Float("count_f64"))
		assert.Equal(t, 7.0, row.Float("count_i64"))
		assert.Equal(t, 13.25, row.Float("count_str"))
		assert.Equal(t, 99.0, row.Float("count_byte"))
	})

	t.Run("Float defaults to zero", func(t *testing.T) {
		assert.Zero(t, row.Float("missing"))
		assert.Zero(t, row.Float("empty"))
		assert.Zero(t, row.Float("name"))
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "organic", row.String("name"))
		assert.Equal(t, "paid", row.String("name_byte"))
		assert.Equal(t, "", row.String("missing"))
		assert.Equal(t, "", row.String("count_f64"))
	})

	t.Run("Has", func(t *testing.T) {
		assert.True(t, row.Has("name"))
		assert.False(t, row.Has("empty"))
		assert.False(t, row.Has("missing"))
	})
}

func TestParseWeekLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected WeekLabel
		ok       bool
	}{
		{"int", 20260215, 20260215, true},
		{"int64", int64(20260215), 20260215, true},
		{"float", float64(20260215), 20260215, true},
		{"string", "20260215", 20260215, true},
		{"bytes", []byte("20260215"), 20260215, true},
		{"label passthrough", WeekLabel(20260215), 20260215, true},
		{"too short", 2026021, 0, false},
		{"too long", 202602150, 0, false},
		{"impossible date", 20261340, 0, false},
		{"text", "last sunday", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseWeekLabel(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestWeekLabelAddDays(t *testing.T) {
	assert.Equal(t, WeekLabel(20260222), WeekLabel(20260215).AddDays(7))
	assert.Equal(t, WeekLabel(20260208), WeekLabel(20260215).AddDays(-7))
	// Month boundary.
	assert.Equal(t, WeekLabel(20260301), WeekLabel(20260222).AddDays(7))
	// Bad labels shift to zero.
	assert.Equal(t, WeekLabel(0), WeekLabel(123).AddDays(7))
}

func TestWeekWindowOf(t *testing.T) {
	t.Run("monday anchors its own week", func(t *testing.T) {
		w := WeekWindowOf(20260216)
		assert.Equal(t, WeekLabel(20260216), w.Start)
		assert.Equal(t, WeekLabel(20260222), w.End)
	})

	t.Run("sunday closes the week", func(t *testing.T) {
		w := WeekWindowOf(20260222)
		assert.Equal(t, WeekLabel(20260216), w.Start)
		assert.Equal(t, WeekLabel(20260222), w.End)
	})

	t.Run("bad label yields the empty window", func(t *testing.T) {
		w := WeekWindowOf(123)
		assert.True(t, w.Empty())
	})
}
