package analysis

import (
	"testing"

	"github.com/de-tools/weekly-pulse/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retentionRow(week int, userType string, rate float64) domain.Row {
	return domain.Row{"prior_week": week, "prior_week_user_type": userType, "second_week_retention": rate}
}

func TestRetentionAggregator(t *testing.T) {
	agg := newRetentionAggregator(DefaultSchema().Mapping(domain.SectionRetention))

	t.Run("fraction rates scale to percentages", func(t *testing.T) {
		current := []domain.Row{
			retentionRow(20260209, "new", 0.117),
			retentionRow(20260209, "returning", 0.465),
		}
		previous := []domain.Row{
			retentionRow(20260202, "new", 0.13),
			retentionRow(20260202, "returning", 0.44),
		}

		metrics, ok := agg.Aggregate(current, previous).(*domain.RetentionMetrics)
		require.True(t, ok)

		assert.Equal(t, 11.7, metrics.NewCohortRate)
		assert.Equal(t, 46.5, metrics.ReturningCohortRate)
		assert.Equal(t, 13.0, metrics.NewCohortPrevious)
		assert.Equal(t, domain.RetentionLow, metrics.Level)
		assert.Equal(t, domain.TrendDown, metrics.NewCohortWoW.Trend)
		assert.Equal(t, domain.TrendUp, metrics.ReturningCohortWoW.Trend)
	})

	t.Run("already-scaled rates pass through", func(t *testing.T) {
		current := []domain.Row{retentionRow(20260209, "new", 35.0)}

		metrics := agg.Aggregate(current, nil).(*domain.RetentionMetrics)
		assert.Equal(t, 35.0, metrics.NewCohortRate)
		assert.Equal(t, domain.RetentionMid, metrics.Level)
	})

	t.Run("multiple cohort rows average", func(t *testing.T) {
		current := []domain.Row{
			retentionRow(20260209, "new", 0.40),
			retentionRow(20260209, "new", 0.50),
		}

		metrics := agg.Aggregate(current, nil).(*domain.RetentionMetrics)
		assert.Equal(t, 45.0, metrics.NewCohortRate)
		assert.Equal(t, domain.RetentionHigh, metrics.Level)
	})

	t.Run("level tier boundaries", func(t *testing.T) {
		tests := []struct {
			rate     float64
			expected domain.RetentionLevel
		}{
			{0.40, domain.RetentionHigh},
			{0.399, domain.RetentionMid},
			{0.30, domain.RetentionMid},
			{0.299, domain.RetentionLow},
		}
		for _, tt := range tests {
			metrics := agg.Aggregate([]domain.Row{retentionRow(20260209, "new", tt.rate)}, nil).(*domain.RetentionMetrics)
			assert.Equal(t, tt.expected, metrics.Level, "rate %v", tt.rate)
		}
	})

	t.Run("no rows degrade to zeros", func(t *testing.T) {
		metrics := agg.Aggregate(nil, nil).(*domain.RetentionMetrics)
		assert.Zero(t, metrics.NewCohortRate)
		assert.Equal(t, domain.RetentionLow, metrics.Level)
		assert.Equal(t, domain.TrendFlat, metrics.NewCohortWoW.Trend)
	})
}
