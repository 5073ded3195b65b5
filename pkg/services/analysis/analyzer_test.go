package analysis

import (
	"context"
	"testing"

	"github.com/de-tools/weekly-pulse/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzer_AnalyzeSection(t *testing.T) {
	analyzer := NewAnalyzer(Config{})
	ctx := context.Background()

	t.Run("rows are re-split by label regardless of argument", func(t *testing.T) {
		// Both weeks arrive in currentRows; the resolver must still split them.
		rows := []domain.Row{
			{"date": 20260215, "channel": "organic", "new_visitors": 100.0, "new_visitor_registrations": 40.0},
			{"date": 20260208, "channel": "organic", "new_visitors": 80.0, "new_visitor_registrations": 30.0},
		}

		metrics, err := analyzer.AnalyzeSection(ctx, domain.SectionTraffic, rows, nil, 0)
		require.NoError(t, err)

		traffic, ok := metrics.(*domain.TrafficMetrics)
		require.True(t, ok)
		assert.Equal(t, 100.0, traffic.NewVisitorsCurrent)
		assert.Equal(t, 80.0, traffic.NewVisitorsPrevious)
	})

	t.Run("explicit week overrides the latest label", func(t *testing.T) {
		rows := []domain.Row{
			{"date": 20260215, "channel": "organic", "new_visitors": 100.0},
			{"date": 20260208, "channel": "organic", "new_visitors": 80.0},
		}

		metrics, err := analyzer.AnalyzeSection(ctx, domain.SectionTraffic, rows, nil, domain.WeekLabel(20260208))
		require.NoError(t, err)

		traffic := metrics.(*domain.TrafficMetrics)
		assert.Equal(t, 80.0, traffic.NewVisitorsCurrent)
	})

	t.Run("activation receives the whole series", func(t *testing.T) {
		rows := []domain.Row{
			funnelRow(20260201, 900, 0.50, 0.40, 0.30, 0.20, 0.012),
			funnelRow(20260208, 1000, 0.52, 0.41, 0.28, 0.22, 0.013),
			funnelRow(20260215, 1100, 0.51, 0.43, 0.29, 0.21, 0.014),
		}

		metrics, err := analyzer.AnalyzeSection(ctx, domain.SectionActivation, rows, nil, 0)
		require.NoError(t, err)

		activation := metrics.(*domain.ActivationMetrics)
		assert.False(t, activation.IncompleteData)
		assert.Equal(t, domain.WeekLabel(20260201), activation.TwoWeeksBackLabel)
	})

	t.Run("unknown section fails loudly", func(t *testing.T) {
		_, err := analyzer.AnalyzeSection(ctx, domain.SectionID("nonsense"), nil, nil, 0)
		assert.Error(t, err)
	})
}

func TestAnalyzer_AnalyzeAll(t *testing.T) {
	analyzer := NewAnalyzer(Config{})
	ctx := context.Background()

	t.Run("composes every supplied section", func(t *testing.T) {
		input := map[domain.SectionID][]domain.Row{
			domain.SectionTraffic: {
				{"date": 20260215, "channel": "organic", "new_visitors": 100.0},
			},
			domain.SectionRevenue: {
				revenueRow(20260215, 1000, 400, 600),
			},
		}

		result, err := analyzer.AnalyzeAll(ctx, input, 0)
		require.NoError(t, err)

		assert.Len(t, result.Sections, 2)
		assert.Contains(t, result.Sections, domain.SectionTraffic)
		assert.Contains(t, result.Sections, domain.SectionRevenue)
		assert.NotContains(t, result.Sections, domain.SectionEngagement)
	})

	t.Run("unknown section key fails the run", func(t *testing.T) {
		input := map[domain.SectionID][]domain.Row{
			domain.SectionID("bogus"): {},
		}
		_, err := analyzer.AnalyzeAll(ctx, input, 0)
		assert.Error(t, err)
	})

	t.Run("empty input yields an empty result", func(t *testing.T) {
		result, err := analyzer.AnalyzeAll(ctx, nil, 0)
		require.NoError(t, err)
		assert.Empty(t, result.Sections)
	})
}

func TestAnalyzer_ResolveSectionWindows(t *testing.T) {
	analyzer := NewAnalyzer(Config{})

	t.Run("resolves from rows", func(t *testing.T) {
		rows := []domain.Row{{"date": 20260215}}
		w, err := analyzer.ResolveSectionWindows(domain.SectionTraffic, rows, 0)
		require.NoError(t, err)
		assert.Equal(t, domain.WeekLabel(20260209), w.Current.Start)
	})

	t.Run("rejects unknown sections", func(t *testing.T) {
		_, err := analyzer.ResolveSectionWindows(domain.SectionID("bogus"), nil, 0)
		assert.Error(t, err)
	})
}
