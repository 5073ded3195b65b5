package quality

import (
	"context"
	"testing"

	"github.com/de-tools/weekly-pulse/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trafficInput() SectionInput {
	return SectionInput{
		Rows: []domain.Row{
			{"date": 20260215, "new_visitors": 100.0, "new_visitor_registrations": 40.0},
		},
		Current:  domain.Row{"new_visitors": 100.0},
		Previous: domain.Row{"new_visitors": 95.0},
	}
}

func TestReportBuilder_Build(t *testing.T) {
	b := NewReportBuilder(nil, nil)
	ctx := context.Background()

	t.Run("clean sections roll up to ok", func(t *testing.T) {
		report := b.Build(ctx, map[domain.SectionID]SectionInput{
			domain.SectionTraffic: trafficInput(),
		})

		assert.Equal(t, domain.QualityOK, report.OverallStatus)
		assert.Equal(t, 1, report.Summary.TotalSections)
		assert.Equal(t, 1, report.Summary.ValidSections)
		assert.Zero(t, report.Summary.TotalAnomalies)
		require.Contains(t, report.Sections, domain.SectionTraffic)
		assert.Equal(t, domain.QualityOK, report.Sections[domain.SectionTraffic].Status)
		require.NotEmpty(t, report.Recommendations)
		assert.Contains(t, report.Recommendations[0], "all sections passed")
	})

	t.Run("completeness failure marks the section error", func(t *testing.T) {
		report := b.Build(ctx, map[domain.SectionID]SectionInput{
			domain.SectionTraffic: {Rows: nil},
		})

		assert.Equal(t, domain.QualityError, report.OverallStatus)
		assert.Equal(t, 1, report.Summary.ErrorSections)
		assert.Equal(t, domain.QualityError, report.Sections[domain.SectionTraffic].Status)
	})

	t.Run("anomaly marks the section warning", func(t *testing.T) {
		in := trafficInput()
		in.Current = domain.Row{"new_visitors": 300.0}
		in.Previous = domain.Row{"new_visitors": 100.0}

		report := b.Build(ctx, map[domain.SectionID]SectionInput{
			domain.SectionTraffic: in,
		})

		assert.Equal(t, domain.QualityWarning, report.OverallStatus)
		assert.Equal(t, 1, report.Summary.WarningSections)
		assert.Equal(t, 1, report.Summary.TotalAnomalies)

		sq := report.Sections[domain.SectionTraffic]
		require.Len(t, sq.Anomalies, 1)
		assert.Equal(t, domain.SeverityCritical, sq.Anomalies[0].Severity)
	})

	t.Run("error outranks warning in the roll-up", func(t *testing.T) {
		warn := trafficInput()
		warn.Current = domain.Row{"new_visitors": 300.0}
		warn.Previous = domain.Row{"new_visitors": 100.0}

		report := b.Build(ctx, map[domain.SectionID]SectionInput{
			domain.SectionTraffic: warn,
			domain.SectionRevenue: {Rows: nil},
		})

		assert.Equal(t, domain.QualityError, report.OverallStatus)
	})

	t.Run("empty revenue gets a note", func(t *testing.T) {
		report := b.Build(ctx, map[domain.SectionID]SectionInput{
			domain.SectionRevenue: {Rows: nil},
		})

		sq := report.Sections[domain.SectionRevenue]
		require.NotEmpty(t, sq.Notes)
		assert.Contains(t, sq.Notes[0], "revenue data is empty")
	})

	t.Run("short activation series gets a note", func(t *testing.T) {
		report := b.Build(ctx, map[domain.SectionID]SectionInput{
			domain.SectionActivation: {
				Rows: []domain.Row{
					{"date": 20260215, "signup_to_tool_rate": 0.5, "tool_to_design_rate": 0.4, "design_to_model_rate": 0.3, "model_to_render_rate": 0.2},
				},
			},
		})

		sq := report.Sections[domain.SectionActivation]
		require.NotEmpty(t, sq.Notes)
		assert.Contains(t, sq.Notes[0], "shorter than three weeks")
	})

	t.Run("sections absent from the input are skipped", func(t *testing.T) {
		report := b.Build(ctx, map[domain.SectionID]SectionInput{
			domain.SectionTraffic: trafficInput(),
		})
		assert.NotContains(t, report.Sections, domain.SectionRevenue)
	})
}
