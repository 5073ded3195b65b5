package analysis

import (
	"fmt"
	"sort"

	"github.com/de-tools/weekly-pulse/pkg/models/domain"
)

// minFunnelWeeks is the number of consecutive weekly rows the funnel
// comparison needs: two-weeks-back, one-week-back and the (possibly still
// incomplete) current week.
const minFunnelWeeks = 3

// activationAggregator derives funnel stage conversion rates from the weekly
// activation series. Unlike the other sections it is not a current/previous
// split: it reads the three most recent rows of a single time series. Each
// row carries the four stage-conversion fractions plus the end-to-end
// fraction, and a count of new registrations for the running week.
type activationAggregator struct {
	mapping ColumnMapping
}

func newActivationAggregator(mapping ColumnMapping) *activationAggregator {
	return &activationAggregator{mapping: mapping}
}

// funnelStageDef ties a stage's fraction column to the raw-count columns it
// can be recomputed from when the fraction is absent.
type funnelStageDef struct {
	name          string
	fractionField string
	numField      string
	denField      string
}

func (a *activationAggregator) stageDefs() []funnelStageDef {
	return []funnelStageDef{
		{"signup_to_tool", FieldSignupToToolRate, FieldEnteredToolUsers, FieldNewRegisteredUsers},
		{"tool_to_design", FieldToolToDesignRate, FieldValidDesignUsers, FieldEnteredToolUsers},
		{"design_to_model", FieldDesignToModelRate, FieldValidModelUsers, FieldValidDesignUsers},
		{"model_to_render", FieldModelToRenderRate, FieldRenderUsers, FieldValidModelUsers},
	}
}

// Aggregate receives the full parseable weekly series in current; previous is
// unused for this section.
func (a *activationAggregator) Aggregate(current, _ []domain.Row) domain.SectionMetrics {
	series := a.sortedSeries(current)
	if len(series) < minFunnelWeeks {
		return a.incomplete()
	}

	twoBack := series[len(series)-3]
	oneBack := series[len(series)-2]
	curr := series[len(series)-1]

	stages := make([]domain.FunnelStage, 0, len(a.stageDefs()))
	for _, def := range a.stageDefs() {
		stages = append(stages, a.stage(def, twoBack, oneBack, curr))
	}

	overall := a.stage(funnelStageDef{
		name:          "overall",
		fractionField: FieldRenderTotalRate,
		numField:      FieldRenderUsers,
		denField:      FieldNewRegisteredUsers,
	}, twoBack, oneBack, curr)

	labels := func(row domain.Row) domain.WeekLabel {
		l, _ := row.Label(a.mapping.Period)
		return l
	}

	return &domain.ActivationMetrics{
		NewRegistrations:  curr.Float(a.mapping.Column(FieldNewRegisteredUsers)),
		Stages:            stages,
		Overall:           overall,
		TwoWeeksBackLabel: labels(twoBack),
		OneWeekBackLabel:  labels(oneBack),
		CurrentWeekLabel:  labels(curr),
	}
}

func (a *activationAggregator) stage(def funnelStageDef, twoBack, oneBack, curr domain.Row) domain.FunnelStage {
	llw := a.stageRate(twoBack, def)
	lw := a.stageRate(oneBack, def)
	change := Round2(lw - llw)
	return domain.FunnelStage{
		Name:         def.name,
		TwoWeeksBack: llw,
		OneWeekBack:  lw,
		Current:      a.stageRate(curr, def),
		Change:       change,
		ChangeLabel:  formatStageChange(change),
	}
}

// stageRate prefers the pre-computed fraction (a [0,1] value scaled to a
// percentage); when the column is absent it falls back to deriving the rate
// from the raw per-stage user counts.
func (a *activationAggregator) stageRate(row domain.Row, def funnelStageDef) float64 {
	col := a.mapping.Column(def.fractionField)
	if row.Has(col) {
		return Round2(row.Float(col) * 100)
	}
	return FunnelRate(row.Float(a.mapping.Column(def.numField)), row.Float(a.mapping.Column(def.denField)))
}

func formatStageChange(change float64) string {
	switch {
	case change > 0:
		return fmt.Sprintf("↑ +%.2f%%", change)
	case change < 0:
		return fmt.Sprintf("↓ %.2f%%", change)
	default:
		return "→ 0.00%"
	}
}

// sortedSeries keeps only rows with parseable labels, ordered oldest first.
func (a *activationAggregator) sortedSeries(rows []domain.Row) []domain.Row {
	type labeled struct {
		label domain.WeekLabel
		row   domain.Row
	}
	series := make([]labeled, 0, len(rows))
	for _, row := range rows {
		label, ok := row.Label(a.mapping.Period)
		if !ok {
			continue
		}
		series = append(series, labeled{label, row})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].label < series[j].label })

	out := make([]domain.Row, len(series))
	for i, s := range series {
		out[i] = s.row
	}
	return out
}

// incomplete is the defined degradation when the series is too short for the
// three-point comparison: every rate zeroed, flagged, never an error.
func (a *activationAggregator) incomplete() *domain.ActivationMetrics {
	stages := make([]domain.FunnelStage, 0, len(a.stageDefs()))
	for _, def := range a.stageDefs() {
		stages = append(stages, domain.FunnelStage{Name: def.name, ChangeLabel: formatStageChange(0)})
	}
	return &domain.ActivationMetrics{
		Stages:         stages,
		Overall:        domain.FunnelStage{Name: "overall", ChangeLabel: formatStageChange(0)},
		IncompleteData: true,
	}
}
