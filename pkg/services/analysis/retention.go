package analysis

import "github.com/de-tools/weekly-pulse/pkg/models/domain"

// Qualitative retention tiers for the new-cohort current rate, in percent.
const (
	retentionHighFloor = 40
	retentionMidFloor  = 30
)

// retentionAggregator averages second-week retention per cohort type. The
// windows it receives are already shifted one week back by the resolver, so a
// cohort's retention is attributed to its registration week.
//
// The warehouse reports the rate either as a [0,1) fraction or, in older
// series, as an already-scaled percentage; values below 1 are scaled by 100,
// anything else is taken as-is.
type retentionAggregator struct {
	mapping ColumnMapping
}

func newRetentionAggregator(mapping ColumnMapping) *retentionAggregator {
	return &retentionAggregator{mapping: mapping}
}

func (a *retentionAggregator) Aggregate(current, previous []domain.Row) domain.SectionMetrics {
	newRate, returningRate := a.meanByType(current)
	newPrev, returningPrev := a.meanByType(previous)

	return &domain.RetentionMetrics{
		NewCohortRate:           Round1(newRate),
		NewCohortPrevious:       Round1(newPrev),
		ReturningCohortRate:     Round1(returningRate),
		ReturningCohortPrevious: Round1(returningPrev),
		NewCohortWoW:            WeekOverWeek(newRate, newPrev),
		ReturningCohortWoW:      WeekOverWeek(returningRate, returningPrev),
		Level:                   retentionLevel(newRate),
	}
}

func (a *retentionAggregator) meanByType(rows []domain.Row) (newMean, returningMean float64) {
	rateCol := a.mapping.Column(FieldRetentionRate)

	var newSum, returningSum float64
	var newN, returningN int
	for _, row := range rows {
		rate := normalizeRate(row.Float(rateCol))
		switch row.String(a.mapping.Dimension) {
		case a.mapping.NewUserValue:
			newSum += rate
			newN++
		case a.mapping.ReturningUserValue:
			returningSum += rate
			returningN++
		}
	}
	if newN > 0 {
		newMean = newSum / float64(newN)
	}
	if returningN > 0 {
		returningMean = returningSum / float64(returningN)
	}
	return newMean, returningMean
}

// normalizeRate scales fraction-form rates to percentages; rates of 1 or more
// are assumed to already be percentages.
func normalizeRate(v float64) float64 {
	if v < 1 {
		return v * 100
	}
	return v
}

func retentionLevel(newCohortRate float64) domain.RetentionLevel {
	switch {
	case newCohortRate >= retentionHighFloor:
		return domain.RetentionHigh
	case newCohortRate >= retentionMidFloor:
		return domain.RetentionMid
	default:
		return domain.RetentionLow
	}
}
