package analysis

import "github.com/de-tools/weekly-pulse/pkg/models/domain"

// revenueAggregator sums the three revenue streams per window. The warehouse
// normally returns one row per week, but multiple rows (e.g. a restated
// partial load) are tolerated and summed.
type revenueAggregator struct {
	mapping ColumnMapping
}

func newRevenueAggregator(mapping ColumnMapping) *revenueAggregator {
	return &revenueAggregator{mapping: mapping}
}

func (a *revenueAggregator) Aggregate(current, previous []domain.Row) domain.SectionMetrics {
	total, newSigning, renewal := a.sums(current)
	totalPrev, newSigningPrev, renewalPrev := a.sums(previous)

	return &domain.RevenueMetrics{
		TotalCurrent:       total,
		TotalPrevious:      totalPrev,
		NewSigningCurrent:  newSigning,
		NewSigningPrevious: newSigningPrev,
		RenewalCurrent:     renewal,
		RenewalPrevious:    renewalPrev,
		TotalWoW:           WeekOverWeek(total, totalPrev),
		NewSigningWoW:      WeekOverWeek(newSigning, newSigningPrev),
		RenewalWoW:         WeekOverWeek(renewal, renewalPrev),
	}
}

func (a *revenueAggregator) sums(rows []domain.Row) (total, newSigning, renewal float64) {
	totalCol := a.mapping.Column(FieldTotalAmount)
	newCol := a.mapping.Column(FieldNewSigningAmount)
	renewalCol := a.mapping.Column(FieldRenewalAmount)
	for _, row := range rows {
		total += row.Float(totalCol)
		newSigning += row.Float(newCol)
		renewal += row.Float(renewalCol)
	}
	return total, newSigning, renewal
}
