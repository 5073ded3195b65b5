package analysis

import "github.com/de-tools/weekly-pulse/pkg/models/domain"

// engagementAggregator sums weekly-active counts per user type. Rows are
// partitioned by the user-type dimension (new-registered vs returning) within
// each window.
type engagementAggregator struct {
	mapping ColumnMapping
}

func newEngagementAggregator(mapping ColumnMapping) *engagementAggregator {
	return &engagementAggregator{mapping: mapping}
}

func (a *engagementAggregator) Aggregate(current, previous []domain.Row) domain.SectionMetrics {
	newWAU, returningWAU := a.sumByType(current)
	newPrev, returningPrev := a.sumByType(previous)

	totalCurrent := newWAU + returningWAU
	totalPrevious := newPrev + returningPrev

	newWoW := WeekOverWeek(newWAU, newPrev)
	returningWoW := WeekOverWeek(returningWAU, returningPrev)

	return &domain.EngagementMetrics{
		NewUserWAU:               newWAU,
		NewUserWAUPrevious:       newPrev,
		ReturningUserWAU:         returningWAU,
		ReturningUserWAUPrevious: returningPrev,
		TotalWAUCurrent:          totalCurrent,
		TotalWAUPrevious:         totalPrevious,
		TotalWoW:                 WeekOverWeek(totalCurrent, totalPrevious),
		NewUserWoW:               newWoW,
		ReturningWoW:             returningWoW,
		DominantContributor:      dominantContributor(newWoW, returningWoW),
	}
}

func (a *engagementAggregator) sumByType(rows []domain.Row) (newWAU, returningWAU float64) {
	wauCol := a.mapping.Column(FieldWAU)
	for _, row := range rows {
		switch row.String(a.mapping.Dimension) {
		case a.mapping.NewUserValue:
			newWAU += row.Float(wauCol)
		case a.mapping.ReturningUserValue:
			returningWAU += row.Float(wauCol)
		}
	}
	return newWAU, returningWAU
}

// dominantContributor names whichever cohort moved harder week over week.
func dominantContributor(newWoW, returningWoW domain.WoWResult) string {
	switch {
	case abs(newWoW.ChangeRate) > abs(returningWoW.ChangeRate):
		return domain.ContributorNew
	case abs(returningWoW.ChangeRate) > abs(newWoW.ChangeRate):
		return domain.ContributorReturning
	default:
		return domain.ContributorBalanced
	}
}
