package analysis

import (
	"math"

	"github.com/de-tools/weekly-pulse/pkg/models/domain"
)

// WeekOverWeek computes the movement of one metric between two weeks. It has
// no awareness of section semantics; every section calls it per metric.
//
// A zero (or missing, which callers normalize to zero) previous value means
// there is no baseline: the result reports the current value as the absolute
// change, a 0% rate and a flat trend instead of dividing by zero.
func WeekOverWeek(current, previous float64) domain.WoWResult {
	if previous == 0 {
		return domain.WoWResult{
			Current:   current,
			Previous:  0,
			ChangeAbs: current,
			Trend:     domain.TrendFlat,
		}
	}

	changeAbs := current - previous
	changeRate := Round1(changeAbs / previous * 100)

	trend := domain.TrendFlat
	switch {
	case changeRate > 0:
		trend = domain.TrendUp
	case changeRate < 0:
		trend = domain.TrendDown
	}

	return domain.WoWResult{
		Current:    current,
		Previous:   previous,
		ChangeAbs:  changeAbs,
		ChangeRate: changeRate,
		Trend:      trend,
	}
}

// FunnelRate derives a stage conversion percentage from absolute counts:
// numerator/denominator * 100 rounded to two decimals, 0 when there is no
// denominator.
func FunnelRate(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return Round2(numerator / denominator * 100)
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
