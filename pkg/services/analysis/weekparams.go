package analysis

import (
	"time"

	"github.com/de-tools/weekly-pulse/pkg/models/domain"
)

// WeekParamsFor derives every date the pipeline needs from a target date and a
// week offset. The report week runs Monday..Sunday with the Sunday as the
// anchor label. The partition range starts one week before the report week so
// the comparison week's rows are always part of the fetch; the history range
// reaches back two months for the sections that need a longer series.
func WeekParamsFor(target time.Time, weekOffset int) domain.WeekParams {
	// Roll forward to the week's Sunday, then apply the offset.
	daysUntilSunday := (7 - int(target.Weekday())) % 7
	sunday := target.AddDate(0, 0, daysUntilSunday+7*weekOffset)

	monday := sunday.AddDate(0, 0, -6)
	saturday := sunday.AddDate(0, 0, -1)

	return domain.WeekParams{
		WeekMonday:   labelFor(monday),
		WeekSaturday: labelFor(saturday),
		WeekSunday:   labelFor(sunday),

		LastWeekMonday:   labelFor(monday.AddDate(0, 0, -7)),
		LastWeekSaturday: labelFor(saturday.AddDate(0, 0, -7)),
		LastWeekSunday:   labelFor(sunday.AddDate(0, 0, -7)),

		PartitionStart: labelFor(monday.AddDate(0, 0, -7)),
		PartitionEnd:   labelFor(sunday),
		SnapshotDate:   labelFor(sunday),
		HistoryStart:   labelFor(sunday.AddDate(0, 0, -60)),

		ReportDate: saturday.Format("2006-01-02"),
		WeekOffset: weekOffset,
	}
}

// WeekParamsForLabel is WeekParamsFor anchored on an explicit YYYYMMDD label.
// A zero label means "this week as of now".
func WeekParamsForLabel(label domain.WeekLabel, weekOffset int, now time.Time) domain.WeekParams {
	if label == 0 {
		return WeekParamsFor(now, weekOffset)
	}
	t, ok := label.Time()
	if !ok {
		return WeekParamsFor(now, weekOffset)
	}
	return WeekParamsFor(t, weekOffset)
}

func labelFor(t time.Time) domain.WeekLabel {
	l, _ := domain.ParseWeekLabel(t.Format("20060102"))
	return l
}
