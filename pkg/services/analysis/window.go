package analysis

import (
	"github.com/de-tools/weekly-pulse/pkg/models/domain"
)

// Windows is the pair of Monday..Sunday label intervals a section's rows are
// split into: the report week and the comparison week immediately before it.
type Windows struct {
	Current  domain.WeekWindow
	Previous domain.WeekWindow
}

// ResolveWindows determines the report and comparison windows for a section
// from its raw rows. The warehouse returns a rolling multi-week history, so
// the target week has to be picked out of the data:
//
//   - an explicit target label wins when supplied;
//   - otherwise the latest period label found in the rows is used, with ties
//     broken by row count, since a partially-ingested latest week may carry
//     fewer dimension rows than a fully-settled one.
//
// Retention is the documented special case: second-week retention for a
// cohort is reported against the cohort's registration week, so both windows
// shift back one extra week. A target label of 20260216 anchors the current
// retention window at 20260209 and the previous one at 20260202.
//
// Rows whose period label does not parse as YYYYMMDD never match any window.
// No rows (or no parseable labels) yields two empty windows, not an error.
func ResolveWindows(rows []domain.Row, section domain.SectionID, schema Schema, explicit domain.WeekLabel) Windows {
	target := explicit
	if target == 0 {
		target = pickLatestLabel(rows, schema.PeriodField(section))
	}
	if target == 0 {
		return Windows{}
	}

	current := domain.WeekWindowOf(target)
	if section == domain.SectionRetention {
		current = current.ShiftDays(-7)
	}

	return Windows{
		Current:  current,
		Previous: current.ShiftDays(-7),
	}
}

// pickLatestLabel selects the target week label: latest first, most rows on a
// tie. Returns 0 when no row carries a parseable label.
func pickLatestLabel(rows []domain.Row, periodField string) domain.WeekLabel {
	counts := make(map[domain.WeekLabel]int)
	for _, row := range rows {
		label, ok := row.Label(periodField)
		if !ok {
			continue
		}
		counts[label]++
	}

	var best domain.WeekLabel
	for label, n := range counts {
		if best == 0 || label > best || (label == best && n > counts[best]) {
			best = label
		}
	}
	return best
}

// SplitRows partitions rows into the two windows by their period label.
// Rows outside both windows, and rows with malformed labels, are dropped.
func SplitRows(rows []domain.Row, periodField string, w Windows) (current, previous []domain.Row) {
	for _, row := range rows {
		label, ok := row.Label(periodField)
		if !ok {
			continue
		}
		switch {
		case w.Current.Contains(label):
			current = append(current, row)
		case w.Previous.Contains(label):
			previous = append(previous, row)
		}
	}
	return current, previous
}
