package domain

import "time"

// WeekParams carries every date the weekly pipeline needs: the report week's
// bounds, the comparison week, and the partition/history range handed to the
// warehouse queries (which return a rolling multi-week history).
type WeekParams struct {
	WeekMonday   WeekLabel `json:"week_monday"`
	WeekSaturday WeekLabel `json:"week_saturday"`
	WeekSunday   WeekLabel `json:"week_sunday"`

	LastWeekMonday   WeekLabel `json:"last_week_monday"`
	LastWeekSaturday WeekLabel `json:"last_week_saturday"`
	LastWeekSunday   WeekLabel `json:"last_week_sunday"`

	PartitionStart WeekLabel `json:"partition_start"`
	PartitionEnd   WeekLabel `json:"partition_end"`
	SnapshotDate   WeekLabel `json:"snapshot_date"`
	HistoryStart   WeekLabel `json:"history_start"`

	ReportDate string `json:"report_date"` // YYYY-MM-DD, the report week's Saturday
	WeekOffset int    `json:"week_offset"`
}

// WeeklyReport is the complete, renderer-ready output of one report run.
type WeeklyReport struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Week        WeekParams     `json:"week"`
	Analysis    AnalysisResult `json:"analysis"`
	Quality     *QualityReport `json:"quality,omitempty"`
}
