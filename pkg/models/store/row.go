package store

import "time"

// SectionRow is one fetched warehouse row as persisted in the local snapshot
// store. The payload keeps the raw column -> value map so a report can be
// regenerated without re-querying the warehouse.
type SectionRow struct {
	Section   string
	Label     int // YYYYMMDD period label; 0 when the source label was malformed
	Payload   map[string]any
	FetchedAt time.Time
}

// ReportRun is one generation attempt in the local run log.
type ReportRun struct {
	ReportDate  string
	WeekSunday  int
	GeneratedAt time.Time
	Status      string
}
