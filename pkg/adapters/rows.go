package adapters

import (
	"time"

	"github.com/de-tools/weekly-pulse/pkg/models/domain"
	"github.com/de-tools/weekly-pulse/pkg/models/store"
)

// MapStoreRowToDomain unwraps a snapshot record into the engine's row shape.
func MapStoreRowToDomain(r store.SectionRow) domain.Row {
	return domain.Row(r.Payload)
}

// MapDomainRowToStore wraps a fetched row for snapshot persistence. The period
// label is lifted out of the payload so snapshot reads can filter by week; a
// malformed label is stored as 0 and the row still round-trips.
func MapDomainRowToStore(section domain.SectionID, periodField string, row domain.Row, fetchedAt time.Time) store.SectionRow {
	label, _ := row.Label(periodField)
	return store.SectionRow{
		Section:   string(section),
		Label:     int(label),
		Payload:   map[string]any(row),
		FetchedAt: fetchedAt,
	}
}
