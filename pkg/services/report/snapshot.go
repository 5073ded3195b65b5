package report

import (
	"context"

	"github.com/de-tools/weekly-pulse/pkg/adapters"
	"github.com/de-tools/weekly-pulse/pkg/models/domain"
	"github.com/de-tools/weekly-pulse/pkg/models/store"
)

// SnapshotReader is the read side of the local snapshot store.
type SnapshotReader interface {
	GetSection(ctx context.Context, section string, startLabel, endLabel int) ([]store.SectionRow, error)
}

// SnapshotSource replays a previously fetched week from the local snapshot
// store, so a report can be regenerated offline.
type SnapshotSource struct {
	reader SnapshotReader
}

func NewSnapshotSource(reader SnapshotReader) *SnapshotSource {
	return &SnapshotSource{reader: reader}
}

func (s *SnapshotSource) FetchSection(ctx context.Context, section domain.SectionID, params domain.WeekParams) ([]domain.Row, error) {
	records, err := s.reader.GetSection(ctx, string(section), int(params.HistoryStart), int(params.PartitionEnd))
	if err != nil {
		return nil, err
	}
	rows := make([]domain.Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, adapters.MapStoreRowToDomain(record))
	}
	return rows, nil
}
