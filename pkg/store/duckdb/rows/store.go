package rows

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/de-tools/weekly-pulse/pkg/models/store"
	"github.com/de-tools/weekly-pulse/pkg/store/duckdb"
)

// Store persists fetched warehouse rows locally so a report can be
// regenerated or audited without re-querying the warehouse.
type Store interface {
	Add(ctx context.Context, records []store.SectionRow) error
	GetSection(ctx context.Context, section string, startLabel, endLabel int) ([]store.SectionRow, error)
	DeleteSection(ctx context.Context, section string, startLabel, endLabel int) error
}

type rowStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &rowStore{db: db}, nil
}

func (s *rowStore) Add(ctx context.Context, records []store.SectionRow) error {
	if len(records) == 0 {
		return nil
	}

	tx := duckdb.GetTransaction(ctx)
	query := `
		INSERT INTO section_rows (section, label, payload, fetched_at)
		VALUES (?, ?, ?, ?)`

	var stmt *sql.Stmt
	var err error
	if tx == nil {
		stmt, err = s.db.PrepareContext(ctx, query)
	} else {
		stmt, err = tx.PrepareContext(ctx, query)
	}

	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		payload, err := json.Marshal(record.Payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}

		_, err = stmt.ExecContext(ctx,
			record.Section,
			record.Label,
			payload,
			record.FetchedAt,
		)

		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}

	return nil
}

func (s *rowStore) GetSection(ctx context.Context, section string, startLabel, endLabel int) ([]store.SectionRow, error) {
	query := `
		SELECT section, label, payload, fetched_at
		FROM section_rows
		WHERE section = ? AND label >= ? AND label <= ?
		ORDER BY label DESC
	`
	rows, err := s.db.QueryContext(ctx, query, section, startLabel, endLabel)
	if err != nil {
		return nil, fmt.Errorf("query section rows: %w", err)
	}
	defer rows.Close()
	return scanSectionRows(rows)
}

// DeleteSection clears a section's rows in the given label range, so a re-run
// of the same week replaces the snapshot instead of duplicating it.
func (s *rowStore) DeleteSection(ctx context.Context, section string, startLabel, endLabel int) error {
	query := `DELETE FROM section_rows WHERE section = ? AND label >= ? AND label <= ?`

	tx := duckdb.GetTransaction(ctx)
	var err error
	if tx == nil {
		_, err = s.db.ExecContext(ctx, query, section, startLabel, endLabel)
	} else {
		_, err = tx.ExecContext(ctx, query, section, startLabel, endLabel)
	}
	if err != nil {
		return fmt.Errorf("delete section rows: %w", err)
	}
	return nil
}

func scanSectionRows(rows *sql.Rows) ([]store.SectionRow, error) {
	records := make([]store.SectionRow, 0)
	for rows.Next() {
		var (
			section    string
			label      int
			payloadRaw []byte
			fetchedAt  time.Time
		)
		if err := rows.Scan(&section, &label, &payloadRaw, &fetchedAt); err != nil {
			return nil, err
		}
		payload := map[string]any{}
		if len(payloadRaw) > 0 {
			_ = json.Unmarshal(payloadRaw, &payload)
		}
		records = append(records, store.SectionRow{
			Section:   section,
			Label:     label,
			Payload:   payload,
			FetchedAt: fetchedAt,
		})
	}
	return records, rows.Err()
}
