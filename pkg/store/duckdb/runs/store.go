package runs

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/weekly-pulse/pkg/models/store"
	"github.com/de-tools/weekly-pulse/pkg/store/duckdb"
)

// Store is the report run log: one record per generation attempt, so
// operators can see when a week was last produced and whether it succeeded.
type Store interface {
	Add(ctx context.Context, run store.ReportRun) error
	List(ctx context.Context, limit int) ([]store.ReportRun, error)
}

type runStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &runStore{db: db}, nil
}

func (s *runStore) Add(ctx context.Context, run store.ReportRun) error {
	query := `
		INSERT INTO report_runs (report_date, week_sunday, generated_at, status)
		VALUES (?, ?, ?, ?)`

	tx := duckdb.GetTransaction(ctx)
	var err error
	if tx == nil {
		_, err = s.db.ExecContext(ctx, query, run.ReportDate, run.WeekSunday, run.GeneratedAt, run.Status)
	} else {
		_, err = tx.ExecContext(ctx, query, run.ReportDate, run.WeekSunday, run.GeneratedAt, run.Status)
	}
	if err != nil {
		return fmt.Errorf("insert report run: %w", err)
	}
	return nil
}

func (s *runStore) List(ctx context.Context, limit int) ([]store.ReportRun, error) {
	query := `
		SELECT report_date, week_sunday, generated_at, status
		FROM report_runs
		ORDER BY generated_at DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query report runs: %w", err)
	}
	defer rows.Close()

	records := make([]store.ReportRun, 0)
	for rows.Next() {
		var run store.ReportRun
		if err := rows.Scan(&run.ReportDate, &run.WeekSunday, &run.GeneratedAt, &run.Status); err != nil {
			return nil, err
		}
		records = append(records, run)
	}
	return records, rows.Err()
}
