package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/de-tools/weekly-pulse/pkg/models/domain"
	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
)

// Store fetches one section's rolling weekly history from the warehouse.
type Store interface {
	FetchSection(ctx context.Context, section domain.SectionID, params domain.WeekParams) ([]domain.Row, error)
	Close() error
}

type sqlStore struct {
	db      *sql.DB
	queries map[domain.SectionID]string
}

func NewStore(db *sql.DB) (Store, error) {
	return NewStoreWithQueries(db, DefaultQueries())
}

// NewStoreWithQueries runs deployment-specific SQL instead of the defaults.
// Missing sections fall back to the default query.
func NewStoreWithQueries(db *sql.DB, queries map[domain.SectionID]string) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	merged := DefaultQueries()
	for section, q := range queries {
		merged[section] = q
	}
	return &sqlStore{db: db, queries: merged}, nil
}

func (s *sqlStore) FetchSection(ctx context.Context, section domain.SectionID, params domain.WeekParams) ([]domain.Row, error) {
	logger := zerolog.Ctx(ctx)

	template, ok := s.queries[section]
	if !ok {
		return nil, domain.ErrUnknownSection(section)
	}

	query, args, err := bindTemplate(template, params)
	if err != nil {
		return nil, fmt.Errorf("bind %s query: %w", section, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s query failed: %w", section, err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Str("section", string(section)).Msg("failed to close query rows")
		}
	}(rows)

	records, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("scan %s rows: %w", section, err)
	}

	logger.Debug().
		Str("section", string(section)).
		Int("rows", len(records)).
		Msg("section fetched")

	return records, nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

// scanRows reads every row into a column -> value map, so queries are free to
// return whatever columns their deployment's mapping names.
func scanRows(rows *sql.Rows) ([]domain.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	records := make([]domain.Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		row := make(domain.Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		records = append(records, row)
	}
	return records, rows.Err()
}

// bindTemplate replaces {name} tokens with positional placeholders and
// collects the bind arguments in token order. Unknown tokens fail loudly
// rather than shipping a malformed query to the warehouse.
func bindTemplate(template string, params domain.WeekParams) (string, []any, error) {
	tokens := map[string]any{
		"partition_start":  params.PartitionStart.String(),
		"partition_end":    params.PartitionEnd.String(),
		"history_start":    params.HistoryStart.String(),
		"snapshot_date":    params.SnapshotDate.String(),
		"week_monday":      params.WeekMonday.String(),
		"week_saturday":    params.WeekSaturday.String(),
		"week_sunday":      params.WeekSunday.String(),
		"last_week_monday": params.LastWeekMonday.String(),
		"last_week_sunday": params.LastWeekSunday.String(),
		"report_date":      params.ReportDate,
	}

	var sb strings.Builder
	var args []any

	rest := template
	for {
		open := strings.Index(rest, "{")
		if open < 0 {
			sb.WriteString(rest)
			break
		}
		closing := strings.Index(rest[open:], "}")
		if closing < 0 {
			return "", nil, fmt.Errorf("unterminated token near %q", rest[open:])
		}

		name := rest[open+1 : open+closing]
		value, ok := tokens[name]
		if !ok {
			known := maps.Keys(tokens)
			sort.Strings(known)
			return "", nil, fmt.Errorf("unknown token {%s}, supported tokens: %s", name, strings.Join(known, ", "))
		}

		sb.WriteString(rest[:open])
		sb.WriteString("?")
		args = append(args, value)
		rest = rest[open+closing+1:]
	}

	return sb.String(), args, nil
}
