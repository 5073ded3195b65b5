package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const SectionRowsSchema = `
	CREATE TABLE IF NOT EXISTS section_rows (
		section VARCHAR NOT NULL,
		label INTEGER NOT NULL,
		payload JSON NOT NULL,
		fetched_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

const ReportRunsSchema = `
	CREATE TABLE IF NOT EXISTS report_runs (
		report_date VARCHAR NOT NULL,
		week_sunday INTEGER NOT NULL,
		generated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		status VARCHAR NOT NULL
	);
`

var bootQueries = []string{
	SectionRowsSchema,
	ReportRunsSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		bootQueries := append([]string{}, bootQueries...)

		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
