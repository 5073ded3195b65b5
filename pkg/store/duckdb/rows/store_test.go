package rows

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/de-tools/weekly-pulse/pkg/models/store"
	"github.com/de-tools/weekly-pulse/pkg/store/duckdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)

	s, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{db: db, store: s}
}

func sectionRow(section string, label int, visitors float64) store.SectionRow {
	return store.SectionRow{
		Section:   section,
		Label:     label,
		Payload:   map[string]any{"new_visitors": visitors, "channel": "organic"},
		FetchedAt: time.Date(2026, 2, 16, 8, 0, 0, 0, time.UTC),
	}
}

func TestRowStore_Add(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	t.Run("success - add records", func(t *testing.T) {
		records := []store.SectionRow{
			sectionRow("traffic", 20260215, 40000),
			sectionRow("traffic", 20260208, 20000),
		}

		err := f.store.Add(ctx, records)
		require.NoError(t, err)

		var count int
		err = f.db.QueryRow("SELECT COUNT(*) FROM section_rows WHERE section = ?", "traffic").Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("success - empty records", func(t *testing.T) {
		err := f.store.Add(ctx, nil)
		require.NoError(t, err)
	})
}

func TestRowStore_GetSection(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	records := []store.SectionRow{
		sectionRow("traffic", 20260215, 40000),
		sectionRow("traffic", 20260208, 20000),
		sectionRow("traffic", 20260101, 5000),
		sectionRow("revenue", 20260215, 0),
	}
	require.NoError(t, f.store.Add(ctx, records))

	t.Run("filters by section and label range", func(t *testing.T) {
		got, err := f.store.GetSection(ctx, "traffic", 20260201, 20260215)
		require.NoError(t, err)
		require.Len(t, got, 2)

		// Ordered newest first.
		assert.Equal(t, 20260215, got[0].Label)
		assert.Equal(t, 20260208, got[1].Label)
		assert.Equal(t, 40000.0, got[0].Payload["new_visitors"])
		assert.Equal(t, "organic", got[0].Payload["channel"])
	})

	t.Run("empty range yields no rows", func(t *testing.T) {
		got, err := f.store.GetSection(ctx, "traffic", 20250101, 20250131)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestRowStore_DeleteSection(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	records := []store.SectionRow{
		sectionRow("traffic", 20260215, 40000),
		sectionRow("traffic", 20260208, 20000),
		sectionRow("revenue", 20260215, 0),
	}
	require.NoError(t, f.store.Add(ctx, records))

	err := f.store.DeleteSection(ctx, "traffic", 20260208, 20260215)
	require.NoError(t, err)

	got, err := f.store.GetSection(ctx, "traffic", 0, 99999999)
	require.NoError(t, err)
	assert.Empty(t, got)

	// Other sections are untouched.
	got, err = f.store.GetSection(ctx, "revenue", 0, 99999999)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestNewStore_NilDB(t *testing.T) {
	_, err := NewStore(nil)
	assert.Error(t, err)
}
