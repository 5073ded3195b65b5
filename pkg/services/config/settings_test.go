package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/weekly-pulse/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("empty path yields defaults", func(t *testing.T) {
		settings, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "localhost", settings.Server.Host)
		assert.Equal(t, "8080", settings.Server.Port)
		assert.Equal(t, 10*time.Second, settings.Server.ShutdownTimeout)
		assert.Equal(t, "weekly-pulse.db", settings.Snapshot.DbPath)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := writeFile(t, "settings.yaml", `
server:
  host: 0.0.0.0
  port: "9090"
snapshot:
  db_path: /var/lib/pulse.db
profile: prod
`)
		settings, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0", settings.Server.Host)
		assert.Equal(t, "9090", settings.Server.Port)
		assert.Equal(t, "/var/lib/pulse.db", settings.Snapshot.DbPath)
		assert.Equal(t, "prod", settings.Profile)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := Load("/nonexistent/settings.yaml")
		assert.Error(t, err)
	})
}

func TestSettings_Schema(t *testing.T) {
	t.Run("no mappings yields the default vocabulary", func(t *testing.T) {
		settings, err := Load("")
		require.NoError(t, err)

		schema, err := settings.Schema()
		require.NoError(t, err)
		assert.Equal(t, "date", schema.PeriodField(domain.SectionTraffic))
		assert.Equal(t, "week", schema.PeriodField(domain.SectionEngagement))
	})

	t.Run("mappings overlay the defaults", func(t *testing.T) {
		path := writeFile(t, "settings.yaml", `
mappings:
  traffic:
    period: stat_date
    fields:
      new_visitors: uv
  engagement:
    new_user_value: fresh
`)
		settings, err := Load(path)
		require.NoError(t, err)

		schema, err := settings.Schema()
		require.NoError(t, err)

		traffic := schema.Mapping(domain.SectionTraffic)
		assert.Equal(t, "stat_date", traffic.Period)
		assert.Equal(t, "channel", traffic.Dimension)
		assert.Equal(t, "uv", traffic.Column("new_visitors"))

		engagement := schema.Mapping(domain.SectionEngagement)
		assert.Equal(t, "fresh", engagement.NewUserValue)
		assert.Equal(t, "returning", engagement.ReturningUserValue)
	})

	t.Run("unknown section is rejected", func(t *testing.T) {
		path := writeFile(t, "settings.yaml", `
mappings:
  bogus:
    period: x
`)
		settings, err := Load(path)
		require.NoError(t, err)

		_, err = settings.Schema()
		assert.Error(t, err)
	})
}

func TestSettings_AnomalyThresholds(t *testing.T) {
	t.Run("absent block means nil overrides", func(t *testing.T) {
		settings, err := Load("")
		require.NoError(t, err)

		overrides, err := settings.AnomalyThresholds()
		require.NoError(t, err)
		assert.Nil(t, overrides)
	})

	t.Run("configured thresholds convert", func(t *testing.T) {
		path := writeFile(t, "settings.yaml", `
thresholds:
  traffic:
    - field: new_visitors
      pct: 25
`)
		settings, err := Load(path)
		require.NoError(t, err)

		overrides, err := settings.AnomalyThresholds()
		require.NoError(t, err)
		require.Contains(t, overrides, domain.SectionTraffic)
		assert.Equal(t, "new_visitors", overrides[domain.SectionTraffic][0].Field)
		assert.Equal(t, 25.0, overrides[domain.SectionTraffic][0].Pct)
	})
}
