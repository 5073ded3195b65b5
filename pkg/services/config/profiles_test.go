package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProfiles = `
[prod]
type = databricks
host = adb-123.azuredatabricks.net
token = dapi-secret
http_path = /sql/1.0/warehouses/abc

[analytics]
type = snowflake
account = xy12345
user = reporter
password = hunter2
database = MART
warehouse = REPORTING
role = READER

[legacy]
host = adb-456.azuredatabricks.net
token = dapi-legacy
`

func TestRegistry(t *testing.T) {
	path := writeFile(t, "profiles.ini", testProfiles)
	registry, err := NewRegistry(path)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("lists every non-empty section", func(t *testing.T) {
		profiles, err := registry.GetProfiles(ctx)
		require.NoError(t, err)
		require.Len(t, profiles, 3)

		names := make([]string, 0, len(profiles))
		for _, p := range profiles {
			names = append(names, p.Name)
		}
		assert.Contains(t, names, "prod")
		assert.Contains(t, names, "analytics")
		assert.Contains(t, names, "legacy")
	})

	t.Run("databricks profile", func(t *testing.T) {
		p, err := registry.GetProfile(ctx, "prod")
		require.NoError(t, err)

		assert.Equal(t, WarehouseDatabricks, p.Type)
		assert.Equal(t, "adb-123.azuredatabricks.net", p.Host)
		assert.Equal(t, "dapi-secret", p.Token)
		assert.Equal(t, "/sql/1.0/warehouses/abc", p.HTTPPath)
	})

	t.Run("snowflake profile", func(t *testing.T) {
		p, err := registry.GetProfile(ctx, "analytics")
		require.NoError(t, err)

		assert.Equal(t, WarehouseSnowflake, p.Type)
		assert.Equal(t, "xy12345", p.Account)
		assert.Equal(t, "REPORTING", p.Warehouse)
	})

	t.Run("legacy profile infers databricks from host and token", func(t *testing.T) {
		p, err := registry.GetProfile(ctx, "legacy")
		require.NoError(t, err)
		assert.Equal(t, WarehouseDatabricks, p.Type)
	})

	t.Run("unknown profile", func(t *testing.T) {
		_, err := registry.GetProfile(ctx, "nope")
		assert.Error(t, err)
	})
}

func TestNewRegistry_MissingFile(t *testing.T) {
	_, err := NewRegistry("/nonexistent/profiles.ini")
	assert.Error(t, err)
}
