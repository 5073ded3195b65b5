package warehouse

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/databricks/databricks-sql-go"
	"github.com/de-tools/weekly-pulse/pkg/services/config"
	sf "github.com/snowflakedb/gosnowflake"
)

// Connect opens a warehouse connection for the given profile.
func Connect(profile *config.Profile) (*sql.DB, error) {
	switch profile.Type {
	case config.WarehouseDatabricks:
		return connectDatabricks(profile)
	case config.WarehouseSnowflake:
		return connectSnowflake(profile)
	default:
		return nil, fmt.Errorf("profile %s has unsupported warehouse type %q", profile.Name, profile.Type)
	}
}

func connectDatabricks(profile *config.Profile) (*sql.DB, error) {
	if profile.Host == "" || profile.Token == "" || profile.HTTPPath == "" {
		return nil, fmt.Errorf("databricks profile %s requires host, token and http_path", profile.Name)
	}

	dsn := fmt.Sprintf("token:%s@%s:443%s", profile.Token, profile.Host, profile.HTTPPath)
	if profile.Database != "" {
		params := url.Values{}
		params.Set("catalog", profile.Database)
		dsn = dsn + "?" + params.Encode()
	}

	db, err := sql.Open("databricks", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Databricks: %w", err)
	}
	return db, nil
}

func connectSnowflake(profile *config.Profile) (*sql.DB, error) {
	dsn, err := sf.DSN(&sf.Config{
		Account:   profile.Account,
		User:      profile.User,
		Password:  profile.Password,
		Database:  profile.Database,
		Warehouse: profile.Warehouse,
		Role:      profile.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DSN: %w", err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Snowflake: %w", err)
	}
	return db, nil
}
