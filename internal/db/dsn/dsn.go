// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"

	"github.com/StoreAdmin/StoreAdmin/internal/config"
)

// Create builds the Data Source Name for the configured gorm engine.
// For sqlite the DSN is the database file name.
func Create(dbCfg *config.Config) string {
	switch dbCfg.DB.GormEngine {
	case config.EnginePostgres:
		out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
			dbCfg.DB.Host,
			dbCfg.DB.Port,
			dbCfg.DB.User,
			dbCfg.DB.Password,
			dbCfg.DB.Name,
		)
		if dbCfg.DB.Extras != "" {
			out += " " + dbCfg.DB.Extras
		}

		return out
	case config.EngineSQLite:
		return dbCfg.DB.Name
	default:
		out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			dbCfg.DB.User,
			dbCfg.DB.Password,
			dbCfg.DB.Host,
			dbCfg.DB.Port,
			dbCfg.DB.Name,
			dbCfg.DB.Extras,
		)

		return out
	}
}

// URI builds a URL style connection string as expected by the session storage drivers.
func URI(dbCfg *config.Config) string {
	switch dbCfg.DB.GormEngine {
	case config.EnginePostgres:
		out := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
			dbCfg.DB.User,
			dbCfg.DB.Password,
			dbCfg.DB.Host,
			dbCfg.DB.Port,
			dbCfg.DB.Name,
		)
		if dbCfg.DB.Extras != "" {
			out += "?" + dbCfg.DB.Extras
		}

		return out
	default:
		return Create(dbCfg)
	}
}
