package daemon

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/StoreAdmin/StoreAdmin/internal/config"
	"github.com/StoreAdmin/StoreAdmin/internal/db/dsn"
	"github.com/StoreAdmin/StoreAdmin/internal/web/session"
)

const (
	sessionTable = "sessions"

	sessionGCInterval = 10 * time.Minute
)

// Dialector returns the gorm driver of the configured engine.
func Dialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return postgres.Open(dsn.Create(cfg))
	case config.EngineSQLite:
		return sqlite.Open(dsn.Create(cfg))
	default:
		return gormmysql.Open(dsn.Create(cfg))
	}
}

// OpenDB connects to the configured database.
// Driver errors are translated so duplicate keys surface as gorm.ErrDuplicatedKey.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.DevMode {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(Dialector(cfg), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return db, nil
}

// NewSessionStorage returns the session backend matching the database engine.
// With sqlite sessions live in process memory and do not survive a restart.
func NewSessionStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.URI(cfg),
			Table:         sessionTable,
			GCInterval:    sessionGCInterval,
		})
	case config.EngineSQLite:
		return session.NewMemoryStorage()
	default:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         sessionTable,
			GCInterval:    sessionGCInterval,
		})
	}
}
