// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/StoreAdmin/StoreAdmin/internal/db/models"
)

// Open creates an in-memory SQLite database with the full schema.
// Each call returns an isolated database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	// every pooled connection would get its own in-memory database
	return open(t, ":memory:", 1)
}

// OpenPooled creates a file backed SQLite database in WAL mode served by conns connections,
// so readers run beside an open write transaction and only see committed data.
func OpenPooled(t *testing.T, conns int) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	return open(t, dsn, conns)
}

func open(t *testing.T, dsn string, conns int) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)

	sqlDB.SetMaxOpenConns(conns)

	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate test database")

	return db
}
