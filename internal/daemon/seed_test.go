package daemon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/config"
	"github.com/StoreAdmin/StoreAdmin/internal/db/dbtest"
	"github.com/StoreAdmin/StoreAdmin/internal/db/models"
	"github.com/StoreAdmin/StoreAdmin/internal/web/session"
)

func TestSeedIsIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	cfg := &config.Config{Bootstrap: config.Bootstrap{
		AdminUsername: "root",
		AdminEmail:    "root@example.com",
		AdminPassword: "s3cr3t",
	}}

	require.NoError(t, Seed(ctx, cfg, db))
	require.NoError(t, Seed(ctx, cfg, db))

	var perms, users int64
	require.NoError(t, db.Model(&models.Permission{}).Count(&perms).Error)
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(len(auth.Catalog)), perms)
	assert.Equal(t, int64(1), users)

	user, err := auth.NewLocalProvider(db).Authenticate(ctx, "root", "s3cr3t")
	require.NoError(t, err)

	keys, err := auth.NewService(db).GetUserPermissions(ctx, user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, auth.CatalogKeys(), keys)

	var customer models.Role
	require.NoError(t, db.Preload("Permissions").Where("role_key = ?", auth.RoleCustomer).First(&customer).Error)
	assert.True(t, customer.IsSystem)
	assert.Len(t, customer.Permissions, len(auth.CustomerDefaults))
}

func TestSeedGeneratesAdminPassword(t *testing.T) {
	db := dbtest.Open(t)

	require.NoError(t, Seed(context.Background(), &config.Config{}, db))

	var admin models.User
	require.NoError(t, db.Where("username = ?", defaultAdminUsername).First(&admin).Error)
	assert.Equal(t, defaultAdminEmail, admin.Email)
	assert.NotEmpty(t, admin.Password)
	assert.False(t, admin.VerifyPassword(""))
}

func TestNewSessionStorageForSQLite(t *testing.T) {
	cfg := &config.Config{DB: config.DB{GormEngine: config.EngineSQLite}}

	_, ok := NewSessionStorage(cfg).(*session.MemoryStorage)
	assert.True(t, ok)
}

func TestDialectorFollowsEngine(t *testing.T) {
	for engine, name := range map[string]string{
		config.EngineMySQL:    "mysql",
		config.EnginePostgres: "postgres",
		config.EngineSQLite:   "sqlite",
	} {
		cfg := &config.Config{DB: config.DB{GormEngine: engine, Name: "test.db"}}
		assert.Equal(t, name, Dialector(cfg).Name(), engine)
	}
}
