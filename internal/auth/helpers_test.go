package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/StoreAdmin/StoreAdmin/internal/db/models"
)

// seedRole creates a role owning the given permission keys, creating missing permissions.
func seedRole(t *testing.T, db *gorm.DB, key string, permissionKeys ...string) models.Role {
	t.Helper()

	role := models.Role{Key: NormalizeRoleKey(key), Name: key}

	for _, k := range permissionKeys {
		var perm models.Permission
		require.NoError(t, db.Where(models.Permission{Key: k}).Attrs(models.Permission{Name: k}).FirstOrCreate(&perm).Error)
		role.Permissions = append(role.Permissions, perm)
	}

	require.NoError(t, db.Create(&role).Error, "failed to seed role")

	return role
}

// seedUser creates a user holding the given roles.
func seedUser(t *testing.T, db *gorm.DB, username string, active bool, roles ...models.Role) models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: models.HashPassword("secret-" + username),
		Active:   active,
	}
	require.NoError(t, db.Create(&user).Error, "failed to seed user")

	for _, r := range roles {
		require.NoError(t, db.Create(&models.UserRole{UserID: user.ID, RoleID: r.ID}).Error)
	}

	return user
}
