package daemon

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/config"
	"github.com/StoreAdmin/StoreAdmin/internal/db/controller/permission"
	"github.com/StoreAdmin/StoreAdmin/internal/db/controller/role"
	"github.com/StoreAdmin/StoreAdmin/internal/db/models"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminEmail    = "admin@localhost"
)

// Seed makes sure the permission catalog and the system roles exist and, on an empty
// user table, creates the initial administrator. It is safe to run on every start.
func Seed(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if err := permission.SeedCatalog(db, auth.Catalog); err != nil {
		return err
	}

	admin, err := role.EnsureSystemRole(db, auth.RoleAdmin, "Administrator", auth.CatalogKeys())
	if err != nil {
		return err
	}

	if _, err = role.EnsureSystemRole(db, auth.RoleCustomer, "Customer", auth.CustomerDefaults); err != nil {
		return err
	}

	return bootstrapAdmin(ctx, cfg, db, admin.ID)
}

func bootstrapAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB, adminRoleID uint) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	username := cfg.Bootstrap.AdminUsername
	if username == "" {
		username = defaultAdminUsername
	}

	email := cfg.Bootstrap.AdminEmail
	if email == "" {
		email = defaultAdminEmail
	}

	password := cfg.Bootstrap.AdminPassword
	generated := password == ""

	if generated {
		password = uuid.NewString()
	}

	provider := auth.NewLocalProvider(db)

	user, err := provider.CreateUser(ctx, username, email, password, "Administrator")
	if err != nil {
		return fmt.Errorf("failed to create initial administrator: %w", err)
	}

	if _, err = provider.AssignRoles(ctx, user.ID, []uint{adminRoleID}); err != nil {
		return err
	}

	if generated {
		// printed once; it is not stored anywhere in clear text
		log.Warn().Str("username", username).Str("password", password).
			Msg("created initial administrator with a generated password")
	} else {
		log.Info().Str("username", username).Msg("created initial administrator")
	}

	return nil
}
