package auth

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/StoreAdmin/StoreAdmin/internal/db/models"
)

// LocalProvider handles local database authentication and user role assignment.
type LocalProvider struct {
	db *gorm.DB
}

const whereID = "id = ?"

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate authenticates a user against the local database.
func (p *LocalProvider) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User

	err := p.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	return &user, nil
}

// CreateUser creates a new active local user without roles.
func (p *LocalProvider) CreateUser(ctx context.Context, username, email, password, fullName string) (*models.User, error) {
	var existingUser models.User

	err := p.db.WithContext(ctx).Where("username = ? OR email = ?", username, email).First(&existingUser).Error
	if err == nil {
		return nil, ErrUserNameOrEmailExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	user := models.User{
		Active:   true,
		Username: username,
		Email:    email,
		FullName: fullName,
		Password: models.HashPassword(password),
	}

	if err := p.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// GetUserByID retrieves a user with its roles.
func (p *LocalProvider) GetUserByID(ctx context.Context, userID uint64) (*models.User, error) {
	var user models.User

	err := p.db.WithContext(ctx).Preload("Roles").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrapf(ErrNotFound, "user %d", userID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return &user, nil
}

// AssignRoles replaces the role set of a user in one transaction.
// Every role id must exist; otherwise nothing changes. An empty set revokes all roles.
func (p *LocalProvider) AssignRoles(ctx context.Context, userID uint64, roleIDs []uint) (*models.User, error) {
	ids := uniqueIDs(roleIDs)

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where(whereID, userID).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrapf(ErrNotFound, "user %d", userID)
		}

		if err != nil {
			return fmt.Errorf("failed to lock user: %w", err)
		}

		if len(ids) > 0 {
			var count int64
			if err := tx.Model(&models.Role{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check roles: %w", err)
			}

			if count != int64(len(ids)) {
				return pkgerrors.Wrapf(ErrNotFound, "one or more roles of %v", ids)
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.UserRole{}).Error; err != nil {
			return fmt.Errorf("failed to clear user roles: %w", err)
		}

		for _, id := range ids {
			if err := tx.Create(&models.UserRole{UserID: userID, RoleID: id}).Error; err != nil {
				return fmt.Errorf("failed to assign role %d: %w", id, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return p.GetUserByID(ctx, userID)
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
