package auth

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/StoreAdmin/StoreAdmin/internal/db/models"
)

// Resolver computes the effective permission set of a principal.
type Resolver interface {
	EffectivePermissions(ctx context.Context, p *Principal) (*PermissionSet, error)
}

// Service provides principal resolution and authorization queries backed by the database.
// It never mutates role or permission state.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// LoadPrincipal builds the principal for an active user, including its current role keys.
func (s *Service) LoadPrincipal(ctx context.Context, userID uint64) (*Principal, error) {
	var user models.User

	err := s.db.WithContext(ctx).
		Preload("Roles", func(db *gorm.DB) *gorm.DB { return db.Order("roles.id") }).
		Where("id = ? AND active = ?", userID, true).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrapf(ErrUnauthenticated, "user %d is unknown or disabled", userID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load principal: %w", err)
	}

	p := &Principal{
		UserID:   user.ID,
		Username: user.Username,
		RoleKeys: make([]string, 0, len(user.Roles)),
	}
	for _, r := range user.Roles {
		p.RoleKeys = append(p.RoleKeys, r.Key)
	}

	return p, nil
}

// EffectivePermissions returns the union of the permissions of every role the principal holds.
// Role keys without a matching role contribute nothing; no roles yields an empty set.
func (s *Service) EffectivePermissions(ctx context.Context, p *Principal) (*PermissionSet, error) {
	set := NewPermissionSet()
	if p == nil || len(p.RoleKeys) == 0 {
		return set, nil
	}

	keys := make([]string, 0, len(p.RoleKeys))
	for _, k := range p.RoleKeys {
		keys = append(keys, NormalizeRoleKey(k))
	}

	var roles []models.Role

	err := s.db.WithContext(ctx).
		Preload("Permissions", func(db *gorm.DB) *gorm.DB { return db.Order("permissions.id") }).
		Where("role_key IN ?", keys).
		Find(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load role permissions: %w", err)
	}

	byKey := make(map[string]models.Role, len(roles))
	for _, r := range roles {
		byKey[r.Key] = r
	}

	// follow the principal's role order so Keys() is stable for display
	for _, k := range keys {
		for _, perm := range byKey[k].Permissions {
			set.Add(perm.Key)
		}
	}

	return set, nil
}

// HasPermission checks if a principal holds a specific permission.
func (s *Service) HasPermission(ctx context.Context, p *Principal, key string) (bool, error) {
	set, err := s.EffectivePermissions(ctx, p)
	if err != nil {
		return false, err
	}

	return set.Has(key), nil
}

// HasAnyPermission checks if a principal holds at least one of the given permissions.
func (s *Service) HasAnyPermission(ctx context.Context, p *Principal, keys []string) (bool, error) {
	if len(keys) == 0 {
		return false, nil
	}

	set, err := s.EffectivePermissions(ctx, p)
	if err != nil {
		return false, err
	}

	return set.HasAny(keys...), nil
}

// HasAllPermissions checks if a principal holds all of the given permissions.
func (s *Service) HasAllPermissions(ctx context.Context, p *Principal, keys []string) (bool, error) {
	if len(keys) == 0 {
		return true, nil
	}

	set, err := s.EffectivePermissions(ctx, p)
	if err != nil {
		return false, err
	}

	return set.HasAll(keys...), nil
}

// GetUserPermissions retrieves the effective permission keys of a user.
func (s *Service) GetUserPermissions(ctx context.Context, userID uint64) ([]string, error) {
	p, err := s.LoadPrincipal(ctx, userID)
	if err != nil {
		return nil, err
	}

	set, err := s.EffectivePermissions(ctx, p)
	if err != nil {
		return nil, err
	}

	return set.Keys(), nil
}
