// Package role provides the role registry: CRUD operations on roles and their permission sets.
package role

import (
	"errors"
	"fmt"
	"sort"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/db/controller/paging"
	"github.com/StoreAdmin/StoreAdmin/internal/db/models"
)

const (
	whereID      = "id = ?"
	whereRoleID  = "role_id = ?"
	whereRoleKey = "role_key = ?"

	// SortCreatedAt is the default sort of List.
	SortCreatedAt = "createdAt"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

var sorts = paging.Sorts{
	"name":        "name",
	"key":         "role_key",
	SortCreatedAt: "created_at",
}

func orderPermissions(db *gorm.DB) *gorm.DB {
	return db.Order("permissions.id")
}

func withPermissions(db *gorm.DB) *gorm.DB {
	return db.Preload("Permissions", orderPermissions)
}

// Get retrieves a role with its permissions.
func Get(db *gorm.DB, id uint) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var role models.Role

	err := db.Preload("Permissions", orderPermissions).First(&role, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrapf(auth.ErrNotFound, "role %d", id)
	}

	if err != nil {
		return nil, err
	}

	return &role, nil
}

// GetByKey retrieves a role by its key, ignoring case.
func GetByKey(db *gorm.DB, key string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var role models.Role

	err := db.Preload("Permissions", orderPermissions).
		Where(whereRoleKey, auth.NormalizeRoleKey(key)).
		First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrapf(auth.ErrNotFound, "role %q", key)
	}

	if err != nil {
		return nil, err
	}

	return &role, nil
}

// List returns one page of roles with their permissions.
// Sort accepts name, key and createdAt.
func List(db *gorm.DB, req paging.Request) (paging.Result[models.Role], error) {
	if db == nil {
		return paging.Result[models.Role]{}, ErrDBNil
	}

	return paging.Find[models.Role](db.Model(&models.Role{}), req, sorts, SortCreatedAt, withPermissions)
}

// Create creates a new role. Keys are unique ignoring case.
func Create(db *gorm.DB, key, name string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	key = auth.NormalizeRoleKey(key)
	if key == "" || name == "" {
		return nil, pkgerrors.Wrap(auth.ErrValidation, "role key and name are required")
	}

	if err := ensureKeyFree(db, key, 0); err != nil {
		return nil, err
	}

	role := &models.Role{Key: key, Name: name}
	if err := db.Create(role).Error; err != nil {
		return nil, translate(err, key)
	}

	role.Permissions = []models.Permission{}

	return role, nil
}

// Update changes key and name of a role. The key stays unique among the other roles
// and the key of a system role is fixed.
func Update(db *gorm.DB, id uint, key, name string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	key = auth.NormalizeRoleKey(key)
	if key == "" || name == "" {
		return nil, pkgerrors.Wrap(auth.ErrValidation, "role key and name are required")
	}

	role, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if role.IsSystem && role.Key != key {
		return nil, pkgerrors.Wrapf(auth.ErrConflict, "system role %s cannot be renamed", role.Key)
	}

	if err := ensureKeyFree(db, key, id); err != nil {
		return nil, err
	}

	err = db.Model(role).Updates(map[string]any{"role_key": key, "name": name}).Error
	if err != nil {
		return nil, translate(err, key)
	}

	return Get(db, id)
}

// Delete deletes a role and its permission associations.
// A role still held by a user, or a system role, cannot be deleted.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		role, err := lock(tx, id)
		if err != nil {
			return err
		}

		if role.IsSystem {
			return pkgerrors.Wrapf(auth.ErrConflict, "role %s is a system role", role.Key)
		}

		var holders int64
		if err := tx.Model(&models.UserRole{}).Where(whereRoleID, id).Count(&holders).Error; err != nil {
			return err
		}

		if holders > 0 {
			return pkgerrors.Wrapf(auth.ErrConflict, "role %s is assigned to %d user(s)", role.Key, holders)
		}

		if err := tx.Where(whereRoleID, id).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Role{}, id).Error
	})
}

// AssignPermissions replaces the permission set of a role atomically.
// The set must be non-empty and every id must exist, otherwise nothing changes.
func AssignPermissions(db *gorm.DB, id uint, permissionIDs []uint) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	ids := unique(permissionIDs)
	if len(ids) == 0 {
		return nil, pkgerrors.Wrap(auth.ErrValidation, "at least one permission id is required")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := lock(tx, id); err != nil {
			return err
		}

		if err := ensurePermissionsExist(tx, ids); err != nil {
			return err
		}

		if err := tx.Where(whereRoleID, id).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}

		rows := make([]models.RolePermission, 0, len(ids))
		for _, pid := range ids {
			rows = append(rows, models.RolePermission{RoleID: id, PermissionID: pid})
		}

		if err := tx.Create(&rows).Error; err != nil {
			return err
		}

		return touch(tx, id)
	})
	if err != nil {
		return nil, err
	}

	return Get(db, id)
}

// GrantPermissions adds permissions to a role, keeping the ones it already has.
func GrantPermissions(db *gorm.DB, id uint, permissionIDs []uint) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	ids := unique(permissionIDs)

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := lock(tx, id); err != nil {
			return err
		}

		if err := ensurePermissionsExist(tx, ids); err != nil {
			return err
		}

		for _, pid := range ids {
			row := models.RolePermission{RoleID: id, PermissionID: pid}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return err
			}
		}

		return touch(tx, id)
	})
	if err != nil {
		return nil, err
	}

	return Get(db, id)
}

// RemovePermission removes a single permission from a role.
func RemovePermission(db *gorm.DB, id, permissionID uint) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := lock(tx, id); err != nil {
			return err
		}

		result := tx.Where("role_id = ? AND permission_id = ?", id, permissionID).Delete(&models.RolePermission{})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return pkgerrors.Wrapf(auth.ErrNotFound, "permission %d is not assigned to role %d", permissionID, id)
		}

		return touch(tx, id)
	})
	if err != nil {
		return nil, err
	}

	return Get(db, id)
}

// EnsureSystemRole creates the role if missing, marks it as system role and grants the given keys.
// Permissions the role already holds are kept.
func EnsureSystemRole(db *gorm.DB, key, name string, permissionKeys []string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	key = auth.NormalizeRoleKey(key)

	var role models.Role

	err := db.Where(models.Role{Key: key}).
		Attrs(models.Role{Name: name}).
		Assign(models.Role{IsSystem: true}).
		FirstOrCreate(&role).Error
	if err != nil {
		return nil, fmt.Errorf("failed to ensure role %s: %w", key, err)
	}

	var ids []uint
	if err := db.Model(&models.Permission{}).Where("permission_key IN ?", permissionKeys).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	return GrantPermissions(db, role.ID, ids)
}

func lock(tx *gorm.DB, id uint) (*models.Role, error) {
	var role models.Role

	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where(whereID, id).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrapf(auth.ErrNotFound, "role %d", id)
	}

	if err != nil {
		return nil, err
	}

	return &role, nil
}

func touch(tx *gorm.DB, id uint) error {
	return tx.Model(&models.Role{}).Where(whereID, id).Update("updated_at", time.Now()).Error
}

func ensureKeyFree(db *gorm.DB, key string, exceptID uint) error {
	var count int64

	tx := db.Model(&models.Role{}).Where(whereRoleKey, key)
	if exceptID != 0 {
		tx = tx.Where("id <> ?", exceptID)
	}

	if err := tx.Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return pkgerrors.Wrapf(auth.ErrConflict, "role key %q already exists", key)
	}

	return nil
}

func ensurePermissionsExist(tx *gorm.DB, ids []uint) error {
	var found []uint
	if err := tx.Model(&models.Permission{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return err
	}

	if len(found) == len(ids) {
		return nil
	}

	have := make(map[uint]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}

	var missing []uint

	for _, id := range ids {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}

	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })

	return pkgerrors.Wrapf(auth.ErrNotFound, "permissions %v", missing)
}

func translate(err error, key string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkgerrors.Wrapf(auth.ErrConflict, "role key %q already exists", key)
	}

	return err
}

func unique(ids []uint) []uint {
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
