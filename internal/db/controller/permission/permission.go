// Package permission provides operations on the permission catalog table.
// Keys are immutable once created; only the display name can change.
package permission

import (
	"errors"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/db/controller/paging"
	"github.com/StoreAdmin/StoreAdmin/internal/db/models"
)

const (
	keyQueryPattern    = "permission_key = ?"
	prefixQueryPattern = "SUBSTR(permission_key, 1, ?) = ?"

	// SortKey is the default sort of List.
	SortKey = "key"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

var sorts = paging.Sorts{
	SortKey:     "permission_key",
	"name":      "name",
	"createdAt": "created_at",
}

// Filter narrows List results.
type Filter struct {
	// Prefix keeps only keys starting with it. A reserved prefix is honored as given.
	Prefix string
	// IncludeReserved keeps keys under auth.ReservedPrefix when no Prefix is set.
	IncludeReserved bool
}

// Get retrieves a permission by its ID.
func Get(db *gorm.DB, id uint) (*models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var perm models.Permission

	err := db.First(&perm, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrapf(auth.ErrNotFound, "permission %d", id)
	}

	if err != nil {
		return nil, err
	}

	return &perm, nil
}

// List returns one page of permissions. Sort accepts key, name and createdAt.
func List(db *gorm.DB, filter Filter, req paging.Request) (paging.Result[models.Permission], error) {
	if db == nil {
		return paging.Result[models.Permission]{}, ErrDBNil
	}

	tx := db.Model(&models.Permission{})

	switch prefix := strings.ToUpper(strings.TrimSpace(filter.Prefix)); {
	case prefix != "":
		tx = tx.Where(prefixQueryPattern, len(prefix), prefix)
	case !filter.IncludeReserved:
		tx = tx.Where("NOT ("+prefixQueryPattern+")", len(auth.ReservedPrefix), auth.ReservedPrefix)
	}

	return paging.Find[models.Permission](tx, req, sorts, SortKey)
}

// Keys returns every stored permission key.
func Keys(db *gorm.DB) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var keys []string
	if err := db.Model(&models.Permission{}).Order("id").Pluck("permission_key", &keys).Error; err != nil {
		return nil, err
	}

	return keys, nil
}

// Create adds a permission. The key must be unique.
func Create(db *gorm.DB, key, name string) (*models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	key = strings.ToUpper(strings.TrimSpace(key))
	if key == "" || name == "" {
		return nil, pkgerrors.Wrap(auth.ErrValidation, "permission key and name are required")
	}

	var existing models.Permission

	err := db.Where(keyQueryPattern, key).First(&existing).Error
	if err == nil {
		return nil, pkgerrors.Wrapf(auth.ErrConflict, "permission key %q already exists", key)
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	perm := &models.Permission{Key: key, Name: name}
	if err := db.Create(perm).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.Wrapf(auth.ErrConflict, "permission key %q already exists", key)
		}

		return nil, err
	}

	return perm, nil
}

// Rename changes the display name of a permission.
func Rename(db *gorm.DB, id uint, name string) (*models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, pkgerrors.Wrap(auth.ErrValidation, "permission name is required")
	}

	perm, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	perm.Name = name
	if err := db.Save(perm).Error; err != nil {
		return nil, err
	}

	return perm, nil
}

// Delete removes a permission that no role references.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var perm models.Permission

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&perm, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrapf(auth.ErrNotFound, "permission %d", id)
		}

		if err != nil {
			return err
		}

		var refs int64
		if err := tx.Model(&models.RolePermission{}).Where("permission_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}

		if refs > 0 {
			return pkgerrors.Wrapf(auth.ErrConflict, "permission %s is used by %d role(s)", perm.Key, refs)
		}

		return tx.Delete(&perm).Error
	})
}

// SeedCatalog inserts catalog entries missing from the table. Existing names are kept.
func SeedCatalog(db *gorm.DB, catalog []auth.CatalogEntry) error {
	if db == nil {
		return ErrDBNil
	}

	for _, e := range catalog {
		perm := models.Permission{Key: e.Key, Name: e.Name}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "permission_key"}},
			DoNothing: true,
		}).Create(&perm).Error; err != nil {
			return pkgerrors.Wrapf(err, "seed permission %s", e.Key)
		}
	}

	return nil
}
