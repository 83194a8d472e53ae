// Package menulayout stores navigation layout overrides per layout key,
// either for a single user or as the global default.
package menulayout

import (
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/db/models"
)

const scopeQueryPattern = "scope_key = ?"

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Get retrieves the layout stored for exactly this scope. A nil userID selects the global row.
func Get(db *gorm.DB, layoutKey string, userID *uint64) (*models.MenuLayout, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var layout models.MenuLayout

	err := db.Where(scopeQueryPattern, models.LayoutScopeKey(layoutKey, userID)).First(&layout).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrapf(auth.ErrNotFound, "menu layout %s", models.LayoutScopeKey(layoutKey, userID))
	}

	if err != nil {
		return nil, err
	}

	return &layout, nil
}

// Resolve returns the user's layout, else the global layout, else nil.
// Once a user row exists the global row is not consulted.
func Resolve(db *gorm.DB, layoutKey string, userID uint64) (*models.MenuLayout, error) {
	for _, scope := range []*uint64{&userID, nil} {
		layout, err := Get(db, layoutKey, scope)
		if err == nil {
			return layout, nil
		}

		if !errors.Is(err, auth.ErrNotFound) {
			return nil, err
		}
	}

	return nil, nil //nolint:nilnil // no override stored
}

// Upsert stores the structure for the scope, replacing any previous row.
func Upsert(db *gorm.DB, layoutKey string, userID *uint64, structureJSON string, updatedBy *uint64) (*models.MenuLayout, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if layoutKey == "" {
		return nil, pkgerrors.Wrap(auth.ErrValidation, "layout key is required")
	}

	now := time.Now()
	layout := models.MenuLayout{
		LayoutKey:       layoutKey,
		UserID:          userID,
		ScopeKey:        models.LayoutScopeKey(layoutKey, userID),
		StructureJSON:   structureJSON,
		UpdatedByUserID: updatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"structure_json", "updated_by_user_id", "updated_at"}),
	}).Create(&layout).Error
	if err != nil {
		return nil, err
	}

	return Get(db, layoutKey, userID)
}

// Delete removes the layout of the scope.
func Delete(db *gorm.DB, layoutKey string, userID *uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Where(scopeQueryPattern, models.LayoutScopeKey(layoutKey, userID)).Delete(&models.MenuLayout{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return pkgerrors.Wrapf(auth.ErrNotFound, "menu layout %s", models.LayoutScopeKey(layoutKey, userID))
	}

	return nil
}
