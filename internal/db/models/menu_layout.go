package models

import (
	"strconv"
	"time"
)

// MenuLayout stores a navigation layout override.
// A nil UserID marks the global default for LayoutKey; otherwise the row belongs to one user.
// At most one row exists per (LayoutKey, UserID).
type MenuLayout struct {
	ID        uint    `gorm:"primaryKey"`
	LayoutKey string  `gorm:"size:100;not null;index:idx_menu_layout_scope"`
	UserID    *uint64 `gorm:"index:idx_menu_layout_scope"`
	// ScopeKey is unique per (LayoutKey, UserID), see LayoutScopeKey.
	ScopeKey string `gorm:"size:150;uniqueIndex;not null"`
	// StructureJSON is the serialized ordered list of node overrides.
	StructureJSON   string `gorm:"type:text;not null"`
	UpdatedByUserID *uint64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// LayoutScopeKey returns the ScopeKey of the layout row for (layoutKey, userID).
func LayoutScopeKey(layoutKey string, userID *uint64) string {
	if userID == nil {
		return layoutKey + ":global"
	}

	return layoutKey + ":user:" + strconv.FormatUint(*userID, 10)
}

// TableName specifies the database table name for the MenuLayout model.
func (MenuLayout) TableName() string {
	return "menu_layouts"
}
