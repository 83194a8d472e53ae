package models

import "time"

// Role is a named bundle of permissions assignable to users.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey"`
	// Key is the unique role identifier (compared case-insensitively), e.g. "EDITOR".
	Key string `gorm:"column:role_key;uniqueIndex;size:100;not null"`
	// Name is the display name of the role.
	Name string `gorm:"size:150;not null"`
	// IsSystem marks roles created by the bootstrap seed.
	IsSystem bool `gorm:"default:false"`
	// Permissions owned by this role. Removing the role removes the association rows only.
	Permissions []Permission `gorm:"many2many:role_permissions;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}
