package models

import "time"

// Permission represents a single grantable capability in the authorization system.
// Permissions are seeded from the code catalog and bundled into roles.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey" json:"id"`
	// Key is the stable permission identifier, e.g. "USER_VIEW_GLOBAL".
	Key string `gorm:"column:permission_key;uniqueIndex;size:100;not null" json:"key"`
	// Name is the human-readable name. It is the only field that may change at runtime.
	Name string `gorm:"size:150;not null" json:"name"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the permission was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}
