// Package models contains the gorm models persisted by the application.
package models

// All returns every model in migration order.
func All() []any {
	return []any{
		&Permission{},
		&Role{},
		&RolePermission{},
		&User{},
		&UserRole{},
		&MenuLayout{},
		&ActivityLog{},
	}
}
