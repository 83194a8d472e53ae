// Package activity persists and lists the administrative activity log.
package activity

import (
	"errors"

	"gorm.io/gorm"

	"github.com/StoreAdmin/StoreAdmin/internal/db/controller/paging"
	"github.com/StoreAdmin/StoreAdmin/internal/db/models"
)

// Status values of an activity entry.
const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
)

// Modules recording activity.
const (
	ModuleRoles       = "ROLES"
	ModulePermissions = "PERMISSIONS"
	ModuleUsers       = "USERS"
	ModuleNavigation  = "NAVIGATION"
	ModuleSetup       = "SETUP"
	ModuleAuth        = "AUTH"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

var sorts = paging.Sorts{
	"createdAt": "created_at",
	"module":    "module",
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Module string
	UserID *uint64
}

// Record stores an activity entry.
func Record(db *gorm.DB, entry *models.ActivityLog) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Create(entry).Error
}

// List returns one page of entries, newest first unless requested otherwise.
func List(db *gorm.DB, filter Filter, req paging.Request) (paging.Result[models.ActivityLog], error) {
	if db == nil {
		return paging.Result[models.ActivityLog]{}, ErrDBNil
	}

	tx := db.Model(&models.ActivityLog{})

	if filter.Module != "" {
		tx = tx.Where("module = ?", filter.Module)
	}

	if filter.UserID != nil {
		tx = tx.Where("user_id = ?", *filter.UserID)
	}

	if req.Direction == "" {
		req.Direction = paging.DirectionDesc
	}

	return paging.Find[models.ActivityLog](tx, req, sorts, "createdAt")
}
