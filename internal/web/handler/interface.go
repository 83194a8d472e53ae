// Package handler holds what the JSON API handlers share: their dependencies,
// request decoding and activity recording.
package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/auth/publicendpoint"
	"github.com/StoreAdmin/StoreAdmin/internal/config"
	"github.com/StoreAdmin/StoreAdmin/internal/web/navigation"
	"github.com/StoreAdmin/StoreAdmin/internal/web/session"
)

// Deps are the dependencies handed to every handler service.
type Deps struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Gate     *auth.Gate
	Auth     *auth.Service
	Sessions *session.Store
	Registry *publicendpoint.Registry
	Composer *navigation.Composer
}

// Valid reports whether the dependencies every handler relies on are set.
func (d *Deps) Valid() bool {
	return d != nil && d.Cfg != nil && d.DB != nil && d.Gate != nil && d.Auth != nil
}

// Service is the interface for a web handler service.
type Service interface {
	Init(router fiber.Router, deps *Deps) error
}
