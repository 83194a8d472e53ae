// Package daemon assembles the service: database, schema, seed data, session storage
// and the web service.
package daemon

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/StoreAdmin/StoreAdmin/internal/config"
	"github.com/StoreAdmin/StoreAdmin/internal/db/models"
	"github.com/StoreAdmin/StoreAdmin/internal/web"
	"github.com/StoreAdmin/StoreAdmin/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
	storage    fiber.Storage
}

// Start serves HTTP until a termination signal shut the server down.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	err := d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))

	if closeErr := d.storage.Close(); closeErr != nil {
		log.Error().Err(closeErr).Msg("failed to close session storage")
	}

	return err
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil, nil
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	if err = db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err = Seed(context.Background(), cfg, db); err != nil {
		return nil, err
	}

	storage := NewSessionStorage(cfg)

	webService, err := web.New(cfg, db, session.New(storage, cfg.Webserver.Session.ExpiryTime))
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	log.Info().Str("engine", cfg.DB.GormEngine).Int("port", cfg.Webserver.Port).Msg("daemon initialized")

	return &Daemon{
		cfg:        cfg,
		webService: webService,
		storage:    storage,
	}, nil
}
