package config

import (
	"time"

	"github.com/StoreAdmin/StoreAdmin/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode    bool // enable dev mode for development
	DB         DB
	Log        logger.Log
	Title      string
	Webserver  Webserver
	Navigation Navigation
	Bootstrap  Bootstrap
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// Navigation settings.
type Navigation struct {
	LayoutKey string // layout key used when a request does not name one
}

// Bootstrap holds the initial administrator created on an empty database.
type Bootstrap struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string // generated and logged once if empty
}
