package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	rbac "github.com/StoreAdmin/StoreAdmin/internal/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/web/session"
)

// PrincipalLoader loads the principal of an active user.
type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, userID uint64) (*rbac.Principal, error)
}

// Config of the middleware.
type Config struct {
	Sessions *session.Store
	Loader   PrincipalLoader
	Public   rbac.PublicMatcher
}

// New returns the middleware resolving the request principal from the session cookie.
func New(cfg Config) fiber.Handler {
	if cfg.Sessions == nil || cfg.Loader == nil {
		panic("auth middleware: sessions and loader are required")
	}

	return func(c *fiber.Ctx) error {
		if cfg.Public != nil && cfg.Public.IsPublic(c.Method(), c.Path()) {
			return c.Next()
		}

		sessionID := c.Cookies(session.CookieName)
		if sessionID == "" {
			return c.Next()
		}

		data, err := cfg.Sessions.Read(sessionID)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				log.Error().Err(err).Msg("failed to read session")
			}

			return c.Next()
		}

		principal, err := cfg.Loader.LoadPrincipal(c.UserContext(), data.UserID)
		if errors.Is(err, rbac.ErrUnauthenticated) {
			log.Debug().Uint64("user_id", data.UserID).Msg("session user is no longer active")
			return c.Next()
		}

		if err != nil {
			return err
		}

		rbac.WithPrincipal(c, principal)

		return c.Next()
	}
}

// UserID returns the id of the request principal for the access log.
func UserID(c *fiber.Ctx) (uint64, bool) {
	p := rbac.PrincipalFromContext(c)
	if p == nil {
		return 0, false
	}

	return p.UserID, true
}
