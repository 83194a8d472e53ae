// Package login provides the session login and logout endpoints of the admin and client APIs.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/db/controller/activity"
	"github.com/StoreAdmin/StoreAdmin/internal/db/models"
	"github.com/StoreAdmin/StoreAdmin/internal/web/handler"
	"github.com/StoreAdmin/StoreAdmin/internal/web/session"
)

const (
	// AdminPath is the authentication group of the admin API.
	AdminPath = handler.APIPrefix + "/admin/auth"
	// ClientPath is the authentication group of the client API.
	ClientPath = handler.APIPrefix + "/client/auth"
)

// ErrInvalidCredentials is returned when the provided username and/or password are not valid.
var ErrInvalidCredentials = pkgerrors.Wrap(auth.ErrUnauthenticated, "invalid username or password")

type credentials struct {
	Username string `json:"username" form:"username" validate:"required,max=150"`
	Password string `json:"password" form:"password" validate:"required,max=256"`
}

type userDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

type loginResponse struct {
	User        userDTO  `json:"user"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// Service is the login handler service.
type Service struct {
	deps     *handler.Deps
	provider *auth.LocalProvider
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || !deps.Valid() || deps.Sessions == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps
	s.provider = auth.NewLocalProvider(deps.DB)

	for _, p := range []string{AdminPath, ClientPath} {
		router.Route(p, func(r fiber.Router) {
			r.Post("/login", s.Login)
			r.Post("/logout", s.Logout)
		})
	}

	return nil
}

// Login verifies the credentials and starts a session.
func (s *Service) Login(c *fiber.Ctx) error {
	in := new(credentials)
	if err := handler.BindJSON(c, in); err != nil {
		return err
	}

	user, err := s.provider.Authenticate(c.UserContext(), in.Username, in.Password)
	if err != nil {
		if !isCredentialError(err) {
			return err
		}

		log.Info().Str("username", in.Username).Err(err).Msg("login failed")
		handler.RecordActivity(c, s.deps.DB, handler.Activity{
			Module:      activity.ModuleAuth,
			Type:        "LOGIN",
			Description: "login failed for " + in.Username,
			Err:         err,
		})

		return ErrInvalidCredentials
	}

	principal, err := s.deps.Auth.LoadPrincipal(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	perms, err := s.deps.Auth.EffectivePermissions(c.UserContext(), principal)
	if err != nil {
		return err
	}

	sessionID, err := s.deps.Sessions.Create(user.ID)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to create session")
	}

	c.Cookie(s.cookie(sessionID))

	auth.WithPrincipal(c, principal)
	handler.RecordActivity(c, s.deps.DB, handler.Activity{
		Module:      activity.ModuleAuth,
		Type:        "LOGIN",
		Description: "user logged in",
	})

	keys := perms.Keys()

	return c.JSON(loginResponse{
		User:        toUserDTO(user),
		Roles:       principal.RoleKeys,
		Permissions: keys,
	})
}

// Logout ends the session of the cookie, if any, and clears the cookie.
func (s *Service) Logout(c *fiber.Ctx) error {
	if err := s.deps.Sessions.Delete(c.Cookies(session.CookieName)); err != nil {
		log.Error().Err(err).Msg("failed to delete session")
	}

	c.ClearCookie(session.CookieName)

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Service) cookie(value string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     session.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(s.deps.Sessions.Expiry().Seconds()),
		Secure:   !s.deps.Cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

func isCredentialError(err error) bool {
	return errors.Is(err, auth.ErrUserNotFound) ||
		errors.Is(err, auth.ErrInvalidPassword) ||
		errors.Is(err, auth.ErrUserAccountDisabled)
}

func toUserDTO(u *models.User) userDTO {
	return userDTO{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
	}
}
