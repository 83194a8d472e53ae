// Package menu serves the navigation menu of the requesting user and lets the user
// store a personal layout for it.
package menu

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	pkgerrors "github.com/pkg/errors"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/db/controller/activity"
	"github.com/StoreAdmin/StoreAdmin/internal/db/controller/menulayout"
	"github.com/StoreAdmin/StoreAdmin/internal/web/handler"
	"github.com/StoreAdmin/StoreAdmin/internal/web/navigation"
)

const (
	// Path is the base path of the navigation routes.
	Path = handler.APIPrefix + "/navigation"
)

// LayoutInput is the body of a layout update, shared with the setup handler.
type LayoutInput struct {
	LayoutKey string                    `json:"layoutKey" validate:"omitempty,max=100"`
	Nodes     []navigation.NodeOverride `json:"nodes"     validate:"dive"`
}

// Service serves the navigation routes.
type Service struct {
	deps *handler.Deps
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || !deps.Valid() || deps.Composer == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps

	router.Route(Path, func(r fiber.Router) {
		r.Get("/menu", deps.Gate.Require(auth.OpNavigationMenu), s.Menu)
		r.Put("/layout", deps.Gate.Require(auth.OpNavigationLayoutSave), s.SaveLayout)
		r.Delete("/layout", deps.Gate.Require(auth.OpNavigationLayoutReset), s.ResetLayout)
	})

	return nil
}

// Menu returns the menu of the requesting user.
func (s *Service) Menu(c *fiber.Ctx) error {
	p, err := handler.Principal(c)
	if err != nil {
		return err
	}

	menu, err := s.compose(c, p, LayoutKey(c.Query("layoutKey"), s.deps))
	if err != nil {
		return err
	}

	return c.JSON(menu)
}

// SaveLayout stores the personal layout of the requesting user and returns the resulting menu.
func (s *Service) SaveLayout(c *fiber.Ctx) error {
	p, err := handler.Principal(c)
	if err != nil {
		return err
	}

	in := new(LayoutInput)
	if err = handler.BindJSON(c, in); err != nil {
		return err
	}

	layoutKey := LayoutKey(in.LayoutKey, s.deps)

	structure, err := Structure(s.deps.Composer, in.Nodes)
	if err != nil {
		return err
	}

	userID := p.UserID

	_, err = menulayout.Upsert(s.deps.DB, layoutKey, &userID, structure, &userID)

	handler.RecordActivity(c, s.deps.DB, handler.Activity{
		Module:      activity.ModuleNavigation,
		Type:        "LAYOUT_SAVE",
		Description: "saved personal layout " + layoutKey,
		Err:         err,
	})

	if err != nil {
		return err
	}

	menu, err := s.compose(c, p, layoutKey)
	if err != nil {
		return err
	}

	return c.JSON(menu)
}

// ResetLayout removes the personal layout of the requesting user. Resetting without a
// stored layout is not an error.
func (s *Service) ResetLayout(c *fiber.Ctx) error {
	p, err := handler.Principal(c)
	if err != nil {
		return err
	}

	layoutKey := LayoutKey(c.Query("layoutKey"), s.deps)
	userID := p.UserID

	err = menulayout.Delete(s.deps.DB, layoutKey, &userID)
	if err != nil && !errors.Is(err, auth.ErrNotFound) {
		return err
	}

	if err == nil {
		handler.RecordActivity(c, s.deps.DB, handler.Activity{
			Module:      activity.ModuleNavigation,
			Type:        "LAYOUT_RESET",
			Description: "reset personal layout " + layoutKey,
		})
	}

	menu, err := s.compose(c, p, layoutKey)
	if err != nil {
		return err
	}

	return c.JSON(menu)
}

func (s *Service) compose(c *fiber.Ctx, p *auth.Principal, layoutKey string) (navigation.Menu, error) {
	perms, err := auth.PermissionsFromContext(c, s.deps.Auth)
	if err != nil {
		return navigation.Menu{}, err
	}

	ov, err := navigation.LoadOverride(s.deps.DB, layoutKey, p.UserID)
	if err != nil {
		return navigation.Menu{}, err
	}

	return s.deps.Composer.Compose(layoutKey, perms, ov), nil
}

// LayoutKey returns the upper-cased requested key or the configured default.
func LayoutKey(requested string, deps *handler.Deps) string {
	key := strings.ToUpper(strings.TrimSpace(requested))
	if key == "" {
		return deps.Cfg.Navigation.LayoutKey
	}

	return key
}

// Structure validates nodes against the static tree and encodes them for storage.
// Unknown or repeated node ids are rejected.
func Structure(composer *navigation.Composer, nodes []navigation.NodeOverride) (string, error) {
	kept, dropped := composer.Sanitize(nodes)
	if len(dropped) > 0 {
		return "", pkgerrors.Wrapf(auth.ErrValidation, "unknown or repeated menu nodes: %s", strings.Join(dropped, ", "))
	}

	return navigation.EncodeOverrides(kept)
}
