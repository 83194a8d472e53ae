// Package setup lets administrators edit the global menu layout every user starts from.
package setup

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/db/controller/activity"
	"github.com/StoreAdmin/StoreAdmin/internal/db/controller/menulayout"
	"github.com/StoreAdmin/StoreAdmin/internal/web/handler"
	"github.com/StoreAdmin/StoreAdmin/internal/web/handler/menu"
	"github.com/StoreAdmin/StoreAdmin/internal/web/navigation"
)

const (
	// Path is the base path of the setup routes.
	Path = handler.APIPrefix + "/setup"
)

type layoutDTO struct {
	LayoutKey string            `json:"layoutKey"`
	Scope     navigation.Scope  `json:"scope"`
	Items     []navigation.Item `json:"items"`
	UpdatedAt *time.Time        `json:"updatedAt,omitempty"`
	UpdatedBy string            `json:"updatedBy,omitempty"`
}

// Service serves the setup routes.
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
		r.Get("/menu", deps.Gate.Require(auth.OpSetupMenuView), s.Get)
		r.Put("/menu", deps.Gate.Require(auth.OpSetupMenuUpdate), s.Update)
	})

	return nil
}

// Get returns the full static tree annotated with the global layout.
func (s *Service) Get(c *fiber.Ctx) error {
	layoutKey := menu.LayoutKey(c.Query("layoutKey"), s.deps)

	dto, err := s.load(layoutKey)
	if err != nil {
		return err
	}

	return c.JSON(dto)
}

// Update replaces the global layout.
func (s *Service) Update(c *fiber.Ctx) error {
	p, err := handler.Principal(c)
	if err != nil {
		return err
	}

	in := new(menu.LayoutInput)
	if err = handler.BindJSON(c, in); err != nil {
		return err
	}

	layoutKey := menu.LayoutKey(in.LayoutKey, s.deps)

	structure, err := menu.Structure(s.deps.Composer, in.Nodes)
	if err != nil {
		return err
	}

	userID := p.UserID

	_, err = menulayout.Upsert(s.deps.DB, layoutKey, nil, structure, &userID)

	handler.RecordActivity(c, s.deps.DB, handler.Activity{
		Module:      activity.ModuleSetup,
		Type:        "MENU_UPDATE",
		Description: "updated global layout " + layoutKey,
		Context:     structure,
		Err:         err,
	})

	if err != nil {
		return err
	}

	dto, err := s.load(layoutKey)
	if err != nil {
		return err
	}

	return c.JSON(dto)
}

func (s *Service) load(layoutKey string) (layoutDTO, error) {
	ov, err := navigation.LoadGlobalOverride(s.deps.DB, layoutKey)
	if err != nil {
		return layoutDTO{}, err
	}

	dto := layoutDTO{
		LayoutKey: layoutKey,
		Scope:     navigation.ScopeDefault,
		Items:     s.deps.Composer.Annotate(layoutKey, ov),
	}

	if ov != nil {
		dto.Scope = ov.Scope
		dto.UpdatedAt = ov.UpdatedAt
		dto.UpdatedBy = ov.UpdatedBy
	}

	return dto, nil
}
