// Package system exposes read-only information about the running service.
package system

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/auth/publicendpoint"
	"github.com/StoreAdmin/StoreAdmin/internal/web/handler"
)

const (
	// Path is the base path of the system routes.
	Path = handler.APIPrefix + "/system"
)

type publicEndpointsDTO struct {
	Sealed    bool                        `json:"sealed"`
	Endpoints []publicendpoint.Definition `json:"endpoints"`
}

// Service serves the system routes.
type Service struct {
	registry *publicendpoint.Registry
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || !deps.Valid() || deps.Registry == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.registry = deps.Registry

	router.Get(Path+"/public-endpoints", deps.Gate.Require(auth.OpSystemPublicEndpoints), s.PublicEndpoints)

	return nil
}

// PublicEndpoints lists the routes reachable without authentication, in registration order.
func (s *Service) PublicEndpoints(c *fiber.Ctx) error {
	endpoints := s.registry.List()

	return c.JSON(publicEndpointsDTO{Sealed: s.registry.Sealed(), Endpoints: endpoints})
}
