// Package activity serves the administrative activity log.
package activity

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	pkgerrors "github.com/pkg/errors"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
	activityctl "github.com/StoreAdmin/StoreAdmin/internal/db/controller/activity"
	"github.com/StoreAdmin/StoreAdmin/internal/web/handler"
)

const (
	// Path is the path of the activity log.
	Path = handler.APIPrefix + "/activity"
)

// Service serves the activity log.
type Service struct {
	deps *handler.Deps
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps

	router.Get(Path, deps.Gate.Require(auth.OpActivityList), s.List)

	return nil
}

// List returns one page of activity, newest first. It filters by module and userId.
func (s *Service) List(c *fiber.Ctx) error {
	filter := activityctl.Filter{Module: strings.ToUpper(c.Query("module"))}

	if raw := c.Query("userId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return pkgerrors.Wrapf(auth.ErrValidation, "invalid userId %q", raw)
		}

		filter.UserID = &id
	}

	res, err := activityctl.List(s.deps.DB, filter, handler.PageRequest(c))
	if err != nil {
		return err
	}

	return c.JSON(res)
}
