// Package permission provides the permission catalog endpoints.
package permission

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/db/controller/activity"
	"github.com/StoreAdmin/StoreAdmin/internal/db/controller/paging"
	permctl "github.com/StoreAdmin/StoreAdmin/internal/db/controller/permission"
	"github.com/StoreAdmin/StoreAdmin/internal/db/models"
	"github.com/StoreAdmin/StoreAdmin/internal/web/handler"
)

const (
	// Path is the base path for the permission catalog.
	Path = handler.APIPrefix + "/permissions"
)

type createInput struct {
	Key  string `json:"key"  validate:"required,max=100"`
	Name string `json:"name" validate:"required,max=150"`
}

type updateInput struct {
	Name string `json:"name" validate:"required,max=150"`
}

// PermissionDTO is the public view of a permission.
type PermissionDTO struct {
	ID        uint      `json:"id"`
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	Reserved  bool      `json:"reserved"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToPermissionDTO maps a permission to its public view.
func ToPermissionDTO(p *models.Permission) PermissionDTO {
	return PermissionDTO{
		ID:        p.ID,
		Key:       p.Key,
		Name:      p.Name,
		Reserved:  auth.IsReserved(p.Key),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// Service serves the permission catalog.
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
	gate := deps.Gate

	router.Route(Path, func(r fiber.Router) {
		r.Get(handler.RouterRootPath, gate.Require(auth.OpPermissionsList), s.List)
		r.Post(handler.RouterRootPath, gate.Require(auth.OpPermissionsCreate), s.Create)
		r.Put("/:id", gate.Require(auth.OpPermissionsUpdate), s.Update)
		r.Delete("/:id", gate.Require(auth.OpPermissionsDelete), s.Delete)
	})

	return nil
}

// List returns one page of permissions. Reserved keys are hidden unless
// includeReserved=true or a prefix is given.
func (s *Service) List(c *fiber.Ctx) error {
	filter := permctl.Filter{
		Prefix:          c.Query("prefix"),
		IncludeReserved: c.QueryBool("includeReserved", false),
	}

	res, err := permctl.List(s.deps.DB, filter, handler.PageRequest(c))
	if err != nil {
		return err
	}

	items := make([]PermissionDTO, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, ToPermissionDTO(&res.Items[i]))
	}

	return c.JSON(paging.Result[PermissionDTO]{
		Items:      items,
		Page:       res.Page,
		Size:       res.Size,
		Total:      res.Total,
		TotalPages: res.TotalPages,
	})
}

// Create adds a permission.
func (s *Service) Create(c *fiber.Ctx) error {
	in := new(createInput)
	if err := handler.BindJSON(c, in); err != nil {
		return err
	}

	p, err := permctl.Create(s.deps.DB, in.Key, in.Name)
	s.record(c, "CREATE", "created permission "+in.Key, err)

	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(ToPermissionDTO(p))
}

// Update renames a permission. Keys never change.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	in := new(updateInput)
	if err = handler.BindJSON(c, in); err != nil {
		return err
	}

	p, err := permctl.Rename(s.deps.DB, id, in.Name)
	s.record(c, "UPDATE", fmt.Sprintf("renamed permission %d", id), err)

	if err != nil {
		return err
	}

	return c.JSON(ToPermissionDTO(p))
}

// Delete removes a permission no role uses.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	err = permctl.Delete(s.deps.DB, id)
	s.record(c, "DELETE", fmt.Sprintf("deleted permission %d", id), err)

	if err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Service) record(c *fiber.Ctx, activityType, description string, err error) {
	handler.RecordActivity(c, s.deps.DB, handler.Activity{
		Module:      activity.ModulePermissions,
		Type:        activityType,
		Description: description,
		Err:         err,
	})
}
