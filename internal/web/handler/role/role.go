// Package role provides the role management endpoints.
package role

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/db/controller/activity"
	"github.com/StoreAdmin/StoreAdmin/internal/db/controller/paging"
	rolectl "github.com/StoreAdmin/StoreAdmin/internal/db/controller/role"
	"github.com/StoreAdmin/StoreAdmin/internal/web/handler"
)

const (
	// Path is the base path for role management.
	Path = handler.APIPrefix + "/roles"
)

// Service provides CRUD operations for roles.
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
		r.Get(handler.RouterRootPath, gate.Require(auth.OpRolesList), s.List)
		r.Post(handler.RouterRootPath, gate.Require(auth.OpRolesCreate), s.Create)
		r.Get("/:id", gate.Require(auth.OpRolesGet), s.Get)
		r.Put("/:id", gate.Require(auth.OpRolesUpdate), s.Update)
		r.Delete("/:id", gate.Require(auth.OpRolesDelete), s.Delete)
		r.Post("/:id/permissions", gate.Require(auth.OpRolesPermissionsAssign), s.AssignPermissions)
		r.Delete("/:id/permissions/:permissionId", gate.Require(auth.OpRolesPermissionsRemove), s.RemovePermission)
	})

	return nil
}

// List returns one page of roles.
func (s *Service) List(c *fiber.Ctx) error {
	res, err := rolectl.List(s.deps.DB, handler.PageRequest(c))
	if err != nil {
		return err
	}

	return c.JSON(paging.Result[roleDTO]{
		Items:      toRoleDTOs(res.Items),
		Page:       res.Page,
		Size:       res.Size,
		Total:      res.Total,
		TotalPages: res.TotalPages,
	})
}

// Get returns a single role.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	r, err := rolectl.Get(s.deps.DB, id)
	if err != nil {
		return err
	}

	return c.JSON(toRoleDTO(r))
}

// Create creates a role without permissions.
func (s *Service) Create(c *fiber.Ctx) error {
	in := new(roleInput)
	if err := handler.BindJSON(c, in); err != nil {
		return err
	}

	r, err := rolectl.Create(s.deps.DB, in.Key, in.Name)
	s.record(c, "CREATE", "created role "+auth.NormalizeRoleKey(in.Key), err)

	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toRoleDTO(r))
}

// Update changes key and name of a role.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	in := new(roleInput)
	if err = handler.BindJSON(c, in); err != nil {
		return err
	}

	r, err := rolectl.Update(s.deps.DB, id, in.Key, in.Name)
	s.record(c, "UPDATE", fmt.Sprintf("updated role %d", id), err)

	if err != nil {
		return err
	}

	return c.JSON(toRoleDTO(r))
}

// Delete deletes a role that is neither a system role nor assigned to a user.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	err = rolectl.Delete(s.deps.DB, id)
	s.record(c, "DELETE", fmt.Sprintf("deleted role %d", id), err)

	if err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// AssignPermissions replaces the permission set of a role.
func (s *Service) AssignPermissions(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	in := new(assignInput)
	if err = handler.BindJSON(c, in); err != nil {
		return err
	}

	r, err := rolectl.AssignPermissions(s.deps.DB, id, in.PermissionIDs)
	handler.RecordActivity(c, s.deps.DB, handler.Activity{
		Module:      activity.ModuleRoles,
		Type:        "ASSIGN_PERMISSIONS",
		Description: fmt.Sprintf("assigned %d permission(s) to role %d", len(in.PermissionIDs), id),
		Context:     handler.IDList("permissionIds", in.PermissionIDs),
		Err:         err,
	})

	if err != nil {
		return err
	}

	return c.JSON(toRoleDTO(r))
}

// RemovePermission removes one permission from a role.
func (s *Service) RemovePermission(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	permissionID, err := handler.ParamID(c, "permissionId")
	if err != nil {
		return err
	}

	r, err := rolectl.RemovePermission(s.deps.DB, id, permissionID)
	s.record(c, "REMOVE_PERMISSION", fmt.Sprintf("removed permission %d from role %d", permissionID, id), err)

	if err != nil {
		return err
	}

	return c.JSON(toRoleDTO(r))
}

func (s *Service) record(c *fiber.Ctx, activityType, description string, err error) {
	handler.RecordActivity(c, s.deps.DB, handler.Activity{
		Module:      activity.ModuleRoles,
		Type:        activityType,
		Description: description,
		Err:         err,
	})
}
