// Package user provides the user role assignment endpoints.
package user

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/db/controller/activity"
	"github.com/StoreAdmin/StoreAdmin/internal/db/models"
	"github.com/StoreAdmin/StoreAdmin/internal/web/handler"
)

const (
	// Path is the base path for user routes.
	Path = handler.APIPrefix + "/users"
)

type assignInput struct {
	RoleIDs []uint `json:"roleIds" validate:"dive,gt=0"`
}

type roleRefDTO struct {
	ID   uint   `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

type userDTO struct {
	ID       uint64       `json:"id"`
	Username string       `json:"username"`
	Email    string       `json:"email"`
	FullName string       `json:"fullName"`
	Active   bool         `json:"active"`
	Roles    []roleRefDTO `json:"roles"`
}

type permissionsDTO struct {
	UserID      uint64   `json:"userId"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

func toUserDTO(u *models.User) userDTO {
	roles := make([]roleRefDTO, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, roleRefDTO{ID: r.ID, Key: r.Key, Name: r.Name})
	}

	return userDTO{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Active:   u.Active,
		Roles:    roles,
	}
}

// Service serves the user routes.
type Service struct {
	deps     *handler.Deps
	provider *auth.LocalProvider
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps
	s.provider = auth.NewLocalProvider(deps.DB)

	router.Route(Path, func(r fiber.Router) {
		r.Get("/me/permissions", deps.Gate.Require(auth.OpUsersMePermission), s.MyPermissions)
		r.Put("/:id/roles", deps.Gate.Require(auth.OpUsersRolesAssign), s.AssignRoles)
	})

	return nil
}

// MyPermissions returns the roles and effective permissions of the requesting user.
func (s *Service) MyPermissions(c *fiber.Ctx) error {
	p, err := handler.Principal(c)
	if err != nil {
		return err
	}

	perms, err := auth.PermissionsFromContext(c, s.deps.Auth)
	if err != nil {
		return err
	}

	keys := perms.Keys()

	roles := make([]string, len(p.RoleKeys))
	copy(roles, p.RoleKeys)

	return c.JSON(permissionsDTO{UserID: p.UserID, Roles: roles, Permissions: keys})
}

// AssignRoles replaces the role set of a user.
func (s *Service) AssignRoles(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	in := new(assignInput)
	if err = handler.BindJSON(c, in); err != nil {
		return err
	}

	u, err := s.provider.AssignRoles(c.UserContext(), uint64(id), in.RoleIDs)

	handler.RecordActivity(c, s.deps.DB, handler.Activity{
		Module:      activity.ModuleUsers,
		Type:        "ASSIGN_ROLES",
		Description: fmt.Sprintf("assigned %d role(s) to user %d", len(in.RoleIDs), id),
		Context:     handler.IDList("roleIds", in.RoleIDs),
		Err:         err,
	})

	if err != nil {
		return err
	}

	return c.JSON(toUserDTO(u))
}
