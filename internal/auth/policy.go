package auth

import (
	"sort"

	"github.com/pkg/errors"
)

// Operation identifiers bound to routes by the web layer.
const (
	OpNavigationMenu        = "navigation.menu"
	OpNavigationLayoutSave  = "navigation.layout.update"
	OpNavigationLayoutReset = "navigation.layout.reset"
	OpSetupMenuView         = "setup.menu.view"
	OpSetupMenuUpdate       = "setup.menu.update"

	OpRolesList              = "roles.list"
	OpRolesCreate            = "roles.create"
	OpRolesGet               = "roles.get"
	OpRolesUpdate            = "roles.update"
	OpRolesDelete            = "roles.delete"
	OpRolesPermissionsAssign = "roles.permissions.assign"
	OpRolesPermissionsRemove = "roles.permissions.remove"

	OpPermissionsList   = "permissions.list"
	OpPermissionsCreate = "permissions.create"
	OpPermissionsUpdate = "permissions.update"
	OpPermissionsDelete = "permissions.delete"

	OpUsersRolesAssign  = "users.roles.assign"
	OpUsersMePermission = "users.me.permissions"

	OpActivityList          = "activity.list"
	OpSystemPublicEndpoints = "system.publicEndpoints"
)

// Policy binds operation identifiers to the requirement they enforce.
type Policy map[string]Requirement

// DefaultPolicy returns the requirement table for every protected route.
func DefaultPolicy() Policy {
	return Policy{
		OpNavigationMenu:        Authenticated(),
		OpNavigationLayoutSave:  Require(PermMenuCustomize),
		OpNavigationLayoutReset: Require(PermMenuCustomize),
		OpSetupMenuView:         Require(PermSetupManage),
		OpSetupMenuUpdate:       Require(PermSetupManage),

		OpRolesList:              AnyOf(PermRoleView, PermPermissionView),
		OpRolesCreate:            Require(PermRoleCreate),
		OpRolesGet:               Require(PermRoleView),
		OpRolesUpdate:            Require(PermRoleUpdate),
		OpRolesDelete:            Require(PermRoleDelete),
		OpRolesPermissionsAssign: AnyOf(PermRoleUpdate, PermPermissionUpdate),
		OpRolesPermissionsRemove: AnyOf(PermRoleUpdate, PermPermissionUpdate),

		OpPermissionsList:   Require(PermPermissionView),
		OpPermissionsCreate: Require(PermPermissionCreate),
		OpPermissionsUpdate: Require(PermPermissionUpdate),
		OpPermissionsDelete: Require(PermPermissionDelete),

		OpUsersRolesAssign:  AllOf(PermUserUpdate, PermRoleView),
		OpUsersMePermission: Authenticated(),

		OpActivityList:          Require(PermActivityView),
		OpSystemPublicEndpoints: Require(PermPublicEndpointsView),
	}
}

// Validate checks that every binding is defined and only references keys from catalog.
func (p Policy) Validate(catalog []string) error {
	known := make(map[string]struct{}, len(catalog))
	for _, k := range catalog {
		known[k] = struct{}{}
	}

	for _, op := range p.Operations() {
		req := p[op]
		if req.IsZero() || (req.kind != kindAuthenticated && len(req.keys) == 0) {
			return errors.Wrapf(ErrUnknownOperation, "operation %s has no requirement", op)
		}

		for _, k := range req.keys {
			if _, ok := known[k]; !ok {
				return errors.Wrapf(ErrUnknownPermission, "operation %s references %q", op, k)
			}
		}
	}

	return nil
}

// Operations returns the bound operation identifiers, sorted.
func (p Policy) Operations() []string {
	ops := make([]string, 0, len(p))
	for op := range p {
		ops = append(ops, op)
	}

	sort.Strings(ops)

	return ops
}
