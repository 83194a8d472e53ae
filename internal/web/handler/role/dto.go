package role

import (
	"time"

	"github.com/StoreAdmin/StoreAdmin/internal/db/models"
	"github.com/StoreAdmin/StoreAdmin/internal/web/handler/permission"
)

type roleInput struct {
	Key  string `json:"key"  validate:"required,max=100"`
	Name string `json:"name" validate:"required,max=255"`
}

type assignInput struct {
	PermissionIDs []uint `json:"permissionIds" validate:"dive,gt=0"`
}

type roleDTO struct {
	ID          uint                       `json:"id"`
	Key         string                     `json:"key"`
	Name        string                     `json:"name"`
	IsSystem    bool                       `json:"isSystem"`
	Permissions []permission.PermissionDTO `json:"permissions"`
	CreatedAt   time.Time                  `json:"createdAt"`
	UpdatedAt   time.Time                  `json:"updatedAt"`
}

func toRoleDTO(r *models.Role) roleDTO {
	perms := make([]permission.PermissionDTO, 0, len(r.Permissions))
	for i := range r.Permissions {
		perms = append(perms, permission.ToPermissionDTO(&r.Permissions[i]))
	}

	return roleDTO{
		ID:          r.ID,
		Key:         r.Key,
		Name:        r.Name,
		IsSystem:    r.IsSystem,
		Permissions: perms,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toRoleDTOs(roles []models.Role) []roleDTO {
	out := make([]roleDTO, 0, len(roles))
	for i := range roles {
		out = append(out, toRoleDTO(&roles[i]))
	}

	return out
}
