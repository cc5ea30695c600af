package rbac

import (
	"github.com/jhoicas/jobhunter-api/internal/application/dto"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
)

// ToPermissionResponse convierte la entidad a su DTO de salida.
func ToPermissionResponse(p *entity.Permission) dto.PermissionResponse {
	return dto.PermissionResponse{
		ID:        p.ID,
		Name:      p.Name,
		APIPath:   p.APIPath,
		Method:    p.Method,
		Module:    p.Module,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToPermissionResponses convierte una lista de permissions.
func ToPermissionResponses(list []*entity.Permission) []dto.PermissionResponse {
	items := make([]dto.PermissionResponse, 0, len(list))
	for _, p := range list {
		items = append(items, ToPermissionResponse(p))
	}
	return items
}

func toRoleResponse(r *entity.Role, total int) *dto.RoleResponse {
	if r == nil {
		return nil
	}
	return &dto.RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Active:      r.Active,
		FullAccess:  len(r.Permissions) == total,
		Permissions: ToPermissionResponses(r.Permissions),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
