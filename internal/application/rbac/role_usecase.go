package rbac

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/jobhunter-api/internal/application/dto"
	"github.com/jhoicas/jobhunter-api/internal/domain"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/domain/repository"
)

// RoleUseCase administración de roles y de su conjunto de permissions.
type RoleUseCase struct {
	repo    repository.RoleRepository
	catalog *Catalog
}

// NewRoleUseCase construye el caso de uso.
func NewRoleUseCase(repo repository.RoleRepository, catalog *Catalog) *RoleUseCase {
	return &RoleUseCase{repo: repo, catalog: catalog}
}

// Create crea un rol. Devuelve domain.ErrDuplicate si el nombre ya existe.
func (uc *RoleUseCase) Create(ctx context.Context, in dto.CreateRoleRequest, actor string) (*dto.RoleResponse, error) {
	name := strings.ToUpper(strings.TrimSpace(in.Name))
	exists, err := uc.repo.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicate
	}
	perms, err := uc.catalog.resolvePermissions(ctx, in.PermissionIDs)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	role := &entity.Role{
		Name:        name,
		Description: in.Description,
		Active:      in.Active == nil || *in.Active,
		Permissions: perms,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   actor,
		UpdatedBy:   actor,
	}
	if err := uc.repo.Create(ctx, role); err != nil {
		return nil, err
	}
	return uc.response(ctx, role)
}

// Update reemplaza nombre, descripción, estado y permissions del rol.
func (uc *RoleUseCase) Update(ctx context.Context, in dto.UpdateRoleRequest, actor string) (*dto.RoleResponse, error) {
	role, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}
	name := strings.ToUpper(strings.TrimSpace(in.Name))
	if name != role.Name {
		exists, err := uc.repo.ExistsByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicate
		}
	}
	perms, err := uc.catalog.resolvePermissions(ctx, in.PermissionIDs)
	if err != nil {
		return nil, err
	}
	role.Name = name
	role.Description = in.Description
	if in.Active != nil {
		role.Active = *in.Active
	}
	role.Permissions = perms
	role.UpdatedAt = time.Now()
	role.UpdatedBy = actor
	if err := uc.repo.Update(ctx, role); err != nil {
		return nil, err
	}
	return uc.response(ctx, role)
}

// AssignPermissions reemplaza solo el conjunto de permissions del rol.
func (uc *RoleUseCase) AssignPermissions(ctx context.Context, roleID int64, in dto.AssignPermissionsRequest) (*dto.RoleResponse, error) {
	role, err := uc.catalog.AssignPermissions(ctx, roleID, in.PermissionIDs)
	if err != nil {
		return nil, err
	}
	return uc.response(ctx, role)
}

// Delete elimina un rol existente.
func (uc *RoleUseCase) Delete(ctx context.Context, id int64) error {
	role, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if role == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

// GetByID obtiene un rol con sus permissions; (nil, nil) si no existe.
func (uc *RoleUseCase) GetByID(ctx context.Context, id int64) (*dto.RoleResponse, error) {
	role, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, nil
	}
	return uc.response(ctx, role)
}

// List lista roles con paginación.
func (uc *RoleUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.RoleListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.catalog.CountTotalPermissions(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RoleResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toRoleResponse(r, total))
	}
	return &dto.RoleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func (uc *RoleUseCase) response(ctx context.Context, role *entity.Role) (*dto.RoleResponse, error) {
	total, err := uc.catalog.CountTotalPermissions(ctx)
	if err != nil {
		return nil, err
	}
	return toRoleResponse(role, total), nil
}
