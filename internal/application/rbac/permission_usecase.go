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

// PermissionUseCase administración del catálogo de permissions.
type PermissionUseCase struct {
	repo    repository.PermissionRepository
	catalog *Catalog
}

// NewPermissionUseCase construye el caso de uso.
func NewPermissionUseCase(repo repository.PermissionRepository, catalog *Catalog) *PermissionUseCase {
	return &PermissionUseCase{repo: repo, catalog: catalog}
}

// Create registra una permission. Devuelve domain.ErrDuplicate si (module, api_path, method) ya existe.
func (uc *PermissionUseCase) Create(ctx context.Context, in dto.CreatePermissionRequest, actor string) (*dto.PermissionResponse, error) {
	p := &entity.Permission{
		Name:    strings.TrimSpace(in.Name),
		APIPath: strings.TrimSpace(in.APIPath),
		Method:  strings.ToUpper(strings.TrimSpace(in.Method)),
		Module:  strings.ToUpper(strings.TrimSpace(in.Module)),
	}
	exists, err := uc.repo.ExistsByModuleAndPathAndMethod(ctx, p.Module, p.APIPath, p.Method)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	p.CreatedBy, p.UpdatedBy = actor, actor
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	out := ToPermissionResponse(p)
	return &out, nil
}

// Update modifica una permission existente. Si la nueva tupla choca con otra permission devuelve ErrDuplicate.
func (uc *PermissionUseCase) Update(ctx context.Context, in dto.UpdatePermissionRequest, actor string) (*dto.PermissionResponse, error) {
	current, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	apiPath := strings.TrimSpace(in.APIPath)
	method := strings.ToUpper(strings.TrimSpace(in.Method))
	module := strings.ToUpper(strings.TrimSpace(in.Module))
	if apiPath != current.APIPath || method != current.Method || module != current.Module {
		exists, err := uc.repo.ExistsByModuleAndPathAndMethod(ctx, module, apiPath, method)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicate
		}
	}
	current.Name = strings.TrimSpace(in.Name)
	current.APIPath = apiPath
	current.Method = method
	current.Module = module
	current.UpdatedAt = time.Now()
	current.UpdatedBy = actor
	if err := uc.repo.Update(ctx, current); err != nil {
		return nil, err
	}
	out := ToPermissionResponse(current)
	return &out, nil
}

// Delete elimina la permission; el repositorio la desvincula antes de todos los roles.
func (uc *PermissionUseCase) Delete(ctx context.Context, id int64) error {
	current, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

// GetByID obtiene una permission por id; (nil, nil) si no existe.
func (uc *PermissionUseCase) GetByID(ctx context.Context, id int64) (*dto.PermissionResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	out := ToPermissionResponse(p)
	return &out, nil
}

// List devuelve el catálogo visible para el rol del llamador: completo si el rol
// tiene acceso total, solo sus permissions en otro caso, y vacío si no tiene rol.
func (uc *PermissionUseCase) List(ctx context.Context, callerRoleID *int64, page dto.PageRequest) (*dto.PermissionListResponse, error) {
	page.DefaultPage()
	resp := &dto.PermissionListResponse{
		Items: []dto.PermissionResponse{},
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	if callerRoleID == nil || *callerRoleID <= 0 {
		return resp, nil
	}
	full, err := uc.catalog.IsFullAccessRole(ctx, *callerRoleID)
	if err != nil {
		return nil, err
	}
	var list []*entity.Permission
	if full {
		list, err = uc.repo.List(ctx, page.Limit, page.Offset)
		if err == nil {
			resp.Page.Total, err = uc.repo.Count(ctx)
		}
	} else {
		list, err = uc.repo.ListByRole(ctx, *callerRoleID, page.Limit, page.Offset)
		if err == nil {
			resp.Page.Total, err = uc.repo.CountByRole(ctx, *callerRoleID)
		}
	}
	if err != nil {
		return nil, err
	}
	resp.Items = ToPermissionResponses(list)
	return resp, nil
}
