package rbac

import (
	"context"
	"fmt"

	"github.com/jhoicas/jobhunter-api/internal/domain"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/domain/repository"
)

// Catalog concentra las consultas de autorización sobre el catálogo de permissions y los roles.
// Es el único punto que decide si un rol es "administrador": un rol tiene acceso total
// cuando su número de permissions es igual al tamaño del catálogo. No existe otro indicador.
type Catalog struct {
	permRepo repository.PermissionRepository
	roleRepo repository.RoleRepository
}

// NewCatalog construye el catálogo con los puertos de persistencia.
func NewCatalog(permRepo repository.PermissionRepository, roleRepo repository.RoleRepository) *Catalog {
	return &Catalog{permRepo: permRepo, roleRepo: roleRepo}
}

// CountTotalPermissions tamaño actual del catálogo.
func (c *Catalog) CountTotalPermissions(ctx context.Context) (int, error) {
	n, err := c.permRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("contar permissions: %w", err)
	}
	return n, nil
}

// CountPermissionsForRole permissions del rol; 0 si el rol no existe.
func (c *Catalog) CountPermissionsForRole(ctx context.Context, roleID int64) (int, error) {
	n, err := c.roleRepo.CountPermissions(ctx, roleID)
	if err != nil {
		return 0, fmt.Errorf("contar permissions del rol %d: %w", roleID, err)
	}
	return n, nil
}

// IsFullAccessRole compara cardinalidades. Un cambio en el catálogo cambia el resultado
// sin tocar el rol: añadir una permission quita el acceso total a quien no la tenga.
func (c *Catalog) IsFullAccessRole(ctx context.Context, roleID int64) (bool, error) {
	forRole, err := c.CountPermissionsForRole(ctx, roleID)
	if err != nil {
		return false, err
	}
	total, err := c.CountTotalPermissions(ctx)
	if err != nil {
		return false, err
	}
	return forRole == total, nil
}

// FindRole devuelve el rol con sus permissions, o (nil, nil) si no existe.
func (c *Catalog) FindRole(ctx context.Context, roleID int64) (*entity.Role, error) {
	role, err := c.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("buscar rol %d: %w", roleID, err)
	}
	return role, nil
}

// RoleHasPermission comparación literal de (plantilla de ruta, método).
func (c *Catalog) RoleHasPermission(ctx context.Context, roleID int64, apiPath, method string) (bool, error) {
	ok, err := c.roleRepo.HasPermission(ctx, roleID, apiPath, method)
	if err != nil {
		return false, fmt.Errorf("verificar permission del rol %d: %w", roleID, err)
	}
	return ok, nil
}

// AssignPermissions reemplaza el conjunto de permissions del rol por el subconjunto
// de ids que existen en el catálogo. Los ids desconocidos se descartan sin error.
func (c *Catalog) AssignPermissions(ctx context.Context, roleID int64, permissionIDs []int64) (*entity.Role, error) {
	role, err := c.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}
	perms, err := c.resolvePermissions(ctx, permissionIDs)
	if err != nil {
		return nil, err
	}
	role.Permissions = perms
	if err := c.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (c *Catalog) resolvePermissions(ctx context.Context, ids []int64) ([]*entity.Permission, error) {
	if len(ids) == 0 {
		return []*entity.Permission{}, nil
	}
	perms, err := c.permRepo.FindByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, fmt.Errorf("resolver permissions: %w", err)
	}
	return perms, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
