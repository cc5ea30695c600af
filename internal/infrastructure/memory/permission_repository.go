package memory

import (
	"context"

	"github.com/jhoicas/jobhunter-api/internal/domain"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/domain/repository"
)

var _ repository.PermissionRepository = (*PermissionRepo)(nil)

// PermissionRepo catálogo de permissions en memoria.
type PermissionRepo struct {
	s *Store
}

// NewPermissionRepository construye el repositorio sobre el store.
func NewPermissionRepository(s *Store) *PermissionRepo {
	return &PermissionRepo{s: s}
}

func (r *PermissionRepo) existsLocked(module, apiPath, method string, exceptID int64) bool {
	for id, p := range r.s.permissions {
		if id != exceptID && p.Module == module && p.APIPath == apiPath && p.Method == method {
			return true
		}
	}
	return false
}

// Create persiste una permission y le asigna id.
func (r *PermissionRepo) Create(_ context.Context, p *entity.Permission) error {
	r.s.lookup()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.existsLocked(p.Module, p.APIPath, p.Method, 0) {
		return domain.ErrDuplicate
	}
	p.ID = r.s.nextID()
	r.s.permissions[p.ID] = clonePermission(p)
	return nil
}

// Update reemplaza los datos de la permission.
func (r *PermissionRepo) Update(_ context.Context, p *entity.Permission) error {
	r.s.lookup()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.permissions[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.existsLocked(p.Module, p.APIPath, p.Method, p.ID) {
		return domain.ErrDuplicate
	}
	r.s.permissions[p.ID] = clonePermission(p)
	return nil
}

// Delete desvincula la permission de los roles y la elimina.
func (r *PermissionRepo) Delete(_ context.Context, id int64) error {
	r.s.lookup()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, row := range r.s.roles {
		kept := row.permIDs[:0]
		for _, pid := range row.permIDs {
			if pid != id {
				kept = append(kept, pid)
			}
		}
		row.permIDs = kept
	}
	delete(r.s.permissions, id)
	return nil
}

// GetByID obtiene una permission; (nil, nil) si no existe.
func (r *PermissionRepo) GetByID(_ context.Context, id int64) (*entity.Permission, error) {
	r.s.lookup()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.permissions[id]
	if !ok {
		return nil, nil
	}
	return clonePermission(p), nil
}

// FindByIDs devuelve las permissions existentes entre los ids dados.
func (r *PermissionRepo) FindByIDs(_ context.Context, ids []int64) ([]*entity.Permission, error) {
	r.s.lookup()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Permission, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.permissions[id]; ok {
			out = append(out, clonePermission(p))
		}
	}
	return out, nil
}

// ExistsByModuleAndPathAndMethod comprueba la tupla única.
func (r *PermissionRepo) ExistsByModuleAndPathAndMethod(_ context.Context, module, apiPath, method string) (bool, error) {
	r.s.lookup()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.existsLocked(module, apiPath, method, 0), nil
}

// List lista el catálogo ordenado por id.
func (r *PermissionRepo) List(_ context.Context, limit, offset int) ([]*entity.Permission, error) {
	r.s.lookup()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]*entity.Permission, 0, len(r.s.permissions))
	for _, id := range sortedKeys(r.s.permissions) {
		all = append(all, clonePermission(r.s.permissions[id]))
	}
	return paginate(all, limit, offset), nil
}

// ListByRole lista las permissions de un rol.
func (r *PermissionRepo) ListByRole(_ context.Context, roleID int64, limit, offset int) ([]*entity.Permission, error) {
	r.s.lookup()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.roles[roleID]
	if !ok {
		return []*entity.Permission{}, nil
	}
	return paginate(r.s.rolePermissionsLocked(row), limit, offset), nil
}

// Count tamaño del catálogo.
func (r *PermissionRepo) Count(_ context.Context) (int, error) {
	r.s.lookup()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.permissions), nil
}

// CountByRole permissions asignadas al rol.
func (r *PermissionRepo) CountByRole(_ context.Context, roleID int64) (int, error) {
	r.s.lookup()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.roles[roleID]
	if !ok {
		return 0, nil
	}
	return len(r.s.rolePermissionsLocked(row)), nil
}
