package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/jobhunter-api/internal/domain"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo roles en memoria; la relación con permissions se guarda por id.
type RoleRepo struct {
	s *Store
}

// NewRoleRepository construye el repositorio sobre el store.
func NewRoleRepository(s *Store) *RoleRepo {
	return &RoleRepo{s: s}
}

// rolePermissionsLocked resuelve los ids del rol ignorando los que ya no existen.
func (s *Store) rolePermissionsLocked(row *roleRow) []*entity.Permission {
	ids := append([]int64(nil), row.permIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*entity.Permission, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.permissions[id]; ok {
			out = append(out, clonePermission(p))
		}
	}
	return out
}

func (r *RoleRepo) toEntityLocked(row *roleRow) *entity.Role {
	role := row.role
	role.Permissions = r.s.rolePermissionsLocked(row)
	return &role
}

func (r *RoleRepo) nameTakenLocked(name string, exceptID int64) bool {
	for id, row := range r.s.roles {
		if id != exceptID && row.role.Name == name {
			return true
		}
	}
	return false
}

func permIDs(role *entity.Role) []int64 {
	seen := make(map[int64]bool, len(role.Permissions))
	ids := make([]int64, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		if !seen[p.ID] {
			seen[p.ID] = true
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Create persiste el rol con sus permissions.
func (r *RoleRepo) Create(_ context.Context, role *entity.Role) error {
	r.s.lookup()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTakenLocked(role.Name, 0) {
		return domain.ErrDuplicate
	}
	role.ID = r.s.nextID()
	row := &roleRow{role: *role, permIDs: permIDs(role)}
	row.role.Permissions = nil
	r.s.roles[role.ID] = row
	return nil
}

// Update reemplaza datos y conjunto de permissions.
func (r *RoleRepo) Update(_ context.Context, role *entity.Role) error {
	r.s.lookup()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.roles[role.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.nameTakenLocked(role.Name, role.ID) {
		return domain.ErrDuplicate
	}
	row := &roleRow{role: *role, permIDs: permIDs(role)}
	row.role.Permissions = nil
	r.s.roles[role.ID] = row
	return nil
}

// Delete elimina el rol y deja sin rol a sus usuarios.
func (r *RoleRepo) Delete(_ context.Context, id int64) error {
	r.s.lookup()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.roles, id)
	for _, u := range r.s.users {
		if u.RoleID != nil && *u.RoleID == id {
			u.RoleID = nil
		}
	}
	return nil
}

// GetByID obtiene el rol con sus permissions; (nil, nil) si no existe.
func (r *RoleRepo) GetByID(_ context.Context, id int64) (*entity.Role, error) {
	r.s.lookup()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.roles[id]
	if !ok {
		return nil, nil
	}
	return r.toEntityLocked(row), nil
}

// GetByName obtiene el rol por nombre.
func (r *RoleRepo) GetByName(_ context.Context, name string) (*entity.Role, error) {
	r.s.lookup()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, row := range r.s.roles {
		if row.role.Name == name {
			return r.toEntityLocked(row), nil
		}
	}
	return nil, nil
}

// ExistsByName comprueba si el nombre está en uso.
func (r *RoleRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	r.s.lookup()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.nameTakenLocked(name, 0), nil
}

// List lista roles ordenados por id.
func (r *RoleRepo) List(_ context.Context, limit, offset int) ([]*entity.Role, error) {
	r.s.lookup()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]*entity.Role, 0, len(r.s.roles))
	for _, id := range sortedKeys(r.s.roles) {
		all = append(all, r.toEntityLocked(r.s.roles[id]))
	}
	return paginate(all, limit, offset), nil
}

// CountPermissions permissions del rol; 0 si el rol no existe.
func (r *RoleRepo) CountPermissions(_ context.Context, roleID int64) (int, error) {
	r.s.lookup()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.roles[roleID]
	if !ok {
		return 0, nil
	}
	return len(r.s.rolePermissionsLocked(row)), nil
}

// HasPermission busca una permission del rol con (apiPath, method) exactos.
func (r *RoleRepo) HasPermission(_ context.Context, roleID int64, apiPath, method string) (bool, error) {
	r.s.lookup()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.roles[roleID]
	if !ok {
		return false, nil
	}
	for _, p := range r.s.rolePermissionsLocked(row) {
		if p.APIPath == apiPath && p.Method == method {
			return true, nil
		}
	}
	return false, nil
}
