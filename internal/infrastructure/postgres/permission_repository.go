package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/jobhunter-api/internal/domain"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/domain/repository"
)

var _ repository.PermissionRepository = (*PermissionRepo)(nil)

// PermissionRepo catálogo de permissions sobre PostgreSQL.
// La tupla (module, api_path, method) es única en la tabla.
type PermissionRepo struct {
	q Querier
}

// NewPermissionRepository construye el adaptador del catálogo.
func NewPermissionRepository(q Querier) *PermissionRepo {
	return &PermissionRepo{q: q}
}

const permissionColumns = `p.id, p.name, p.api_path, p.method, p.module, p.created_at, p.updated_at, p.created_by, p.updated_by`

func scanPermission(row rowScanner) (*entity.Permission, error) {
	var (
		p         entity.Permission
		createdBy *string
		updatedBy *string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.APIPath, &p.Method, &p.Module,
		&p.CreatedAt, &p.UpdatedAt, &createdBy, &updatedBy); err != nil {
		return nil, err
	}
	p.CreatedBy = derefString(createdBy)
	p.UpdatedBy = derefString(updatedBy)
	return &p, nil
}

func collectPermissions(rows pgx.Rows) ([]*entity.Permission, error) {
	defer rows.Close()
	list := make([]*entity.Permission, 0)
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Create persiste la permission y asigna su ID.
func (r *PermissionRepo) Create(ctx context.Context, p *entity.Permission) error {
	query := `
		INSERT INTO permissions (name, api_path, method, module, created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		p.Name, p.APIPath, p.Method, p.Module, p.CreatedAt, p.UpdatedAt,
		nullString(p.CreatedBy), nullString(p.UpdatedBy),
	).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert permission: %w", err)
	}
	return nil
}

// Update modifica la permission.
func (r *PermissionRepo) Update(ctx context.Context, p *entity.Permission) error {
	query := `
		UPDATE permissions SET name = $2, api_path = $3, method = $4, module = $5, updated_at = $6, updated_by = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, p.Name, p.APIPath, p.Method, p.Module, p.UpdatedAt, nullString(p.UpdatedBy))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra la permission; role_permissions la suelta por ON DELETE CASCADE.
func (r *PermissionRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM permissions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	return nil
}

// GetByID obtiene una permission por ID.
func (r *PermissionRepo) GetByID(ctx context.Context, id int64) (*entity.Permission, error) {
	p, err := scanPermission(r.q.QueryRow(ctx, `SELECT `+permissionColumns+` FROM permissions p WHERE p.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get permission: %w", err)
	}
	return p, nil
}

// FindByIDs devuelve las permissions existentes entre ids; las desconocidas se omiten.
func (r *PermissionRepo) FindByIDs(ctx context.Context, ids []int64) ([]*entity.Permission, error) {
	if len(ids) == 0 {
		return []*entity.Permission{}, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+permissionColumns+` FROM permissions p WHERE p.id = ANY($1) ORDER BY p.id`, ids)
	if err != nil {
		return nil, fmt.Errorf("find permissions: %w", err)
	}
	return collectPermissions(rows)
}

// ExistsByModuleAndPathAndMethod indica si la tupla ya está en el catálogo.
func (r *PermissionRepo) ExistsByModuleAndPathAndMethod(ctx context.Context, module, apiPath, method string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM permissions WHERE module = $1 AND api_path = $2 AND method = $3)`,
		module, apiPath, method,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists permission: %w", err)
	}
	return exists, nil
}

// List pagina el catálogo completo.
func (r *PermissionRepo) List(ctx context.Context, limit, offset int) ([]*entity.Permission, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+permissionColumns+` FROM permissions p ORDER BY p.id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return collectPermissions(rows)
}

// ListByRole pagina las permissions de un rol.
func (r *PermissionRepo) ListByRole(ctx context.Context, roleID int64, limit, offset int) ([]*entity.Permission, error) {
	query := `
		SELECT ` + permissionColumns + `
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1
		ORDER BY p.id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, roleID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list permissions by role: %w", err)
	}
	return collectPermissions(rows)
}

// Count total de permissions del catálogo.
func (r *PermissionRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM permissions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count permissions: %w", err)
	}
	return n, nil
}

// CountByRole permissions asociadas al rol.
func (r *PermissionRepo) CountByRole(ctx context.Context, roleID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM role_permissions WHERE role_id = $1`, roleID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count permissions by role: %w", err)
	}
	return n, nil
}
