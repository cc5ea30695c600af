package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/jobhunter-api/internal/domain"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// TxQuerier Querier que además abre transacciones (pool) o savepoints (tx).
type TxQuerier interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RoleRepo roles y la tabla role_permissions.
type RoleRepo struct {
	q TxQuerier
}

// NewRoleRepository construye el adaptador de roles.
func NewRoleRepository(q TxQuerier) *RoleRepo {
	return &RoleRepo{q: q}
}

const roleColumns = `id, name, description, active, created_at, updated_at, created_by, updated_by`

func scanRole(row rowScanner) (*entity.Role, error) {
	var (
		role                         entity.Role
		description, createdBy, upBy *string
	)
	if err := row.Scan(&role.ID, &role.Name, &description, &role.Active,
		&role.CreatedAt, &role.UpdatedAt, &createdBy, &upBy); err != nil {
		return nil, err
	}
	role.Description = derefString(description)
	role.CreatedBy = derefString(createdBy)
	role.UpdatedBy = derefString(upBy)
	role.Permissions = []*entity.Permission{}
	return &role, nil
}

// replacePermissions deja en role_permissions exactamente los ids dados que existan.
func replacePermissions(ctx context.Context, q Querier, roleID int64, ids []int64) error {
	if _, err := q.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
		return fmt.Errorf("clear role permissions: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	_, err := q.Exec(ctx, `
		INSERT INTO role_permissions (role_id, permission_id)
		SELECT $1, id FROM permissions WHERE id = ANY($2)
		ON CONFLICT DO NOTHING`, roleID, ids)
	if err != nil {
		return fmt.Errorf("insert role permissions: %w", err)
	}
	return nil
}

// Create persiste el rol y su conjunto de permissions en una transacción.
func (r *RoleRepo) Create(ctx context.Context, role *entity.Role) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO roles (name, description, active, created_at, updated_at, created_by, updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			role.Name, nullString(role.Description), role.Active, role.CreatedAt, role.UpdatedAt,
			nullString(role.CreatedBy), nullString(role.UpdatedBy),
		).Scan(&role.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert role: %w", err)
		}
		return replacePermissions(ctx, tx, role.ID, role.PermissionIDs())
	})
}

// Update reemplaza los datos del rol y su conjunto de permissions.
func (r *RoleRepo) Update(ctx context.Context, role *entity.Role) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE roles SET name = $2, description = $3, active = $4, updated_at = $5, updated_by = $6
			WHERE id = $1`,
			role.ID, role.Name, nullString(role.Description), role.Active, role.UpdatedAt, nullString(role.UpdatedBy),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("update role: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return replacePermissions(ctx, tx, role.ID, role.PermissionIDs())
	})
}

// Delete borra el rol; los usuarios que lo tenían quedan sin rol (ON DELETE SET NULL).
func (r *RoleRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	return nil
}

// GetByID carga el rol con sus permissions.
func (r *RoleRepo) GetByID(ctx context.Context, id int64) (*entity.Role, error) {
	return r.findOne(ctx, "get role", `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id)
}

// GetByName carga el rol por nombre con sus permissions.
func (r *RoleRepo) GetByName(ctx context.Context, name string) (*entity.Role, error) {
	return r.findOne(ctx, "get role by name", `SELECT `+roleColumns+` FROM roles WHERE name = $1`, name)
}

func (r *RoleRepo) findOne(ctx context.Context, op, query string, arg any) (*entity.Role, error) {
	role, err := scanRole(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := r.attachPermissions(ctx, []*entity.Role{role}); err != nil {
		return nil, err
	}
	return role, nil
}

// attachPermissions carga en una sola consulta las permissions de todos los roles dados.
func (r *RoleRepo) attachPermissions(ctx context.Context, roles []*entity.Role) error {
	if len(roles) == 0 {
		return nil
	}
	byID := make(map[int64]*entity.Role, len(roles))
	ids := make([]int64, 0, len(roles))
	for _, role := range roles {
		byID[role.ID] = role
		ids = append(ids, role.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT rp.role_id, `+permissionColumns+`
		FROM role_permissions rp
		JOIN permissions p ON p.id = rp.permission_id
		WHERE rp.role_id = ANY($1)
		ORDER BY p.id`, ids)
	if err != nil {
		return fmt.Errorf("load role permissions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			roleID               int64
			p                    entity.Permission
			createdBy, updatedBy *string
		)
		if err := rows.Scan(&roleID, &p.ID, &p.Name, &p.APIPath, &p.Method, &p.Module,
			&p.CreatedAt, &p.UpdatedAt, &createdBy, &updatedBy); err != nil {
			return fmt.Errorf("scan role permission: %w", err)
		}
		p.CreatedBy = derefString(createdBy)
		p.UpdatedBy = derefString(updatedBy)
		byID[roleID].Permissions = append(byID[roleID].Permissions, &p)
	}
	return rows.Err()
}

// ExistsByName indica si el nombre de rol ya está tomado.
func (r *RoleRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM roles WHERE name = $1)`, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists role: %w", err)
	}
	return exists, nil
}

// List pagina los roles con sus permissions.
func (r *RoleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Role, error) {
	rows, err := r.q.Query(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	list := make([]*entity.Role, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan role: %w", err)
		}
		list = append(list, role)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachPermissions(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// CountPermissions cuenta las filas de role_permissions del rol.
func (r *RoleRepo) CountPermissions(ctx context.Context, roleID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM role_permissions WHERE role_id = $1`, roleID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count role permissions: %w", err)
	}
	return n, nil
}

// HasPermission busca una permission del rol con plantilla y método exactos.
func (r *RoleRepo) HasPermission(ctx context.Context, roleID int64, apiPath, method string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM role_permissions rp
			JOIN permissions p ON p.id = rp.permission_id
			WHERE rp.role_id = $1 AND p.api_path = $2 AND p.method = $3
		)`, roleID, apiPath, method).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("role has permission: %w", err)
	}
	return ok, nil
}
