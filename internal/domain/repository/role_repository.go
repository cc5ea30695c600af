package repository

import (
	"context"

	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
)

// RoleRepository puerto de persistencia de roles y su relación con permissions.
type RoleRepository interface {
	// Create persiste el rol y su conjunto de permissions (por id).
	Create(ctx context.Context, role *entity.Role) error
	// Update reemplaza nombre, descripción, estado y el conjunto de permissions.
	Update(ctx context.Context, role *entity.Role) error
	Delete(ctx context.Context, id int64) error
	// GetByID carga el rol con sus permissions; (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Role, error)
	GetByName(ctx context.Context, name string) (*entity.Role, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Role, error)
	// CountPermissions cuenta las permissions del rol (0 si el rol no existe).
	CountPermissions(ctx context.Context, roleID int64) (int, error)
	// HasPermission indica si el rol tiene una permission con (apiPath, method) exactos.
	HasPermission(ctx context.Context, roleID int64, apiPath, method string) (bool, error)
}
