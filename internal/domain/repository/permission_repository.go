package repository

import (
	"context"

	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
)

// PermissionRepository puerto del catálogo de permissions.
type PermissionRepository interface {
	Create(ctx context.Context, p *entity.Permission) error
	Update(ctx context.Context, p *entity.Permission) error
	// Delete desvincula la permission de todos los roles antes de borrarla.
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*entity.Permission, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*entity.Permission, error)
	ExistsByModuleAndPathAndMethod(ctx context.Context, module, apiPath, method string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Permission, error)
	ListByRole(ctx context.Context, roleID int64, limit, offset int) ([]*entity.Permission, error)
	Count(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, roleID int64) (int, error)
}
