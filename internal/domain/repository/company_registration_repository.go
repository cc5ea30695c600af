package repository

import (
	"context"

	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
)

// CompanyRegistrationRepository puerto de persistencia de solicitudes de registro.
type CompanyRegistrationRepository interface {
	Create(ctx context.Context, r *entity.CompanyRegistration) error
	GetByID(ctx context.Context, id int64) (*entity.CompanyRegistration, error)
	Update(ctx context.Context, r *entity.CompanyRegistration) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*entity.CompanyRegistration, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.CompanyRegistration, error)
}
