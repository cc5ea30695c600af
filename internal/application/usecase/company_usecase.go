package usecase

import (
	"context"

	"github.com/jhoicas/jobhunter-api/internal/application/access"
	"github.com/jhoicas/jobhunter-api/internal/application/dto"
	"github.com/jhoicas/jobhunter-api/internal/domain"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/domain/repository"
)

// CompanyUseCase lectura de empresas. Las empresas se crean al aprobar un registro.
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// GetByID obtiene una empresa por ID; domain.ErrNotFound si no existe.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id int64) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return entityToCompanyResponse(company), nil
}

// Mine devuelve la empresa asignada al llamador.
func (uc *CompanyUseCase) Mine(ctx context.Context, caller *access.Principal) (*dto.CompanyResponse, error) {
	if caller == nil {
		return nil, domain.ErrAuthenticationRequired
	}
	if caller.CompanyID == nil {
		return nil, domain.ErrNotFound
	}
	return uc.GetByID(ctx, *caller.CompanyID)
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Address:     c.Address,
		Logo:        c.Logo,
		CreatedAt:   c.CreatedAt,
	}
}
