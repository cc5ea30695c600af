package memory

import (
	"context"

	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo empresas en memoria.
type CompanyRepo struct {
	s *Store
}

// NewCompanyRepository construye el repositorio sobre el store.
func NewCompanyRepository(s *Store) *CompanyRepo {
	return &CompanyRepo{s: s}
}

// Create persiste una empresa.
func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.nextID()
	cp := *c
	r.s.companies[c.ID] = &cp
	return nil
}

// GetByID obtiene una empresa; (nil, nil) si no existe.
func (r *CompanyRepo) GetByID(_ context.Context, id int64) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}
