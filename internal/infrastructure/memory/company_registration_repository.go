package memory

import (
	"context"

	"github.com/jhoicas/jobhunter-api/internal/domain"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/domain/repository"
)

var _ repository.CompanyRegistrationRepository = (*CompanyRegistrationRepo)(nil)

// CompanyRegistrationRepo solicitudes de registro en memoria.
type CompanyRegistrationRepo struct {
	s *Store
}

// NewCompanyRegistrationRepository construye el repositorio sobre el store.
func NewCompanyRegistrationRepository(s *Store) *CompanyRegistrationRepo {
	return &CompanyRegistrationRepo{s: s}
}

// Create persiste una solicitud.
func (r *CompanyRegistrationRepo) Create(_ context.Context, reg *entity.CompanyRegistration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reg.ID = r.s.nextID()
	cp := *reg
	r.s.registrations[reg.ID] = &cp
	return nil
}

// GetByID obtiene una solicitud; (nil, nil) si no existe.
func (r *CompanyRegistrationRepo) GetByID(_ context.Context, id int64) (*entity.CompanyRegistration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	reg, ok := r.s.registrations[id]
	if !ok {
		return nil, nil
	}
	cp := *reg
	return &cp, nil
}

// Update reemplaza la solicitud.
func (r *CompanyRegistrationRepo) Update(_ context.Context, reg *entity.CompanyRegistration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.registrations[reg.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *reg
	r.s.registrations[reg.ID] = &cp
	return nil
}

// Delete elimina la solicitud.
func (r *CompanyRegistrationRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.registrations, id)
	return nil
}

// List lista todas las solicitudes ordenadas por id.
func (r *CompanyRegistrationRepo) List(_ context.Context, limit, offset int) ([]*entity.CompanyRegistration, error) {
	return r.filter(func(*entity.CompanyRegistration) bool { return true }, limit, offset), nil
}

// ListByUser lista las solicitudes de un usuario.
func (r *CompanyRegistrationRepo) ListByUser(_ context.Context, userID int64, limit, offset int) ([]*entity.CompanyRegistration, error) {
	return r.filter(func(reg *entity.CompanyRegistration) bool { return reg.UserID == userID }, limit, offset), nil
}

func (r *CompanyRegistrationRepo) filter(match func(*entity.CompanyRegistration) bool, limit, offset int) []*entity.CompanyRegistration {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []*entity.CompanyRegistration
	for _, id := range sortedKeys(r.s.registrations) {
		if reg := r.s.registrations[id]; match(reg) {
			cp := *reg
			all = append(all, &cp)
		}
	}
	return paginate(all, limit, offset)
}
