package memory

import (
	"context"

	"github.com/jhoicas/jobhunter-api/internal/application/ports"
	"github.com/jhoicas/jobhunter-api/internal/domain/repository"
)

var _ ports.RegistrationTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta fn con los repositorios del store. No hay rollback: un error
// a mitad de fn deja aplicadas las escrituras previas.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// RunRegistration ejecuta fn con los repos de empresa, usuario y solicitudes.
func (r *TxRunner) RunRegistration(_ context.Context, fn func(
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
	registrationRepo repository.CompanyRegistrationRepository,
) error) error {
	return fn(NewCompanyRepository(r.s), NewUserRepository(r.s), NewCompanyRegistrationRepository(r.s))
}
