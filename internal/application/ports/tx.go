package ports

import (
	"context"

	"github.com/jhoicas/jobhunter-api/internal/domain/repository"
)

// RegistrationTxRunner ejecuta fn dentro de una transacción con repos atados a ella.
// La aprobación de un registro crea la empresa y actualiza usuario y solicitud de forma atómica.
type RegistrationTxRunner interface {
	RunRegistration(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		userRepo repository.UserRepository,
		registrationRepo repository.CompanyRegistrationRepository,
	) error) error
}
