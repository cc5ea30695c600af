package entity

import "time"

// Estados de una solicitud de registro de empresa.
const (
	RegistrationPending  = "PENDING"
	RegistrationApproved = "APPROVED"
	RegistrationRejected = "REJECTED"
)

// CompanyRegistration solicitud de un usuario sin rol para dar de alta su empresa.
type CompanyRegistration struct {
	ID                   int64
	UserID               int64
	CompanyName          string
	Description          string
	Address              string
	Logo                 string
	FacebookLink         string
	GithubLink           string
	VerificationDocument string
	RejectionReason      string
	Status               string // PENDING, APPROVED, REJECTED
	CreatedAt            time.Time
	UpdatedAt            time.Time
	CreatedBy            string
	UpdatedBy            string
}

// IsPending indica si la solicitud aún no ha sido resuelta.
func (r *CompanyRegistration) IsPending() bool {
	return r.Status == RegistrationPending
}
