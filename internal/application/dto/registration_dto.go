package dto

import "time"

// CreateCompanyRegistrationRequest solicitud de alta de empresa.
type CreateCompanyRegistrationRequest struct {
	CompanyName          string `json:"company_name" validate:"required,min=1,max=200"`
	Description          string `json:"description" validate:"omitempty,max=2000"`
	Address              string `json:"address" validate:"omitempty,max=255"`
	Logo                 string `json:"logo" validate:"omitempty,max=255"`
	FacebookLink         string `json:"facebook_link" validate:"omitempty,url"`
	GithubLink           string `json:"github_link" validate:"omitempty,url"`
	VerificationDocument string `json:"verification_document" validate:"omitempty,max=255"`
}

// UpdateRegistrationStatusRequest aprobación o rechazo de una solicitud.
type UpdateRegistrationStatusRequest struct {
	Status          string `json:"status" validate:"required"`
	RejectionReason string `json:"rejection_reason" validate:"omitempty,max=1000"`
}

// CompanyRegistrationResponse salida de una solicitud.
type CompanyRegistrationResponse struct {
	ID                   int64     `json:"id"`
	UserID               int64     `json:"user_id"`
	CompanyName          string    `json:"company_name"`
	Description          string    `json:"description"`
	Address              string    `json:"address"`
	Logo                 string    `json:"logo"`
	FacebookLink         string    `json:"facebook_link"`
	GithubLink           string    `json:"github_link"`
	VerificationDocument string    `json:"verification_document"`
	RejectionReason      string    `json:"rejection_reason,omitempty"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// CompanyRegistrationListResponse lista paginada de solicitudes.
type CompanyRegistrationListResponse struct {
	Items []CompanyRegistrationResponse `json:"items"`
	Page  PageResponse                  `json:"page"`
}
