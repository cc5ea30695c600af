package entity

import "time"

// User representa una cuenta del sistema. Sin Role queda en estado pendiente:
// solo puede gestionar su solicitud de registro de empresa.
type User struct {
	ID                int64
	Email             string
	PasswordHash      string // bcrypt hash, nunca plano en dominio después de persistir
	Name              string
	Age               int
	Gender            string
	Address           string
	Enabled           bool   // false hasta verificar el email
	RoleID            *int64 // nil = sin rol
	CompanyID         *int64
	RefreshToken      *string // único refresh token vigente; nil = sesión revocada
	VerificationToken *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	CreatedBy         string
	UpdatedBy         string
}

// HasRole indica si el usuario tiene un rol asignado con id válido.
func (u *User) HasRole() bool {
	return u != nil && u.RoleID != nil && *u.RoleID > 0
}
