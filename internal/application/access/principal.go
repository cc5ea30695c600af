// Package access decide, petición a petición, si una identidad puede invocar una ruta.
package access

import (
	"context"
	"fmt"

	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/domain/repository"
)

// Principal identidad autenticada de la petición con su estado actual.
// Se pasa explícitamente; no existe un contexto de seguridad global.
type Principal struct {
	UserID    int64
	Email     string
	RoleID    *int64
	CompanyID *int64
}

// HasRole indica si el principal tiene un rol con id válido.
func (p *Principal) HasRole() bool {
	return p != nil && p.RoleID != nil && *p.RoleID > 0
}

// PrincipalFromUser construye el principal a partir del usuario persistido.
func PrincipalFromUser(u *entity.User) *Principal {
	if u == nil {
		return nil
	}
	return &Principal{UserID: u.ID, Email: u.Email, RoleID: u.RoleID, CompanyID: u.CompanyID}
}

// PrincipalResolver convierte la identidad del token en el usuario actual.
// El rol se lee siempre de la persistencia: un rol recién asignado surte efecto
// en la siguiente petición sin reemitir el token.
type PrincipalResolver struct {
	users repository.UserRepository
}

// NewPrincipalResolver construye el resolver.
func NewPrincipalResolver(users repository.UserRepository) *PrincipalResolver {
	return &PrincipalResolver{users: users}
}

// Resolve devuelve (nil, nil) si el usuario ya no existe o fue deshabilitado.
func (r *PrincipalResolver) Resolve(ctx context.Context, userID int64) (*Principal, error) {
	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolver principal %d: %w", userID, err)
	}
	if u == nil || !u.Enabled {
		return nil, nil
	}
	return PrincipalFromUser(u), nil
}
