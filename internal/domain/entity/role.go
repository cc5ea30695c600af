package entity

import "time"

// Role conjunto con nombre de permissions; su alcance efectivo es la unión de ellas.
type Role struct {
	ID          int64
	Name        string
	Description string
	Active      bool
	Permissions []*Permission
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string
	UpdatedBy   string
}

// Nombres de los roles sembrados al arrancar.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleManager    = "MANAGER"
)

// PermissionIDs devuelve los ids de las permissions del rol.
func (r *Role) PermissionIDs() []int64 {
	ids := make([]int64, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		ids = append(ids, p.ID)
	}
	return ids
}
