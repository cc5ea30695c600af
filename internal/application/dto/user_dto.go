package dto

import "time"

// RegisterRequest entrada para registro (auth). La cuenta queda deshabilitada hasta verificar el email.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Age      int    `json:"age" validate:"omitempty,min=0,max=150"`
	Gender   string `json:"gender" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	Address  string `json:"address" validate:"omitempty,max=255"`
}

// UserResponse salida de un usuario (sin password ni tokens).
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Age       int       `json:"age,omitempty"`
	Gender    string    `json:"gender,omitempty"`
	Address   string    `json:"address,omitempty"`
	Enabled   bool      `json:"enabled"`
	RoleID    *int64    `json:"role_id"`
	CompanyID *int64    `json:"company_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginUser datos del usuario incluidos en la respuesta de login.
type LoginUser struct {
	ID    int64          `json:"id"`
	Email string         `json:"email"`
	Name  string         `json:"name"`
	Role  *RoleReference `json:"role"`
}

// RoleReference referencia compacta a un rol.
type RoleReference struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LoginResponse cuerpo de login/refresh. El refresh token viaja solo en la cookie.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	User        LoginUser `json:"user"`
}

// AccountResponse usuario autenticado actual con su rol y permisos.
type AccountResponse struct {
	User        LoginUser            `json:"user"`
	Permissions []PermissionResponse `json:"permissions"`
}

// ChangePasswordRequest entrada para cambio de contraseña del usuario autenticado.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// CreateUserRequest alta de usuario por un administrador. La cuenta nace habilitada.
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Age       int    `json:"age" validate:"omitempty,min=0,max=150"`
	Gender    string `json:"gender" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	Address   string `json:"address" validate:"omitempty,max=255"`
	RoleID    *int64 `json:"role_id"`
	CompanyID *int64 `json:"company_id"`
}

// UpdateUserRequest edición de un usuario; el email no cambia. RoleID/CompanyID nil los desasigna.
type UpdateUserRequest struct {
	ID        int64  `json:"id" validate:"required,gt=0"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Age       int    `json:"age" validate:"omitempty,min=0,max=150"`
	Gender    string `json:"gender" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	Address   string `json:"address" validate:"omitempty,max=255"`
	RoleID    *int64 `json:"role_id"`
	CompanyID *int64 `json:"company_id"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
