package dto

import "time"

// CreatePermissionRequest entrada para crear una permission.
type CreatePermissionRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	APIPath string `json:"api_path" validate:"required,startswith=/"`
	Method  string `json:"method" validate:"required,oneof=GET POST PUT PATCH DELETE"`
	Module  string `json:"module" validate:"required,min=1,max=100"`
}

// UpdatePermissionRequest entrada para actualizar una permission.
type UpdatePermissionRequest struct {
	ID      int64  `json:"id" validate:"required,gt=0"`
	Name    string `json:"name" validate:"required,min=1,max=200"`
	APIPath string `json:"api_path" validate:"required,startswith=/"`
	Method  string `json:"method" validate:"required,oneof=GET POST PUT PATCH DELETE"`
	Module  string `json:"module" validate:"required,min=1,max=100"`
}

// PermissionResponse salida de una permission.
type PermissionResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	APIPath   string    `json:"api_path"`
	Method    string    `json:"method"`
	Module    string    `json:"module"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PermissionListResponse lista paginada de permissions.
type PermissionListResponse struct {
	Items []PermissionResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// CreateRoleRequest entrada para crear un rol. Los ids de permission desconocidos se ignoran.
type CreateRoleRequest struct {
	Name          string  `json:"name" validate:"required,min=1,max=100"`
	Description   string  `json:"description" validate:"omitempty,max=255"`
	Active        *bool   `json:"active"`
	PermissionIDs []int64 `json:"permission_ids"`
}

// UpdateRoleRequest entrada para actualizar un rol.
type UpdateRoleRequest struct {
	ID            int64   `json:"id" validate:"required,gt=0"`
	Name          string  `json:"name" validate:"required,min=1,max=100"`
	Description   string  `json:"description" validate:"omitempty,max=255"`
	Active        *bool   `json:"active"`
	PermissionIDs []int64 `json:"permission_ids"`
}

// AssignPermissionsRequest reemplaza el conjunto de permissions de un rol.
type AssignPermissionsRequest struct {
	PermissionIDs []int64 `json:"permission_ids"`
}

// RoleResponse salida de un rol con sus permissions.
type RoleResponse struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Active      bool                 `json:"active"`
	FullAccess  bool                 `json:"full_access"`
	Permissions []PermissionResponse `json:"permissions"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// RoleListResponse lista paginada de roles.
type RoleListResponse struct {
	Items []RoleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
