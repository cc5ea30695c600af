package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jobhunter-api/internal/application/dto"
	"github.com/jhoicas/jobhunter-api/internal/application/rbac"
)

func actor(c *fiber.Ctx) string {
	if p := GetPrincipal(c); p != nil {
		return p.Email
	}
	return ""
}

// PermissionHandler CRUD del catálogo de permissions.
type PermissionHandler struct {
	uc *rbac.PermissionUseCase
}

// NewPermissionHandler construye el handler.
func NewPermissionHandler(uc *rbac.PermissionUseCase) *PermissionHandler {
	return &PermissionHandler{uc: uc}
}

// Create godoc
// @Summary      Crear permission
// @Tags         permissions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePermissionRequest  true  "Permission"
// @Success      201   {object}  dto.PermissionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/permissions [post]
func (h *PermissionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePermissionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar permission
// @Tags         permissions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdatePermissionRequest  true  "Permission con id"
// @Success      200   {object}  dto.PermissionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/permissions [put]
func (h *PermissionHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePermissionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), in, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar permission
// @Tags         permissions
// @Security     BearerAuth
// @Param        id   path  int  true  "ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/permissions/{id} [delete]
func (h *PermissionHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener permission
// @Tags         permissions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.PermissionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/permissions/{id} [get]
func (h *PermissionHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar permissions
// @Description  Un rol con acceso total ve el catálogo completo; el resto solo las de su rol.
// @Tags         permissions
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.PermissionListResponse
// @Router       /api/v1/permissions [get]
func (h *PermissionHandler) List(c *fiber.Ctx) error {
	var roleID *int64
	if p := GetPrincipal(c); p != nil {
		roleID = p.RoleID
	}
	out, err := h.uc.List(c.UserContext(), roleID, pageQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RoleHandler CRUD de roles.
type RoleHandler struct {
	uc *rbac.RoleUseCase
}

// NewRoleHandler construye el handler.
func NewRoleHandler(uc *rbac.RoleUseCase) *RoleHandler {
	return &RoleHandler{uc: uc}
}

// Create godoc
// @Summary      Crear rol
// @Tags         roles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRoleRequest  true  "Rol"
// @Success      201   {object}  dto.RoleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/roles [post]
func (h *RoleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRoleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar rol
// @Tags         roles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateRoleRequest  true  "Rol con id"
// @Success      200   {object}  dto.RoleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/roles [put]
func (h *RoleHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRoleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), in, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AssignPermissions godoc
// @Summary      Reemplazar permissions del rol
// @Tags         roles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  int                           true  "ID del rol"
// @Param        body  body  dto.AssignPermissionsRequest  true  "ids"
// @Success      200   {object}  dto.RoleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/roles/{id}/permissions [put]
func (h *RoleHandler) AssignPermissions(c *fiber.Ctx) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	var in dto.AssignPermissionsRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.AssignPermissions(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar rol
// @Tags         roles
// @Security     BearerAuth
// @Param        id   path  int  true  "ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/roles/{id} [delete]
func (h *RoleHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener rol
// @Tags         roles
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.RoleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/roles/{id} [get]
func (h *RoleHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar roles
// @Tags         roles
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.RoleListResponse
// @Router       /api/v1/roles [get]
func (h *RoleHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), pageQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
