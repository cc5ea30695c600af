package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jobhunter-api/internal/application/dto"
	"github.com/jhoicas/jobhunter-api/internal/application/registration"
)

// RegistrationHandler solicitudes de registro de empresa.
type RegistrationHandler struct {
	uc *registration.UseCase
}

// NewRegistrationHandler construye el handler.
func NewRegistrationHandler(uc *registration.UseCase) *RegistrationHandler {
	return &RegistrationHandler{uc: uc}
}

// Create godoc
// @Summary      Solicitar registro de empresa
// @Tags         company-registrations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRegistrationRequest  true  "Datos de la empresa"
// @Success      201   {object}  dto.CompanyRegistrationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/company-registrations [post]
func (h *RegistrationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRegistrationRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar solicitudes
// @Tags         company-registrations
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.CompanyRegistrationListResponse
// @Router       /api/v1/company-registrations [get]
func (h *RegistrationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetPrincipal(c), pageQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener solicitud
// @Tags         company-registrations
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.CompanyRegistrationResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/company-registrations/{id} [get]
func (h *RegistrationHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	out, err := h.uc.GetByID(c.UserContext(), GetPrincipal(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Aprobar o rechazar solicitud
// @Tags         company-registrations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  int                                  true  "ID"
// @Param        body  body  dto.UpdateRegistrationStatusRequest  true  "status, rejection_reason"
// @Success      200   {object}  dto.CompanyRegistrationResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/company-registrations/{id}/status [put]
func (h *RegistrationHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	var in dto.UpdateRegistrationStatusRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), GetPrincipal(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar solicitud
// @Tags         company-registrations
// @Security     BearerAuth
// @Param        id   path  int  true  "ID"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/v1/company-registrations/{id} [delete]
func (h *RegistrationHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), GetPrincipal(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
