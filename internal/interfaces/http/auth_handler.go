package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jobhunter-api/internal/application/auth"
	"github.com/jhoicas/jobhunter-api/internal/application/dto"
	"github.com/jhoicas/jobhunter-api/internal/domain"
)

// AuthHandler maneja registro, verificación, login y la sesión por cookie.
type AuthHandler struct {
	uc     *auth.AuthUseCase
	cookie CookieSettings
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, cookie CookieSettings) *AuthHandler {
	return &AuthHandler{uc: uc, cookie: cookie}
}

// Register godoc
// @Summary      Registrar usuario
// @Description  Crea la cuenta deshabilitada y envía el correo de verificación.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, name"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	user, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Verify godoc
// @Summary      Verificar email
// @Tags         auth
// @Produce      json
// @Param        token  query  string  true  "Token de verificación"
// @Success      200    {object}  map[string]string
// @Failure      401    {object}  dto.ErrorResponse
// @Router       /api/v1/auth/verify [get]
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	if err := h.uc.Verify(c.UserContext(), c.Query("token")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "cuenta verificada"})
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Devuelve el access token en el cuerpo y el refresh token en la cookie refresh_token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	session, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	setRefreshCookie(c, h.cookie, session.RefreshToken)
	return c.JSON(session.Response)
}

// Refresh godoc
// @Summary      Renovar tokens
// @Description  Rota el refresh token de la cookie; el anterior deja de servir.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.LoginResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/v1/auth/refresh [get]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := refreshFromCookie(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_REFRESH_TOKEN", Message: "no hay refresh token en la cookie"})
	}
	session, err := h.uc.Refresh(c.UserContext(), token)
	if err != nil {
		return respondError(c, err)
	}
	setRefreshCookie(c, h.cookie, session.RefreshToken)
	return c.JSON(session.Response)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	if p == nil {
		return respondError(c, domain.ErrAuthenticationRequired)
	}
	if err := h.uc.Logout(c.UserContext(), p.UserID); err != nil {
		return respondError(c, err)
	}
	clearRefreshCookie(c, h.cookie)
	return c.JSON(fiber.Map{"message": "sesión cerrada"})
}

// Account godoc
// @Summary      Cuenta actual
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.AccountResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/v1/auth/account [get]
func (h *AuthHandler) Account(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	if p == nil {
		return respondError(c, domain.ErrAuthenticationRequired)
	}
	out, err := h.uc.Account(c.UserContext(), p.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ChangePassword godoc
// @Summary      Cambiar contraseña
// @Tags         auth
// @Security     BearerAuth
// @Accept       json
// @Param        body  body  dto.ChangePasswordRequest  true  "old_password, new_password"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/v1/auth/change-password [put]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	if p == nil {
		return respondError(c, domain.ErrAuthenticationRequired)
	}
	var in dto.ChangePasswordRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	if err := h.uc.ChangePassword(c.UserContext(), p.UserID, in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
