package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jobhunter-api/internal/application/access"
	"github.com/jhoicas/jobhunter-api/internal/application/dto"
	"github.com/jhoicas/jobhunter-api/internal/domain"
)

// accessDecider es el contrato mínimo del guard. Lo implementa *access.Engine.
type accessDecider interface {
	Decide(ctx context.Context, req access.Request) error
}

// RequirePermission devuelve el guard de permisos. Se registra en cada ruta (no con Use)
// para que c.Route().Path sea la plantilla de la ruta y no la del grupo.
// Debe ir después de Authenticate.
//
// Comportamiento:
//   - 401 Unauthorized → sin principal en una ruta no excluida.
//   - 403 Forbidden → sin rol, rol inexistente o sin la permission (ruta, método).
//   - 503 Service Unavailable → fallo al consultar el catálogo; se rechaza igualmente.
func RequirePermission(engine accessDecider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := engine.Decide(c.UserContext(), access.Request{
			Method:    c.Method(),
			Path:      c.Path(),
			Route:     c.Route().Path,
			Principal: GetPrincipal(c),
		})
		switch {
		case err == nil:
			return c.Next()
		case errors.Is(err, domain.ErrAuthenticationRequired):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "se requiere autenticación",
			})
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "no tiene permiso para " + c.Method() + " " + access.TemplateFromRoute(c.Route().Path),
			})
		default:
			requestLogger(c).Error().Err(err).Msg("fallo en la decisión de acceso")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "ACCESS_CHECK_FAILED",
				Message: "no se pudo verificar el permiso, intente más tarde",
			})
		}
	}
}
