package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jobhunter-api/internal/application/access"
	"github.com/jhoicas/jobhunter-api/internal/application/dto"
	"github.com/jhoicas/jobhunter-api/pkg/jwt"
)

// LocalPrincipal clave de Locals donde queda el *access.Principal de la petición.
const LocalPrincipal = "principal"

// tokenParser lo implementa *auth.TokenService.
type tokenParser interface {
	ParseAccessToken(token string) (*jwt.Claims, error)
}

// principalResolver lo implementa *access.PrincipalResolver.
type principalResolver interface {
	Resolve(ctx context.Context, userID int64) (*access.Principal, error)
}

// Authenticate lee el Bearer Token si existe y deja el principal en c.Locals.
// Sin cabecera la petición sigue anónima; decidir si eso basta es cosa del guard.
// Una cabecera presente pero inválida se rechaza con 401 en cualquier ruta.
func Authenticate(tokens tokenParser, resolver principalResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Next()
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		claims, err := tokens.ParseAccessToken(strings.TrimSpace(parts[1]))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		principal, err := resolver.Resolve(c.UserContext(), claims.UserID)
		if err != nil {
			return respondError(c, err)
		}
		if principal == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "la cuenta del token no está activa"})
		}
		c.Locals(LocalPrincipal, principal)
		return c.Next()
	}
}

// GetPrincipal devuelve el principal autenticado o nil.
func GetPrincipal(c *fiber.Ctx) *access.Principal {
	p, _ := c.Locals(LocalPrincipal).(*access.Principal)
	return p
}

// GetUserID devuelve el id del principal o 0.
func GetUserID(c *fiber.Ctx) int64 {
	if p := GetPrincipal(c); p != nil {
		return p.UserID
	}
	return 0
}
