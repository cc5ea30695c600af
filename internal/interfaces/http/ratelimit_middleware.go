package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jobhunter-api/internal/application/dto"
)

// rateLimiter lo implementan ratelimit.Memory y ratelimit.Redis.
type rateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit limita por IP del cliente. Si el backend falla, la petición pasa.
func RateLimit(limiter rateLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok, err := limiter.Allow(c.UserContext(), c.IP())
		if err != nil {
			requestLogger(c).Warn().Err(err).Msg("rate limit no disponible")
			return c.Next()
		}
		if !ok {
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "TOO_MANY_REQUESTS",
				Message: "demasiadas peticiones, intente más tarde",
			})
		}
		return c.Next()
	}
}
