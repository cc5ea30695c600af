package http

import (
	nethttp "net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	refreshCookieName = "refresh_token"
	// refreshSentinel valor que algunos clientes envían como cookie vacía.
	refreshSentinel = "abc"
)

// CookieSettings atributos de la cookie de refresh.
type CookieSettings struct {
	Secure bool
	MaxAge time.Duration
}

func setRefreshCookie(c *fiber.Ctx, s CookieSettings, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.MaxAge / time.Second),
		Secure:   s.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// clearRefreshCookie reemite la cookie vacía con Max-Age=0. fasthttp no emite
// Max-Age cuando es cero, así que la cabecera se arma con net/http.
func clearRefreshCookie(c *fiber.Ctx, s CookieSettings) {
	cookie := &nethttp.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: nethttp.SameSiteLaxMode,
	}
	c.Append(fiber.HeaderSetCookie, cookie.String())
}

// refreshFromCookie devuelve el refresh token o "" si falta o es el valor centinela.
func refreshFromCookie(c *fiber.Ctx) string {
	v := c.Cookies(refreshCookieName)
	if v == refreshSentinel {
		return ""
	}
	return v
}
