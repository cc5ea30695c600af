package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/jobhunter-api/internal/application/access"
	"github.com/jhoicas/jobhunter-api/internal/application/dto"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	apphttp "github.com/jhoicas/jobhunter-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Exclusiones y autenticación
// ──────────────────────────────────────────────────────────────────────────────

func TestGuard_RutaExcluidaSinToken(t *testing.T) {
	s := newServer(t)

	resp := s.do(t, call{method: http.MethodGet, path: "/health"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// GET /api/v1/companies/** está en la lista blanca: llega al handler y responde 404.
	resp = s.do(t, call{method: http.MethodGet, path: "/api/v1/companies/99"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGuard_HeadSobreRutaGetPublica(t *testing.T) {
	s := newServer(t)
	resp := s.do(t, call{method: http.MethodHead, path: "/api/v1/companies/99"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// HEAD sobre una ruta GET protegida sigue pidiendo token.
	resp = s.do(t, call{method: http.MethodHead, path: "/api/v1/roles"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGuard_SinTokenEnRutaProtegida401(t *testing.T) {
	s := newServer(t)
	resp := s.do(t, call{method: http.MethodGet, path: "/api/v1/permissions"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, resp))
}

func TestAuthenticate_TokenInvalido401(t *testing.T) {
	s := newServer(t)
	resp := s.do(t, call{method: http.MethodGet, path: "/api/v1/roles", auth: "Bearer no-es-un-jwt"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, resp))

	resp = s.do(t, call{method: http.MethodGet, path: "/api/v1/roles", auth: "Basic abc"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticate_UsuarioDeshabilitado401(t *testing.T) {
	s := newServer(t)
	u := s.addUser(t, "off@gmail.com", entity.RoleSuperAdmin)
	tok := s.bearer(t, u)
	u.Enabled = false
	require.NoError(t, s.users.Update(context.Background(), u))

	resp := s.do(t, call{method: http.MethodGet, path: "/api/v1/roles", auth: tok})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Decisión por rol
// ──────────────────────────────────────────────────────────────────────────────

func TestGuard_SuperAdminAccesoTotal(t *testing.T) {
	s := newServer(t)
	admin, err := s.users.GetByEmail(context.Background(), adminEmail)
	require.NoError(t, err)
	tok := s.bearer(t, admin)

	resp := s.do(t, call{method: http.MethodGet, path: "/api/v1/permissions?limit=100", auth: tok})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.PermissionListResponse](t, resp)
	assert.Len(t, list.Items, 53)

	// PUT /roles/{id}/permissions no está en el catálogo; solo pasa por acceso total.
	resp = s.do(t, call{method: http.MethodPut, path: "/api/v1/roles/999/permissions", auth: tok,
		body: dto.AssignPermissionsRequest{PermissionIDs: []int64{1}}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGuard_ManagerSinPermissionDelModulo403(t *testing.T) {
	s := newServer(t)
	tok := s.bearer(t, s.addUser(t, "manager@gmail.com", entity.RoleManager))

	resp := s.do(t, call{method: http.MethodGet, path: "/api/v1/roles", auth: tok})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, resp))

	// Con rol asignado la familia de registro ya no es implícita y MANAGER no la tiene.
	resp = s.do(t, call{method: http.MethodPost, path: "/api/v1/company-registrations", auth: tok,
		body: dto.CreateCompanyRegistrationRequest{CompanyName: "Acme"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGuard_SinRolSoloRegistroDeEmpresas(t *testing.T) {
	s := newServer(t)
	tok := s.bearer(t, s.addUser(t, "pending@gmail.com", ""))

	resp := s.do(t, call{method: http.MethodPost, path: "/api/v1/company-registrations", auth: tok,
		body: dto.CreateCompanyRegistrationRequest{CompanyName: "Acme"}})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = s.do(t, call{method: http.MethodGet, path: "/api/v1/company-registrations", auth: tok})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[dto.CompanyRegistrationListResponse](t, resp).Items, 1)

	resp = s.do(t, call{method: http.MethodGet, path: "/api/v1/permissions", auth: tok})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

type failingDecider struct{}

func (failingDecider) Decide(context.Context, access.Request) error {
	return errors.New("conexión rechazada")
}

func TestRequirePermission_FalloDelCatalogo503(t *testing.T) {
	app := fiber.New()
	app.Get("/api/v1/roles", apphttp.RequirePermission(failingDecider{}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/roles", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

type captureDecider struct{ got access.Request }

func (d *captureDecider) Decide(_ context.Context, req access.Request) error {
	d.got = req
	return nil
}

func TestRequirePermission_PasaPlantillaDeRuta(t *testing.T) {
	d := &captureDecider{}
	app := fiber.New()
	app.Delete("/api/v1/users/:id", apphttp.RequirePermission(d), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/users/7", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "/api/v1/users/7", d.got.Path)
	assert.Equal(t, "/api/v1/users/:id", d.got.Route)
	assert.Equal(t, http.MethodDelete, d.got.Method)
	assert.Nil(t, d.got.Principal)
}
