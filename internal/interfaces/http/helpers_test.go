package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/jobhunter-api/internal/application/access"
	"github.com/jhoicas/jobhunter-api/internal/application/auth"
	"github.com/jhoicas/jobhunter-api/internal/application/dto"
	"github.com/jhoicas/jobhunter-api/internal/application/rbac"
	"github.com/jhoicas/jobhunter-api/internal/application/registration"
	"github.com/jhoicas/jobhunter-api/internal/application/usecase"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/infrastructure/memory"
	"github.com/jhoicas/jobhunter-api/internal/infrastructure/ratelimit"
	apphttp "github.com/jhoicas/jobhunter-api/internal/interfaces/http"
	"github.com/jhoicas/jobhunter-api/pkg/config"
	"github.com/jhoicas/jobhunter-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testPassword  = "123456"
	adminEmail    = "admin@gmail.com"
)

type server struct {
	app    *fiber.App
	store  *memory.Store
	users  *memory.UserRepo
	roles  *memory.RoleRepo
	tokens *auth.TokenService
}

type serverOption func(*apphttp.RouterDeps)

func withLimiter(l *ratelimit.Memory) serverOption {
	return func(d *apphttp.RouterDeps) { d.AuthLimiter = l }
}

// newServer arma la API completa sobre el store en memoria, con el catálogo sembrado
// (SUPER_ADMIN con todo, MANAGER con USERS, COMPANIES y RESUMES) y el admin.
func newServer(t *testing.T, opts ...serverOption) *server {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	perms := memory.NewPermissionRepository(s)
	roles := memory.NewRoleRepository(s)
	users := memory.NewUserRepository(s)

	require.NoError(t, rbac.NewSeeder(perms, roles, users, logger.Nop()).
		Seed(ctx, rbac.AdminAccount{Email: adminEmail, Password: testPassword}))

	catalog := rbac.NewCatalog(perms, roles)
	tokens := auth.NewTokenService(users, auth.JWTConfig{
		Secret:     testJWTSecret,
		Issuer:     "jobhunter-test",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	})
	static, err := access.CompileExclusions(config.DefaultWhitelist)
	require.NoError(t, err)
	engine := access.NewEngine(static, access.MustCompilePattern("/api/v1/company-registrations/**"), catalog, nil)

	deps := apphttp.RouterDeps{
		AuthUC:         auth.NewAuthUseCase(users, roles, tokens, nil, "http://localhost/verify", logger.Nop(), nil),
		PermissionUC:   rbac.NewPermissionUseCase(perms, catalog),
		RoleUC:         rbac.NewRoleUseCase(roles, catalog),
		RegistrationUC: registration.NewUseCase(memory.NewCompanyRegistrationRepository(s), roles, catalog, memory.NewTxRunner(s), entity.RoleManager),
		CompanyUC:      usecase.NewCompanyUseCase(memory.NewCompanyRepository(s)),
		UserUC:         usecase.NewUserUseCase(users, roles, memory.NewCompanyRepository(s)),
		Tokens:         tokens,
		Resolver:       access.NewPrincipalResolver(users),
		Engine:         engine,
		Cookie:         apphttp.CookieSettings{Secure: true, MaxAge: time.Hour},
	}
	for _, opt := range opts {
		opt(&deps)
	}

	app := fiber.New()
	app.Use(apphttp.RequestLogger(logger.Nop()))
	apphttp.Router(app, deps)
	return &server{app: app, store: s, users: users, roles: roles, tokens: tokens}
}

// addUser crea un usuario habilitado con el rol indicado ("" = sin rol).
func (s *server) addUser(t *testing.T, email, roleName string) *entity.User {
	t.Helper()
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{Email: email, Name: email, PasswordHash: string(hash), Enabled: true, CreatedAt: time.Now()}
	if roleName != "" {
		role, err := s.roles.GetByName(ctx, roleName)
		require.NoError(t, err)
		require.NotNil(t, role)
		u.RoleID = &role.ID
	}
	require.NoError(t, s.users.Create(ctx, u))
	return u
}

// bearer emite un access token para el usuario sin pasar por login.
func (s *server) bearer(t *testing.T, u *entity.User) string {
	t.Helper()
	tok, err := s.tokens.IssueAccessToken(access.PrincipalFromUser(u))
	require.NoError(t, err)
	return "Bearer " + tok
}

type call struct {
	method  string
	path    string
	body    any
	auth    string
	cookies []*http.Cookie
}

func (s *server) do(t *testing.T, c call) *http.Response {
	t.Helper()
	var body io.Reader
	if c.body != nil {
		raw, err := json.Marshal(c.body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(c.method, c.path, body)
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.auth != "" {
		req.Header.Set("Authorization", c.auth)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	return decode[dto.ErrorResponse](t, resp).Code
}

func refreshCookie(resp *http.Response) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == "refresh_token" {
			return ck
		}
	}
	return nil
}
