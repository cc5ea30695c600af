package access_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/jobhunter-api/internal/application/access"
	"github.com/jhoicas/jobhunter-api/internal/application/rbac"
	"github.com/jhoicas/jobhunter-api/internal/domain"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type recorder struct{ outcomes []string }

func (r *recorder) RecordDecision(outcome string) { r.outcomes = append(r.outcomes, outcome) }

type env struct {
	store      *memory.Store
	engine     *access.Engine
	recorder   *recorder
	superAdmin *entity.Role
	manager    *entity.Role
}

// newEnv arma un catálogo de 41 permissions, SUPER_ADMIN con todas y MANAGER con
// USERS, COMPANIES y RESUMES (15).
func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	perms := memory.NewPermissionRepository(s)
	roles := memory.NewRoleRepository(s)

	all := rbac.DefaultPermissions()[:41]
	var managerPerms []*entity.Permission
	for _, p := range all {
		require.NoError(t, perms.Create(ctx, p))
		switch p.Module {
		case entity.ModuleUsers, entity.ModuleCompanies, entity.ModuleResumes:
			managerPerms = append(managerPerms, p)
		}
	}
	require.Len(t, managerPerms, 15)

	superAdmin := &entity.Role{Name: entity.RoleSuperAdmin, Active: true, Permissions: all}
	require.NoError(t, roles.Create(ctx, superAdmin))
	manager := &entity.Role{Name: entity.RoleManager, Active: true, Permissions: managerPerms}
	require.NoError(t, roles.Create(ctx, manager))

	static, err := access.CompileExclusions([]string{"/", "/api/v1/auth/**", "/health", "GET /api/v1/jobs/**"})
	require.NoError(t, err)
	rec := &recorder{}
	engine := access.NewEngine(static, access.MustCompilePattern("/api/v1/company-registrations/**"),
		rbac.NewCatalog(perms, roles), rec)

	s.ResetCatalogLookups()
	return &env{store: s, engine: engine, recorder: rec, superAdmin: superAdmin, manager: manager}
}

func principalWithRole(roleID int64) *access.Principal {
	return &access.Principal{UserID: 10, Email: "user@gmail.com", RoleID: &roleID}
}

// ──────────────────────────────────────────────────────────────────────────────
// Exclusiones
// ──────────────────────────────────────────────────────────────────────────────

func TestDecide_ExcluidaNoConsultaElCatalogo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.engine.Decide(ctx, access.Request{Method: "POST", Path: "/api/v1/auth/login"}))
	require.NoError(t, e.engine.Decide(ctx, access.Request{Method: "GET", Path: "/api/v1/jobs/3", Route: "/api/v1/jobs/:id"}))
	require.NoError(t, e.engine.Decide(ctx, access.Request{
		Method: "GET", Path: "/health", Principal: principalWithRole(e.manager.ID),
	}))

	assert.Equal(t, int64(0), e.store.CatalogLookups(), "una ruta excluida no debe tocar el catálogo")
	assert.Equal(t, []string{access.OutcomeExcluded, access.OutcomeExcluded, access.OutcomeExcluded}, e.recorder.outcomes)
}

func TestDecide_SinPrincipalRequiereAutenticacion(t *testing.T) {
	e := newEnv(t)
	err := e.engine.Decide(context.Background(), access.Request{Method: "GET", Path: "/api/v1/users", Route: "/api/v1/users"})
	assert.ErrorIs(t, err, domain.ErrAuthenticationRequired)
	assert.Equal(t, int64(0), e.store.CatalogLookups())
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuario sin rol y exclusión dinámica
// ──────────────────────────────────────────────────────────────────────────────

func TestDecide_SinRolSoloAlcanzaRegistroDeEmpresas(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	roleless := &access.Principal{UserID: 20, Email: "nuevo@gmail.com"}

	require.NoError(t, e.engine.Decide(ctx, access.Request{
		Method: "POST", Path: "/api/v1/company-registrations", Route: "/api/v1/company-registrations", Principal: roleless,
	}))
	require.NoError(t, e.engine.Decide(ctx, access.Request{
		Method: "GET", Path: "/api/v1/company-registrations/4", Route: "/api/v1/company-registrations/:id", Principal: roleless,
	}))

	err := e.engine.Decide(ctx, access.Request{Method: "GET", Path: "/api/v1/users", Route: "/api/v1/users", Principal: roleless})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDecide_AlObtenerRolElRegistroYaNoEsImplicito(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	req := access.Request{Method: "GET", Path: "/api/v1/company-registrations", Route: "/api/v1/company-registrations"}

	req.Principal = &access.Principal{UserID: 20}
	require.NoError(t, e.engine.Decide(ctx, req))

	// MANAGER no tiene permissions de COMPANY_REGISTRATIONS.
	req.Principal = principalWithRole(e.manager.ID)
	assert.ErrorIs(t, e.engine.Decide(ctx, req), domain.ErrForbidden)
	assert.Greater(t, e.store.CatalogLookups(), int64(0))
}

func TestDecide_RolInexistenteFallaCerrado(t *testing.T) {
	e := newEnv(t)
	err := e.engine.Decide(context.Background(), access.Request{
		Method: "GET", Path: "/api/v1/users", Route: "/api/v1/users", Principal: principalWithRole(999),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo de 41 permissions: SUPER_ADMIN vs MANAGER
// ──────────────────────────────────────────────────────────────────────────────

func TestDecide_SuperAdminAccesoTotal(t *testing.T) {
	e := newEnv(t)
	err := e.engine.Decide(context.Background(), access.Request{
		Method: "DELETE", Path: "/api/v1/users/7", Route: "/api/v1/users/:id", Principal: principalWithRole(e.superAdmin.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{access.OutcomeFullAccess}, e.recorder.outcomes)
}

func TestDecide_ManagerSegunPlantillaYMetodo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	manager := principalWithRole(e.manager.ID)

	err := e.engine.Decide(ctx, access.Request{Method: "DELETE", Path: "/api/v1/skills/3", Route: "/api/v1/skills/:id", Principal: manager})
	assert.ErrorIs(t, err, domain.ErrForbidden, "MANAGER no tiene SKILLS")

	err = e.engine.Decide(ctx, access.Request{Method: "GET", Path: "/api/v1/users/7", Route: "/api/v1/users/:id", Principal: manager})
	assert.NoError(t, err, "GET /api/v1/users/{id} está en el rol")

	assert.Equal(t, []string{access.OutcomeForbidden, access.OutcomePermitted}, e.recorder.outcomes)
}

// Una permission guardada con ruta concreta no coincide con la plantilla parametrizada.
func TestDecide_RutaConcretaNoCoincideConPlantilla(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	perms := memory.NewPermissionRepository(s)
	roles := memory.NewRoleRepository(s)

	concrete := &entity.Permission{Name: "usuario 7", APIPath: "/api/v1/users/7", Method: "GET", Module: entity.ModuleUsers}
	other := &entity.Permission{Name: "listar", APIPath: "/api/v1/users", Method: "GET", Module: entity.ModuleUsers}
	require.NoError(t, perms.Create(ctx, concrete))
	require.NoError(t, perms.Create(ctx, other))
	role := &entity.Role{Name: "LIMITED", Permissions: []*entity.Permission{concrete}}
	require.NoError(t, roles.Create(ctx, role))

	engine := access.NewEngine(nil, access.MustCompilePattern("/api/v1/company-registrations/**"), rbac.NewCatalog(perms, roles), nil)
	err := engine.Decide(ctx, access.Request{
		Method: "GET", Path: "/api/v1/users/7", Route: "/api/v1/users/:id", Principal: principalWithRole(role.ID),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fallos de infraestructura
// ──────────────────────────────────────────────────────────────────────────────

type failingCatalog struct{}

func (failingCatalog) FindRole(context.Context, int64) (*entity.Role, error) {
	return nil, errors.New("db caída")
}
func (failingCatalog) IsFullAccessRole(context.Context, int64) (bool, error) { return false, nil }
func (failingCatalog) RoleHasPermission(context.Context, int64, string, string) (bool, error) {
	return false, nil
}

func TestDecide_ErrorDelCatalogoRechaza(t *testing.T) {
	engine := access.NewEngine(nil, access.MustCompilePattern("/api/v1/company-registrations/**"), failingCatalog{}, nil)
	err := engine.Decide(context.Background(), access.Request{
		Method: "GET", Path: "/api/v1/users", Principal: principalWithRole(1),
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrForbidden))
}

func TestPrincipalResolver_UsuarioDeshabilitadoEsNil(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	users := memory.NewUserRepository(s)
	u := &entity.User{Email: "a@gmail.com", Enabled: false}
	require.NoError(t, users.Create(ctx, u))

	resolver := access.NewPrincipalResolver(users)
	p, err := resolver.Resolve(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, p)

	u.Enabled = true
	role := int64(3)
	u.RoleID = &role
	require.NoError(t, users.Update(ctx, u))
	p, err = resolver.Resolve(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.HasRole())
	assert.Equal(t, "a@gmail.com", p.Email)
}
