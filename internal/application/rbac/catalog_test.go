package rbac_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/jobhunter-api/internal/application/rbac"
	"github.com/jhoicas/jobhunter-api/internal/domain"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store   *memory.Store
	perms   *memory.PermissionRepo
	roles   *memory.RoleRepo
	catalog *rbac.Catalog
}

func newFixture() *fixture {
	s := memory.NewStore()
	f := &fixture{
		store: s,
		perms: memory.NewPermissionRepository(s),
		roles: memory.NewRoleRepository(s),
	}
	f.catalog = rbac.NewCatalog(f.perms, f.roles)
	return f
}

// seedPermissions crea las n primeras permissions del catálogo por defecto.
func (f *fixture) seedPermissions(t *testing.T, n int) []*entity.Permission {
	t.Helper()
	all := rbac.DefaultPermissions()[:n]
	for _, p := range all {
		require.NoError(t, f.perms.Create(context.Background(), p))
	}
	return all
}

func (f *fixture) createRole(t *testing.T, name string, perms []*entity.Permission) *entity.Role {
	t.Helper()
	role := &entity.Role{Name: name, Active: true, Permissions: perms}
	require.NoError(t, f.roles.Create(context.Background(), role))
	return role
}

// ──────────────────────────────────────────────────────────────────────────────
// Acceso total por cardinalidad
// ──────────────────────────────────────────────────────────────────────────────

func TestIsFullAccessRole_IgualCardinalidad(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	all := f.seedPermissions(t, 41)
	admin := f.createRole(t, entity.RoleSuperAdmin, all)
	partial := f.createRole(t, entity.RoleManager, all[:15])

	full, err := f.catalog.IsFullAccessRole(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, full, "un rol con todo el catálogo tiene acceso total")

	full, err = f.catalog.IsFullAccessRole(ctx, partial.ID)
	require.NoError(t, err)
	assert.False(t, full, "un rol parcial no tiene acceso total")
}

// Añadir una permission al catálogo quita el acceso total a quien no la tenga.
func TestIsFullAccessRole_CambiaConElCatalogo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	all := f.seedPermissions(t, 41)
	admin := f.createRole(t, entity.RoleSuperAdmin, all)

	extra := &entity.Permission{Name: "nueva", APIPath: "/api/v1/reports", Method: "GET", Module: "REPORTS"}
	require.NoError(t, f.perms.Create(ctx, extra))

	full, err := f.catalog.IsFullAccessRole(ctx, admin.ID)
	require.NoError(t, err)
	assert.False(t, full, "el catálogo creció y el rol ya no lo cubre")

	_, err = f.catalog.AssignPermissions(ctx, admin.ID, append(admin.PermissionIDs(), extra.ID))
	require.NoError(t, err)

	full, err = f.catalog.IsFullAccessRole(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, full)
}

func TestCountPermissionsForRole_RolInexistenteEsCero(t *testing.T) {
	f := newFixture()
	f.seedPermissions(t, 5)

	n, err := f.catalog.CountPermissionsForRole(context.Background(), 999)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	total, err := f.catalog.CountTotalPermissions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, total)
}

func TestFindRole_InexistenteDevuelveNil(t *testing.T) {
	f := newFixture()
	role, err := f.catalog.FindRole(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, role)
}

// ──────────────────────────────────────────────────────────────────────────────
// AssignPermissions
// ──────────────────────────────────────────────────────────────────────────────

func TestAssignPermissions_DescartaIDsDesconocidos(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	all := f.seedPermissions(t, 3)
	role := f.createRole(t, "EDITOR", nil)

	updated, err := f.catalog.AssignPermissions(ctx, role.ID, []int64{all[0].ID, 9999, all[2].ID, all[0].ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{all[0].ID, all[2].ID}, updated.PermissionIDs())

	n, err := f.catalog.CountPermissionsForRole(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestAssignPermissions_RolInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.catalog.AssignPermissions(context.Background(), 77, []int64{1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoleHasPermission_ComparacionLiteral(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	all := f.seedPermissions(t, 41)
	manager := f.createRole(t, entity.RoleManager, all[:5])

	ok, err := f.catalog.RoleHasPermission(ctx, manager.ID, "/api/v1/companies/{id}", "GET")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.catalog.RoleHasPermission(ctx, manager.ID, "/api/v1/companies/{id}", "PATCH")
	require.NoError(t, err)
	assert.False(t, ok, "el método también debe coincidir")
}
