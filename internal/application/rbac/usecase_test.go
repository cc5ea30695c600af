package rbac_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/jobhunter-api/internal/application/dto"
	"github.com/jhoicas/jobhunter-api/internal/application/rbac"
	"github.com/jhoicas/jobhunter-api/internal/domain"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/infrastructure/memory"
	"github.com/jhoicas/jobhunter-api/pkg/logger"
)

func TestPermissionUseCase_CreateDuplicado(t *testing.T) {
	f := newFixture()
	uc := rbac.NewPermissionUseCase(f.perms, f.catalog)
	ctx := context.Background()
	in := dto.CreatePermissionRequest{Name: "Listar empleos", APIPath: "/api/v1/jobs", Method: "get", Module: "jobs"}

	out, err := uc.Create(ctx, in, "admin@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, "GET", out.Method)
	assert.Equal(t, "JOBS", out.Module)

	_, err = uc.Create(ctx, in, "admin@gmail.com")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestPermissionUseCase_UpdateInexistenteYColision(t *testing.T) {
	f := newFixture()
	uc := rbac.NewPermissionUseCase(f.perms, f.catalog)
	ctx := context.Background()
	all := f.seedPermissions(t, 2)

	_, err := uc.Update(ctx, dto.UpdatePermissionRequest{ID: 999, Name: "x", APIPath: "/x", Method: "GET", Module: "X"}, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Mover la segunda permission sobre la tupla de la primera.
	first := all[0]
	_, err = uc.Update(ctx, dto.UpdatePermissionRequest{
		ID: all[1].ID, Name: "choque", APIPath: first.APIPath, Method: first.Method, Module: first.Module,
	}, "")
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Renombrar sin cambiar la tupla no choca consigo misma.
	out, err := uc.Update(ctx, dto.UpdatePermissionRequest{
		ID: first.ID, Name: "renombrada", APIPath: first.APIPath, Method: first.Method, Module: first.Module,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "renombrada", out.Name)
}

func TestPermissionUseCase_DeleteDesvinculaDeRoles(t *testing.T) {
	f := newFixture()
	uc := rbac.NewPermissionUseCase(f.perms, f.catalog)
	ctx := context.Background()
	all := f.seedPermissions(t, 3)
	role := f.createRole(t, "EDITOR", all)

	require.NoError(t, uc.Delete(ctx, all[1].ID))

	n, err := f.catalog.CountPermissionsForRole(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	full, err := f.catalog.IsFullAccessRole(ctx, role.ID)
	require.NoError(t, err)
	assert.True(t, full, "el rol sigue cubriendo el catálogo reducido")

	assert.ErrorIs(t, uc.Delete(ctx, all[1].ID), domain.ErrNotFound)
}

func TestPermissionUseCase_ListSegunRolDelLlamador(t *testing.T) {
	f := newFixture()
	uc := rbac.NewPermissionUseCase(f.perms, f.catalog)
	ctx := context.Background()
	all := f.seedPermissions(t, 10)
	admin := f.createRole(t, entity.RoleSuperAdmin, all)
	manager := f.createRole(t, entity.RoleManager, all[:3])

	out, err := uc.List(ctx, &admin.ID, dto.PageRequest{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, out.Items, 10)
	assert.Equal(t, 10, out.Page.Total)

	out, err = uc.List(ctx, &manager.ID, dto.PageRequest{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, out.Items, 3)

	out, err = uc.List(ctx, nil, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, out.Items, "sin rol no se ve ninguna permission")
}

func TestRoleUseCase_CRUD(t *testing.T) {
	f := newFixture()
	uc := rbac.NewRoleUseCase(f.roles, f.catalog)
	ctx := context.Background()
	all := f.seedPermissions(t, 4)

	created, err := uc.Create(ctx, dto.CreateRoleRequest{
		Name: "recruiter", PermissionIDs: []int64{all[0].ID, all[1].ID, 12345},
	}, "admin@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, "RECRUITER", created.Name)
	assert.True(t, created.Active)
	assert.Len(t, created.Permissions, 2)
	assert.False(t, created.FullAccess)

	_, err = uc.Create(ctx, dto.CreateRoleRequest{Name: "RECRUITER"}, "")
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	inactive := false
	updated, err := uc.Update(ctx, dto.UpdateRoleRequest{
		ID: created.ID, Name: "recruiter", Active: &inactive,
		PermissionIDs: []int64{all[0].ID, all[1].ID, all[2].ID, all[3].ID},
	}, "")
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.True(t, updated.FullAccess)

	assigned, err := uc.AssignPermissions(ctx, created.ID, dto.AssignPermissionsRequest{PermissionIDs: []int64{all[3].ID}})
	require.NoError(t, err)
	assert.Len(t, assigned.Permissions, 1)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	require.NoError(t, uc.Delete(ctx, created.ID))
	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, uc.Delete(ctx, created.ID), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Siembra inicial
// ──────────────────────────────────────────────────────────────────────────────

func TestSeeder_SiembraCatalogoRolesYAdmin(t *testing.T) {
	f := newFixture()
	users := memory.NewUserRepository(f.store)
	seeder := rbac.NewSeeder(f.perms, f.roles, users, logger.Nop())
	ctx := context.Background()
	admin := rbac.AdminAccount{Email: "admin@gmail.com", Password: "123456"}

	require.NoError(t, seeder.Seed(ctx, admin))
	require.NoError(t, seeder.Seed(ctx, admin), "la siembra debe ser idempotente")

	total, err := f.catalog.CountTotalPermissions(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(rbac.DefaultPermissions()), total)

	superAdmin, err := f.roles.GetByName(ctx, entity.RoleSuperAdmin)
	require.NoError(t, err)
	require.NotNil(t, superAdmin)
	full, err := f.catalog.IsFullAccessRole(ctx, superAdmin.ID)
	require.NoError(t, err)
	assert.True(t, full)

	manager, err := f.roles.GetByName(ctx, entity.RoleManager)
	require.NoError(t, err)
	require.NotNil(t, manager)
	assert.Len(t, manager.Permissions, 15, "MANAGER recibe USERS, COMPANIES y RESUMES")

	u, err := users.GetByEmail(ctx, "admin@gmail.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.True(t, u.Enabled)
	require.NotNil(t, u.RoleID)
	assert.Equal(t, superAdmin.ID, *u.RoleID)
}

func TestDefaultPermissions_TuplasUnicas(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range rbac.DefaultPermissions() {
		assert.False(t, seen[p.Key()], "tupla repetida: %s", p.Key())
		seen[p.Key()] = true
	}
}
