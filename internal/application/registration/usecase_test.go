package registration_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/jobhunter-api/internal/application/access"
	"github.com/jhoicas/jobhunter-api/internal/application/dto"
	"github.com/jhoicas/jobhunter-api/internal/application/rbac"
	"github.com/jhoicas/jobhunter-api/internal/application/registration"
	"github.com/jhoicas/jobhunter-api/internal/domain"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/infrastructure/memory"
)

type regEnv struct {
	uc         *registration.UseCase
	users      *memory.UserRepo
	companies  *memory.CompanyRepo
	applicant  *access.Principal
	admin      *access.Principal
	manager    *access.Principal
	managerRID int64
}

func newRegEnv(t *testing.T) *regEnv {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	perms := memory.NewPermissionRepository(s)
	roles := memory.NewRoleRepository(s)
	users := memory.NewUserRepository(s)

	all := rbac.DefaultPermissions()
	for _, p := range all {
		require.NoError(t, perms.Create(ctx, p))
	}
	superAdmin := &entity.Role{Name: entity.RoleSuperAdmin, Active: true, Permissions: all}
	require.NoError(t, roles.Create(ctx, superAdmin))
	manager := &entity.Role{Name: entity.RoleManager, Active: true, Permissions: all[:5]}
	require.NoError(t, roles.Create(ctx, manager))

	applicantUser := &entity.User{Email: "empresa@gmail.com", Enabled: true}
	require.NoError(t, users.Create(ctx, applicantUser))
	adminUser := &entity.User{Email: "admin@gmail.com", Enabled: true, RoleID: &superAdmin.ID}
	require.NoError(t, users.Create(ctx, adminUser))
	managerUser := &entity.User{Email: "manager@gmail.com", Enabled: true, RoleID: &manager.ID}
	require.NoError(t, users.Create(ctx, managerUser))

	uc := registration.NewUseCase(
		memory.NewCompanyRegistrationRepository(s), roles, rbac.NewCatalog(perms, roles),
		memory.NewTxRunner(s), entity.RoleManager,
	)
	return &regEnv{
		uc:         uc,
		users:      users,
		companies:  memory.NewCompanyRepository(s),
		applicant:  access.PrincipalFromUser(applicantUser),
		admin:      access.PrincipalFromUser(adminUser),
		manager:    access.PrincipalFromUser(managerUser),
		managerRID: manager.ID,
	}
}

func (e *regEnv) create(t *testing.T) *dto.CompanyRegistrationResponse {
	t.Helper()
	out, err := e.uc.Create(context.Background(), e.applicant, dto.CreateCompanyRegistrationRequest{
		CompanyName: "Acme", Description: "Software", Address: "Calle 1",
	})
	require.NoError(t, err)
	return out
}

func TestCreate_QuedaPendiente(t *testing.T) {
	e := newRegEnv(t)
	out := e.create(t)
	assert.Equal(t, entity.RegistrationPending, out.Status)
	assert.Equal(t, e.applicant.UserID, out.UserID)
}

func TestList_AdminVeTodoElRestoSoloLoPropio(t *testing.T) {
	e := newRegEnv(t)
	ctx := context.Background()
	e.create(t)
	_, err := e.uc.Create(ctx, e.manager, dto.CreateCompanyRegistrationRequest{CompanyName: "Otra"})
	require.NoError(t, err)

	all, err := e.uc.List(ctx, e.admin, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	own, err := e.uc.List(ctx, e.applicant, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, own.Items, 1)
	assert.Equal(t, "Acme", own.Items[0].CompanyName)
}

func TestGetByID_AjenaSinAccesoTotal(t *testing.T) {
	e := newRegEnv(t)
	ctx := context.Background()
	reg := e.create(t)

	_, err := e.uc.GetByID(ctx, e.manager, reg.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := e.uc.GetByID(ctx, e.admin, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, got.ID)

	_, err = e.uc.GetByID(ctx, e.admin, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateStatus_SinRolNoPuedeResolver(t *testing.T) {
	e := newRegEnv(t)
	reg := e.create(t)
	_, err := e.uc.UpdateStatus(context.Background(), e.applicant, reg.ID, dto.UpdateRegistrationStatusRequest{Status: "APPROVED"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateStatus_AprobarAsignaEmpresaYRol(t *testing.T) {
	e := newRegEnv(t)
	ctx := context.Background()
	reg := e.create(t)

	out, err := e.uc.UpdateStatus(ctx, e.admin, reg.ID, dto.UpdateRegistrationStatusRequest{Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, entity.RegistrationApproved, out.Status)

	u, err := e.users.GetByID(ctx, e.applicant.UserID)
	require.NoError(t, err)
	require.NotNil(t, u.RoleID)
	assert.Equal(t, e.managerRID, *u.RoleID)
	require.NotNil(t, u.CompanyID)

	company, err := e.companies.GetByID(ctx, *u.CompanyID)
	require.NoError(t, err)
	require.NotNil(t, company)
	assert.Equal(t, "Acme", company.Name)
	assert.Equal(t, "empresa@gmail.com", company.CreatedBy)

	_, err = e.uc.UpdateStatus(ctx, e.admin, reg.ID, dto.UpdateRegistrationStatusRequest{Status: "REJECTED"})
	assert.ErrorIs(t, err, domain.ErrConflict, "una solicitud resuelta no se vuelve a resolver")
}

func TestUpdateStatus_RechazarConMotivoPorDefecto(t *testing.T) {
	e := newRegEnv(t)
	ctx := context.Background()
	reg := e.create(t)

	out, err := e.uc.UpdateStatus(ctx, e.admin, reg.ID, dto.UpdateRegistrationStatusRequest{Status: "REJECTED"})
	require.NoError(t, err)
	assert.Equal(t, registration.DefaultRejectionReason, out.RejectionReason)

	u, err := e.users.GetByID(ctx, e.applicant.UserID)
	require.NoError(t, err)
	assert.Nil(t, u.RoleID, "un rechazo no asigna rol")
}

func TestUpdateStatus_EstadoInvalido(t *testing.T) {
	e := newRegEnv(t)
	reg := e.create(t)
	_, err := e.uc.UpdateStatus(context.Background(), e.admin, reg.ID, dto.UpdateRegistrationStatusRequest{Status: "PENDING"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelete_PropiaYAjena(t *testing.T) {
	e := newRegEnv(t)
	ctx := context.Background()
	reg := e.create(t)

	assert.ErrorIs(t, e.uc.Delete(ctx, e.manager, reg.ID), domain.ErrForbidden)
	require.NoError(t, e.uc.Delete(ctx, e.applicant, reg.ID))
	assert.ErrorIs(t, e.uc.Delete(ctx, e.applicant, reg.ID), domain.ErrNotFound)
}
