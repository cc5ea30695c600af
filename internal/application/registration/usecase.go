// Package registration gestiona las solicitudes de alta de empresa. Aprobar una
// solicitud es la vía por la que un usuario sin rol obtiene rol y empresa.
package registration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/jobhunter-api/internal/application/access"
	"github.com/jhoicas/jobhunter-api/internal/application/dto"
	"github.com/jhoicas/jobhunter-api/internal/application/ports"
	"github.com/jhoicas/jobhunter-api/internal/domain"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/domain/repository"
)

// DefaultRejectionReason motivo usado cuando se rechaza sin indicar uno.
const DefaultRejectionReason = "La solicitud no cumple los requisitos de registro"

// fullAccessChecker lo implementa *rbac.Catalog.
type fullAccessChecker interface {
	IsFullAccessRole(ctx context.Context, roleID int64) (bool, error)
}

// UseCase casos de uso de solicitudes de registro de empresa.
type UseCase struct {
	repo         repository.CompanyRegistrationRepository
	roles        repository.RoleRepository
	catalog      fullAccessChecker
	tx           ports.RegistrationTxRunner
	approvedRole string
}

// NewUseCase construye el caso de uso. approvedRole es el nombre del rol que recibe
// el solicitante al aprobarse su registro.
func NewUseCase(
	repo repository.CompanyRegistrationRepository,
	roles repository.RoleRepository,
	catalog fullAccessChecker,
	tx ports.RegistrationTxRunner,
	approvedRole string,
) *UseCase {
	return &UseCase{repo: repo, roles: roles, catalog: catalog, tx: tx, approvedRole: approvedRole}
}

// Create registra una solicitud PENDING a nombre del llamador.
func (uc *UseCase) Create(ctx context.Context, caller *access.Principal, in dto.CreateCompanyRegistrationRequest) (*dto.CompanyRegistrationResponse, error) {
	if caller == nil {
		return nil, domain.ErrAuthenticationRequired
	}
	now := time.Now()
	reg := &entity.CompanyRegistration{
		UserID:               caller.UserID,
		CompanyName:          strings.TrimSpace(in.CompanyName),
		Description:          in.Description,
		Address:              in.Address,
		Logo:                 in.Logo,
		FacebookLink:         in.FacebookLink,
		GithubLink:           in.GithubLink,
		VerificationDocument: in.VerificationDocument,
		Status:               entity.RegistrationPending,
		CreatedAt:            now,
		UpdatedAt:            now,
		CreatedBy:            caller.Email,
	}
	if err := uc.repo.Create(ctx, reg); err != nil {
		return nil, err
	}
	return toResponse(reg), nil
}

// List devuelve todas las solicitudes a un rol con acceso total y solo las propias al resto.
func (uc *UseCase) List(ctx context.Context, caller *access.Principal, page dto.PageRequest) (*dto.CompanyRegistrationListResponse, error) {
	if caller == nil {
		return nil, domain.ErrAuthenticationRequired
	}
	page.DefaultPage()
	full, err := uc.isFullAccess(ctx, caller)
	if err != nil {
		return nil, err
	}
	var list []*entity.CompanyRegistration
	if full {
		list, err = uc.repo.List(ctx, page.Limit, page.Offset)
	} else {
		list, err = uc.repo.ListByUser(ctx, caller.UserID, page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyRegistrationResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toResponse(r))
	}
	return &dto.CompanyRegistrationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// GetByID devuelve la solicitud si el llamador es su dueño o tiene acceso total.
func (uc *UseCase) GetByID(ctx context.Context, caller *access.Principal, id int64) (*dto.CompanyRegistrationResponse, error) {
	reg, err := uc.visible(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return toResponse(reg), nil
}

// Delete elimina la solicitud si el llamador es su dueño o tiene acceso total.
func (uc *UseCase) Delete(ctx context.Context, caller *access.Principal, id int64) error {
	if _, err := uc.visible(ctx, caller, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// UpdateStatus aprueba o rechaza una solicitud pendiente. El llamador debe tener rol:
// un usuario sin rol alcanza estas rutas por la exclusión dinámica y no puede
// resolver su propia solicitud.
// Al aprobar, en una sola transacción: se crea la empresa y el solicitante recibe
// la empresa y el rol configurado.
func (uc *UseCase) UpdateStatus(ctx context.Context, caller *access.Principal, id int64, in dto.UpdateRegistrationStatusRequest) (*dto.CompanyRegistrationResponse, error) {
	if caller == nil {
		return nil, domain.ErrAuthenticationRequired
	}
	if !caller.HasRole() {
		return nil, domain.ErrForbidden
	}
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status != entity.RegistrationApproved && status != entity.RegistrationRejected {
		return nil, fmt.Errorf("%w: estado %q no permitido", domain.ErrInvalidInput, in.Status)
	}

	var result *entity.CompanyRegistration
	err := uc.tx.RunRegistration(ctx, func(
		companyRepo repository.CompanyRepository,
		userRepo repository.UserRepository,
		registrationRepo repository.CompanyRegistrationRepository,
	) error {
		reg, err := registrationRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if reg == nil {
			return domain.ErrNotFound
		}
		if !reg.IsPending() {
			return fmt.Errorf("%w: la solicitud ya fue %s", domain.ErrConflict, strings.ToLower(reg.Status))
		}
		now := time.Now()
		reg.Status = status
		reg.UpdatedAt = now
		reg.UpdatedBy = caller.Email

		if status == entity.RegistrationRejected {
			reg.RejectionReason = strings.TrimSpace(in.RejectionReason)
			if reg.RejectionReason == "" {
				reg.RejectionReason = DefaultRejectionReason
			}
		} else {
			reg.RejectionReason = ""
			if err := uc.approve(ctx, companyRepo, userRepo, reg, now); err != nil {
				return err
			}
		}
		if err := registrationRepo.Update(ctx, reg); err != nil {
			return err
		}
		result = reg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(result), nil
}

func (uc *UseCase) approve(
	ctx context.Context,
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
	reg *entity.CompanyRegistration,
	now time.Time,
) error {
	role, err := uc.roles.GetByName(ctx, uc.approvedRole)
	if err != nil {
		return err
	}
	if role == nil {
		return fmt.Errorf("rol de aprobación %q: %w", uc.approvedRole, domain.ErrNotFound)
	}
	company := &entity.Company{
		Name:        reg.CompanyName,
		Description: reg.Description,
		Address:     reg.Address,
		Logo:        reg.Logo,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   reg.CreatedBy,
	}
	if err := companyRepo.Create(ctx, company); err != nil {
		return err
	}
	user, err := userRepo.GetByID(ctx, reg.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	user.CompanyID = &company.ID
	user.RoleID = &role.ID
	user.UpdatedAt = now
	user.UpdatedBy = reg.UpdatedBy
	return userRepo.Update(ctx, user)
}

func (uc *UseCase) visible(ctx context.Context, caller *access.Principal, id int64) (*entity.CompanyRegistration, error) {
	if caller == nil {
		return nil, domain.ErrAuthenticationRequired
	}
	reg, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, domain.ErrNotFound
	}
	if reg.UserID == caller.UserID {
		return reg, nil
	}
	full, err := uc.isFullAccess(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !full {
		return nil, domain.ErrForbidden
	}
	return reg, nil
}

func (uc *UseCase) isFullAccess(ctx context.Context, caller *access.Principal) (bool, error) {
	if !caller.HasRole() {
		return false, nil
	}
	return uc.catalog.IsFullAccessRole(ctx, *caller.RoleID)
}

func toResponse(r *entity.CompanyRegistration) *dto.CompanyRegistrationResponse {
	return &dto.CompanyRegistrationResponse{
		ID:                   r.ID,
		UserID:               r.UserID,
		CompanyName:          r.CompanyName,
		Description:          r.Description,
		Address:              r.Address,
		Logo:                 r.Logo,
		FacebookLink:         r.FacebookLink,
		GithubLink:           r.GithubLink,
		VerificationDocument: r.VerificationDocument,
		RejectionReason:      r.RejectionReason,
		Status:               r.Status,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}
