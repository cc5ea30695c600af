package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/jobhunter-api/internal/application/auth"
	"github.com/jhoicas/jobhunter-api/internal/application/dto"
	"github.com/jhoicas/jobhunter-api/internal/domain"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/domain/repository"
)

// UserUseCase administración de usuarios. Junto con la aprobación de un registro de
// empresa, es la otra vía por la que un usuario recibe rol y empresa.
type UserUseCase struct {
	repo      repository.UserRepository
	roles     repository.RoleRepository
	companies repository.CompanyRepository
}

// NewUserUseCase construye el caso de uso con sus puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, roles repository.RoleRepository, companies repository.CompanyRepository) *UserUseCase {
	return &UserUseCase{repo: repo, roles: roles, companies: companies}
}

// Create da de alta un usuario habilitado con el rol y la empresa indicados.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest, actor string) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	exists, err := uc.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Age:          in.Age,
		Gender:       in.Gender,
		Address:      in.Address,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedBy:    actor,
	}
	if err := uc.assign(ctx, user, in.RoleID, in.CompanyID); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// Update modifica datos personales, rol y empresa. Contraseña, email y tokens no se tocan.
func (uc *UserUseCase) Update(ctx context.Context, in dto.UpdateUserRequest, actor string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	user.Name = strings.TrimSpace(in.Name)
	user.Age = in.Age
	user.Gender = in.Gender
	user.Address = in.Address
	if err := uc.assign(ctx, user, in.RoleID, in.CompanyID); err != nil {
		return nil, err
	}
	user.UpdatedAt = time.Now()
	user.UpdatedBy = actor
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// assign valida que rol y empresa existan antes de asignarlos.
func (uc *UserUseCase) assign(ctx context.Context, user *entity.User, roleID, companyID *int64) error {
	user.RoleID = nil
	if roleID != nil && *roleID > 0 {
		role, err := uc.roles.GetByID(ctx, *roleID)
		if err != nil {
			return err
		}
		if role == nil {
			return fmt.Errorf("%w: el rol %d no existe", domain.ErrInvalidInput, *roleID)
		}
		id := role.ID
		user.RoleID = &id
	}
	user.CompanyID = nil
	if companyID != nil && *companyID > 0 {
		company, err := uc.companies.GetByID(ctx, *companyID)
		if err != nil {
			return err
		}
		if company == nil {
			return fmt.Errorf("%w: la empresa %d no existe", domain.ErrInvalidInput, *companyID)
		}
		id := company.ID
		user.CompanyID = &id
	}
	return nil
}

// GetByID obtiene un usuario; domain.ErrUserNotFound si no existe.
func (uc *UserUseCase) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return auth.ToUserResponse(user), nil
}

// List pagina los usuarios.
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.UserListResponse{
		Items: make([]dto.UserResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, u := range list {
		out.Items = append(out.Items, *auth.ToUserResponse(u))
	}
	return out, nil
}

// Delete elimina un usuario existente.
func (uc *UserUseCase) Delete(ctx context.Context, id int64) error {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	return uc.repo.Delete(ctx, id)
}
