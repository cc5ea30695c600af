package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/jobhunter-api/internal/application/dto"
	"github.com/jhoicas/jobhunter-api/internal/application/ports"
	"github.com/jhoicas/jobhunter-api/internal/application/rbac"
	"github.com/jhoicas/jobhunter-api/internal/domain"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/domain/repository"
	"github.com/jhoicas/jobhunter-api/pkg/logger"
)

const mailTimeout = 30 * time.Second

// Eventos de auth reportados a métricas.
const (
	EventLogin    = "login"
	EventRefresh  = "refresh"
	EventRegister = "register"
	EventVerify   = "verify"
	EventLogout   = "logout"
)

// EventRecorder recibe el resultado de cada operación de auth. Puede ser nil.
type EventRecorder interface {
	RecordAuthEvent(event, outcome string)
}

// AuthUseCase ciclo de vida de la identidad: registro, verificación, login, refresh, logout.
type AuthUseCase struct {
	users         repository.UserRepository
	roles         repository.RoleRepository
	tokens        *TokenService
	mailer        ports.Mailer
	verifyBaseURL string
	log           *logger.Logger
	recorder      EventRecorder
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	users repository.UserRepository,
	roles repository.RoleRepository,
	tokens *TokenService,
	mailer ports.Mailer,
	verifyBaseURL string,
	log *logger.Logger,
	recorder EventRecorder,
) *AuthUseCase {
	return &AuthUseCase{
		users:         users,
		roles:         roles,
		tokens:        tokens,
		mailer:        mailer,
		verifyBaseURL: verifyBaseURL,
		log:           log.Component("auth"),
		recorder:      recorder,
	}
}

// Session resultado de login/refresh: el cuerpo de respuesta más el refresh token para la cookie.
type Session struct {
	Response     dto.LoginResponse
	RefreshToken string
}

func (uc *AuthUseCase) record(event string, err error) {
	if uc.recorder == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = outcomeOf(err)
	}
	uc.recorder.RecordAuthEvent(event, outcome)
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountNotActivated):
		return "not_activated"
	case errors.Is(err, domain.ErrAuthenticationRequired):
		return "bad_credentials"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return "duplicate"
	default:
		return "error"
	}
}

// Register crea un usuario deshabilitado con un token de verificación y envía el correo
// en segundo plano. Un fallo de envío solo se registra en el log.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (out *dto.UserResponse, err error) {
	defer func() { uc.record(EventRegister, err) }()

	email := strings.ToLower(strings.TrimSpace(in.Email))
	exists, err := uc.users.ExistsByEmail(ctx, email)
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
	token := uuid.New().String()
	now := time.Now()
	user := &entity.User{
		Email:             email,
		PasswordHash:      string(hash),
		Name:              strings.TrimSpace(in.Name),
		Age:               in.Age,
		Gender:            in.Gender,
		Address:           in.Address,
		Enabled:           false,
		VerificationToken: &token,
		CreatedAt:         now,
		UpdatedAt:         now,
		CreatedBy:         email,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.sendVerification(user, token)
	return ToUserResponse(user), nil
}

func (uc *AuthUseCase) sendVerification(user *entity.User, token string) {
	if uc.mailer == nil {
		return
	}
	mail := ports.VerificationMail{
		To:    user.Email,
		Name:  user.Name,
		Token: token,
		Link:  uc.verifyBaseURL + "?token=" + url.QueryEscape(token),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		if err := uc.mailer.SendVerification(ctx, mail); err != nil {
			uc.log.Warn().Err(err).Str("email", mail.To).Msg("no se pudo enviar el correo de verificación")
		}
	}()
}

// Verify consume el token de verificación y habilita la cuenta.
func (uc *AuthUseCase) Verify(ctx context.Context, token string) (err error) {
	defer func() { uc.record(EventVerify, err) }()

	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrInvalidToken
	}
	user, err := uc.users.GetByVerificationToken(ctx, token)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrInvalidToken
	}
	user.VerificationToken = nil
	user.Enabled = true
	user.UpdatedAt = time.Now()
	return uc.users.Update(ctx, user)
}

// Login verifica credenciales. Una cuenta sin verificar se rechaza antes de mirar la contraseña.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (out *Session, err error) {
	defer func() { uc.record(EventLogin, err) }()

	user, err := uc.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrAuthenticationRequired
	}
	if !user.Enabled {
		return nil, domain.ErrAccountNotActivated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrAuthenticationRequired
	}
	pair, err := uc.tokens.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}
	return uc.session(ctx, pair)
}

// Refresh rota el refresh token presentado por la cookie.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (out *Session, err error) {
	defer func() { uc.record(EventRefresh, err) }()

	pair, err := uc.tokens.Rotate(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return uc.session(ctx, pair)
}

// Logout revoca el refresh token guardado del usuario.
func (uc *AuthUseCase) Logout(ctx context.Context, userID int64) (err error) {
	defer func() { uc.record(EventLogout, err) }()
	return uc.tokens.Revoke(ctx, userID)
}

// Account devuelve el usuario autenticado con su rol y permissions.
func (uc *AuthUseCase) Account(ctx context.Context, userID int64) (*dto.AccountResponse, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	loginUser, role, err := uc.loginUser(ctx, user)
	if err != nil {
		return nil, err
	}
	out := &dto.AccountResponse{User: *loginUser, Permissions: []dto.PermissionResponse{}}
	if role != nil {
		out.Permissions = rbac.ToPermissionResponses(role.Permissions)
	}
	return out, nil
}

// ChangePassword cambia la contraseña del usuario autenticado.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID int64, in dto.ChangePasswordRequest) error {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.OldPassword)); err != nil {
		return fmt.Errorf("%w: la contraseña actual es incorrecta", domain.ErrInvalidInput)
	}
	if in.OldPassword == in.NewPassword {
		return fmt.Errorf("%w: la nueva contraseña debe ser distinta", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now()
	user.UpdatedBy = user.Email
	return uc.users.Update(ctx, user)
}

func (uc *AuthUseCase) session(ctx context.Context, pair *TokenPair) (*Session, error) {
	loginUser, _, err := uc.loginUser(ctx, pair.User)
	if err != nil {
		return nil, err
	}
	return &Session{
		Response:     dto.LoginResponse{AccessToken: pair.AccessToken, User: *loginUser},
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (uc *AuthUseCase) loginUser(ctx context.Context, user *entity.User) (*dto.LoginUser, *entity.Role, error) {
	out := &dto.LoginUser{ID: user.ID, Email: user.Email, Name: user.Name}
	if !user.HasRole() {
		return out, nil, nil
	}
	role, err := uc.roles.GetByID(ctx, *user.RoleID)
	if err != nil {
		return nil, nil, err
	}
	if role != nil {
		out.Role = &dto.RoleReference{ID: role.ID, Name: role.Name}
	}
	return out, role, nil
}

// ToUserResponse convierte el usuario a su DTO público.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Age:       u.Age,
		Gender:    u.Gender,
		Address:   u.Address,
		Enabled:   u.Enabled,
		RoleID:    u.RoleID,
		CompanyID: u.CompanyID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
