package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/jobhunter-api/internal/application/access"
	"github.com/jhoicas/jobhunter-api/internal/domain"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/domain/repository"
	"github.com/jhoicas/jobhunter-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenPair par emitido en login y en cada rotación.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// TokenService emite, valida, rota y revoca tokens. Cada usuario tiene un único
// refresh token vigente guardado en su fila: emitir uno nuevo invalida el anterior.
type TokenService struct {
	users repository.UserRepository
	cfg   JWTConfig
}

// NewTokenService construye el servicio de tokens.
func NewTokenService(users repository.UserRepository, cfg JWTConfig) *TokenService {
	return &TokenService{users: users, cfg: cfg}
}

// RefreshTTL validez del refresh token; también es el Max-Age de la cookie.
func (s *TokenService) RefreshTTL() time.Duration {
	return s.cfg.RefreshTTL
}

func subjectOf(p *access.Principal) jwt.Subject {
	return jwt.Subject{UserID: p.UserID, Email: p.Email, RoleID: p.RoleID}
}

// IssueAccessToken emite un access token de vida corta. No toca la persistencia.
func (s *TokenService) IssueAccessToken(p *access.Principal) (string, error) {
	if p == nil {
		return "", domain.ErrAuthenticationRequired
	}
	return jwt.Generate(s.cfg.Secret, s.cfg.Issuer, jwt.TypeAccess, subjectOf(p), s.cfg.AccessTTL)
}

// IssueRefreshToken emite un refresh token y lo guarda sobrescribiendo el anterior.
func (s *TokenService) IssueRefreshToken(ctx context.Context, p *access.Principal) (string, error) {
	if p == nil {
		return "", domain.ErrAuthenticationRequired
	}
	token, err := jwt.Generate(s.cfg.Secret, s.cfg.Issuer, jwt.TypeRefresh, subjectOf(p), s.cfg.RefreshTTL)
	if err != nil {
		return "", err
	}
	if err := s.users.UpdateRefreshToken(ctx, p.UserID, &token); err != nil {
		return "", fmt.Errorf("guardar refresh token: %w", err)
	}
	return token, nil
}

// ParseAccessToken valida un access token. Cualquier fallo es domain.ErrInvalidToken.
func (s *TokenService) ParseAccessToken(token string) (*jwt.Claims, error) {
	claims, err := jwt.Parse(s.cfg.Secret, token, jwt.TypeAccess)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// Rotate canjea un refresh token por un par nuevo. El token presentado debe ser
// válido y además coincidir con el guardado; tras la rotación deja de servir.
// Firma, expiración, tipo, usuario desconocido o discrepancia devuelven el mismo error.
func (s *TokenService) Rotate(ctx context.Context, presented string) (*TokenPair, error) {
	claims, err := jwt.Parse(s.cfg.Secret, presented, jwt.TypeRefresh)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	user, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil || user.ID != claims.UserID || user.RefreshToken == nil || *user.RefreshToken != presented {
		return nil, domain.ErrInvalidToken
	}
	return s.issuePair(ctx, user)
}

// Revoke borra el refresh token guardado del usuario.
func (s *TokenService) Revoke(ctx context.Context, userID int64) error {
	if err := s.users.UpdateRefreshToken(ctx, userID, nil); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrAuthenticationRequired
		}
		return fmt.Errorf("revocar refresh token: %w", err)
	}
	return nil
}

func (s *TokenService) issuePair(ctx context.Context, user *entity.User) (*TokenPair, error) {
	p := access.PrincipalFromUser(user)
	accessToken, err := s.IssueAccessToken(p)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.IssueRefreshToken(ctx, p)
	if err != nil {
		return nil, err
	}
	user.RefreshToken = &refreshToken
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken, User: user}, nil
}
