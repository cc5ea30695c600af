package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/jobhunter-api/internal/application/access"
	"github.com/jhoicas/jobhunter-api/internal/application/auth"
	"github.com/jhoicas/jobhunter-api/internal/domain"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/jobhunter-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testJWTSecret = "test-secret-key-for-unit-tests"

func testJWTConfig() auth.JWTConfig {
	return auth.JWTConfig{
		Secret:     testJWTSecret,
		Issuer:     "jobhunter-test",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}
}

func newTokenService(t *testing.T) (*auth.TokenService, *memory.UserRepo, *access.Principal) {
	t.Helper()
	users := memory.NewUserRepository(memory.NewStore())
	u := &entity.User{Email: "user@gmail.com", Name: "User", Enabled: true}
	require.NoError(t, users.Create(context.Background(), u))
	return auth.NewTokenService(users, testJWTConfig()), users, access.PrincipalFromUser(u)
}

// ──────────────────────────────────────────────────────────────────────────────
// Emisión
// ──────────────────────────────────────────────────────────────────────────────

func TestIssueAccessToken_ContieneIdentidad(t *testing.T) {
	svc, _, p := newTokenService(t)
	role := int64(2)
	p.RoleID = &role

	tok, err := svc.IssueAccessToken(p)
	require.NoError(t, err)

	claims, err := svc.ParseAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, p.UserID, claims.UserID)
	assert.Equal(t, "user@gmail.com", claims.Subject)
	assert.Equal(t, pkgjwt.TypeAccess, claims.TokenType)
}

func TestParseAccessToken_RefreshNoSirveComoAccess(t *testing.T) {
	svc, _, p := newTokenService(t)
	refresh, err := svc.IssueRefreshToken(context.Background(), p)
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(refresh)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestIssueRefreshToken_SePersiste(t *testing.T) {
	svc, users, p := newTokenService(t)
	tok, err := svc.IssueRefreshToken(context.Background(), p)
	require.NoError(t, err)

	u, err := users.GetByID(context.Background(), p.UserID)
	require.NoError(t, err)
	require.NotNil(t, u.RefreshToken)
	assert.Equal(t, tok, *u.RefreshToken)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rotación y revocación
// ──────────────────────────────────────────────────────────────────────────────

func TestRotate_ElTokenAnteriorDejaDeServir(t *testing.T) {
	svc, _, p := newTokenService(t)
	ctx := context.Background()
	old, err := svc.IssueRefreshToken(ctx, p)
	require.NoError(t, err)

	pair, err := svc.Rotate(ctx, old)
	require.NoError(t, err)
	assert.NotEqual(t, old, pair.RefreshToken)
	assert.NotEmpty(t, pair.AccessToken)

	_, err = svc.Rotate(ctx, old)
	assert.ErrorIs(t, err, domain.ErrInvalidToken, "el refresh ya rotado no debe aceptarse")

	_, err = svc.Rotate(ctx, pair.RefreshToken)
	assert.NoError(t, err)
}

// Dos emisiones seguidas: solo la segunda sigue siendo válida.
func TestIssueRefreshToken_UltimaEscrituraGana(t *testing.T) {
	svc, _, p := newTokenService(t)
	ctx := context.Background()

	first, err := svc.IssueRefreshToken(ctx, p)
	require.NoError(t, err)
	second, err := svc.IssueRefreshToken(ctx, p)
	require.NoError(t, err)

	_, err = svc.Rotate(ctx, first)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	_, err = svc.Rotate(ctx, second)
	assert.NoError(t, err)
}

// Emisiones concurrentes: exactamente una queda vigente, la que se escribió al final.
func TestIssueRefreshToken_ConcurrenteSoloUnaVigente(t *testing.T) {
	svc, users, p := newTokenService(t)
	ctx := context.Background()

	const n = 8
	tokens := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := svc.IssueRefreshToken(ctx, p)
			assert.NoError(t, err)
			tokens[i] = tok
		}(i)
	}
	wg.Wait()

	u, err := users.GetByID(ctx, p.UserID)
	require.NoError(t, err)
	require.NotNil(t, u.RefreshToken)
	stored := *u.RefreshToken

	valid := 0
	for _, tok := range tokens {
		if tok == stored {
			valid++
			continue
		}
		_, err := svc.Rotate(ctx, tok)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	}
	assert.Equal(t, 1, valid)
	_, err = svc.Rotate(ctx, stored)
	assert.NoError(t, err)
}

func TestRotate_FallosIndistinguibles(t *testing.T) {
	svc, _, p := newTokenService(t)
	ctx := context.Background()

	accessTok, err := svc.IssueAccessToken(p)
	require.NoError(t, err)
	expired, err := pkgjwt.Generate(testJWTSecret, "jobhunter-test", pkgjwt.TypeRefresh,
		pkgjwt.Subject{UserID: p.UserID, Email: p.Email}, -time.Minute)
	require.NoError(t, err)
	unknown, err := pkgjwt.Generate(testJWTSecret, "jobhunter-test", pkgjwt.TypeRefresh,
		pkgjwt.Subject{UserID: 999, Email: "nadie@gmail.com"}, time.Hour)
	require.NoError(t, err)
	foreign, err := pkgjwt.Generate("otro-secreto", "jobhunter-test", pkgjwt.TypeRefresh,
		pkgjwt.Subject{UserID: p.UserID, Email: p.Email}, time.Hour)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"basura":      "abc",
		"access":      accessTok,
		"expirado":    expired,
		"desconocido": unknown,
		"firma ajena": foreign,
		"no guardado": mustRefresh(t, p),
	} {
		_, err := svc.Rotate(ctx, tok)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, name)
	}
}

func mustRefresh(t *testing.T, p *access.Principal) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, "jobhunter-test", pkgjwt.TypeRefresh,
		pkgjwt.Subject{UserID: p.UserID, Email: p.Email}, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestRevoke_InvalidaElRefresh(t *testing.T) {
	svc, users, p := newTokenService(t)
	ctx := context.Background()
	tok, err := svc.IssueRefreshToken(ctx, p)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, p.UserID))

	u, err := users.GetByID(ctx, p.UserID)
	require.NoError(t, err)
	assert.Nil(t, u.RefreshToken)

	_, err = svc.Rotate(ctx, tok)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
