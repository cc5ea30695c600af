package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_SinSecretFalla(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 3600, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, 8640000, cfg.JWT.RefreshTokenExpiration)
	assert.Less(t, cfg.JWT.AccessTokenExpiration, cfg.JWT.RefreshTokenExpiration)
	assert.Equal(t, "MANAGER", cfg.Registration.ApprovedRole)
	assert.Equal(t, "/api/v1/company-registrations/**", cfg.Access.RegistrationPattern)
	assert.Equal(t, DefaultWhitelist, cfg.Access.Whitelist)
	assert.True(t, cfg.Cookie.Secure)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_EnvSobrescribe(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ACCESS_WHITELIST", "/health, /api/v1/auth/** ,")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("RATE_LIMIT_PER_SECOND", "2.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, []string{"/health", "/api/v1/auth/**"}, cfg.Access.Whitelist)
	assert.False(t, cfg.Cookie.Secure)
	assert.InDelta(t, 2.5, cfg.RateLimit.PerSecond, 0.0001)
}

func TestLoad_AccessNoMenorQueRefreshFalla(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("JWT_ACCESS_TOKEN_VALIDITY_SECONDS", "86400")
	t.Setenv("JWT_REFRESH_TOKEN_VALIDITY_SECONDS", "86400")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_ACCESS_TOKEN_VALIDITY_SECONDS", "0")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("JWT_ACCESS_TOKEN_VALIDITY_SECONDS", "900")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 900, cfg.JWT.AccessTokenExpiration)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "jobhunter", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/jobhunter?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
