package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registrationRaw = "/api/v1/company-registrations/**"

func int64Ptr(v int64) *int64 { return &v }

func TestPattern_Match(t *testing.T) {
	cases := []struct {
		pattern string
		method  string
		path    string
		want    bool
	}{
		{"/api/v1/auth/**", "POST", "/api/v1/auth/login", true},
		{"/api/v1/auth/**", "GET", "/api/v1/auth", true},
		{"/api/v1/auth/**", "GET", "/api/v1/auth/a/b/c", true},
		{"/api/v1/auth/**", "GET", "/api/v1/authx", false},
		{"/storage/*", "GET", "/storage/logo.png", true},
		{"/storage/*", "GET", "/storage/a/logo.png", false},
		{"/", "GET", "/", true},
		{"/", "GET", "/api", false},
		{"/health", "GET", "/health/", true},
		{"GET /api/v1/jobs/**", "GET", "/api/v1/jobs/3", true},
		{"GET /api/v1/jobs/**", "DELETE", "/api/v1/jobs/3", false},
		{"get /api/v1/jobs/**", "GET", "/api/v1/jobs", true},
		{"GET /api/v1/companies/**", "HEAD", "/api/v1/companies/1", true},
		{"GET /api/v1/companies/**", "head", "/api/v1/companies/1", true},
		{"POST /api/v1/companies/**", "HEAD", "/api/v1/companies/1", false},
	}
	for _, tc := range cases {
		p, err := CompilePattern(tc.pattern)
		require.NoError(t, err)
		assert.Equal(t, tc.want, p.Match(tc.method, tc.path), "%s %s contra %q", tc.method, tc.path, tc.pattern)
	}
}

func TestCompilePattern_Invalido(t *testing.T) {
	_, err := CompilePattern("api/sin/barra")
	assert.Error(t, err)
	_, err = CompilePattern("GET   ")
	assert.Error(t, err)
}

func TestComputeExclusions_SinRolAnadeRegistro(t *testing.T) {
	static, err := CompileExclusions([]string{"/api/v1/auth/**"})
	require.NoError(t, err)
	reg := MustCompilePattern(registrationRaw)

	effective := ComputeExclusions(static, &Principal{UserID: 1}, reg)

	assert.True(t, effective.Matches("POST", "/api/v1/company-registrations"))
	assert.True(t, effective.Matches("GET", "/api/v1/company-registrations/5"))
	assert.Len(t, static, 1, "la lista estática no se modifica")
}

func TestComputeExclusions_ConRolQuitaRegistro(t *testing.T) {
	static, err := CompileExclusions([]string{"/api/v1/auth/**", registrationRaw})
	require.NoError(t, err)
	reg := MustCompilePattern(registrationRaw)

	effective := ComputeExclusions(static, &Principal{UserID: 1, RoleID: int64Ptr(2)}, reg)

	assert.False(t, effective.Matches("GET", "/api/v1/company-registrations"),
		"con rol el registro pasa por el chequeo aunque esté en la lista estática")
	assert.True(t, effective.Matches("POST", "/api/v1/auth/login"))
	assert.Len(t, static, 2)
}

func TestComputeExclusions_RolCeroCuentaComoSinRol(t *testing.T) {
	reg := MustCompilePattern(registrationRaw)
	effective := ComputeExclusions(nil, &Principal{UserID: 1, RoleID: int64Ptr(0)}, reg)
	assert.True(t, effective.Matches("GET", "/api/v1/company-registrations"))
}

func TestComputeExclusions_SinPrincipalEsLaEstatica(t *testing.T) {
	static, err := CompileExclusions([]string{"/health"})
	require.NoError(t, err)
	effective := ComputeExclusions(static, nil, MustCompilePattern(registrationRaw))
	assert.False(t, effective.Matches("GET", "/api/v1/company-registrations"))
	assert.True(t, effective.Matches("GET", "/health"))
}

func TestTemplateFromRoute(t *testing.T) {
	assert.Equal(t, "/api/v1/users/{id}", TemplateFromRoute("/api/v1/users/:id"))
	assert.Equal(t, "/api/v1/company-registrations/{id}/status", TemplateFromRoute("/api/v1/company-registrations/:id/status"))
	assert.Equal(t, "/api/v1/jobs/by-created/{username}", TemplateFromRoute("/api/v1/jobs/by-created/:username?"))
	assert.Equal(t, "/api/v1/users", TemplateFromRoute("/api/v1/users/"))
}
