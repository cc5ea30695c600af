package access

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Pattern patrón de exclusión estilo Ant: "*" cubre un segmento y "**" cualquier
// profundidad. "/x/**" también cubre "/x". Admite prefijo de método: "GET /api/v1/jobs/**".
type Pattern struct {
	raw    string
	method string
	g      glob.Glob
	bare   string
}

// CompilePattern valida y compila un patrón.
func CompilePattern(raw string) (Pattern, error) {
	raw = strings.TrimSpace(raw)
	p := Pattern{raw: raw}
	expr := raw
	if i := strings.IndexByte(raw, ' '); i > 0 {
		p.method = strings.ToUpper(raw[:i])
		expr = strings.TrimSpace(raw[i+1:])
	}
	if !strings.HasPrefix(expr, "/") {
		return Pattern{}, fmt.Errorf("patrón %q: debe empezar por /", raw)
	}
	g, err := glob.Compile(expr, '/')
	if err != nil {
		return Pattern{}, fmt.Errorf("patrón %q: %w", raw, err)
	}
	p.g = g
	if strings.HasSuffix(expr, "/**") {
		p.bare = strings.TrimSuffix(expr, "/**")
		if p.bare == "" {
			p.bare = "/"
		}
	}
	return p, nil
}

// MustCompilePattern como CompilePattern pero entra en pánico ante un patrón inválido.
func MustCompilePattern(raw string) Pattern {
	p, err := CompilePattern(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String devuelve el patrón tal como se configuró.
func (p Pattern) String() string { return p.raw }

// Match indica si la petición cae bajo el patrón.
func (p Pattern) Match(method, path string) bool {
	if p.g == nil {
		return false
	}
	if p.method != "" && !methodMatches(p.method, method) {
		return false
	}
	path = normalizePath(path)
	return p.g.Match(path) || (p.bare != "" && path == p.bare)
}

// methodMatches compara el método; un patrón GET cubre también HEAD, que Fiber
// registra junto a cada ruta GET.
func methodMatches(patternMethod, method string) bool {
	method = strings.ToUpper(method)
	return patternMethod == method || (patternMethod == "GET" && method == "HEAD")
}

// normalizePath quita la barra final salvo en la raíz.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}

// ExclusionList conjunto de patrones que no pasan por el chequeo de permisos.
type ExclusionList []Pattern

// CompileExclusions compila la lista estática configurada.
func CompileExclusions(raw []string) (ExclusionList, error) {
	out := make(ExclusionList, 0, len(raw))
	for _, r := range raw {
		p, err := CompilePattern(r)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Matches indica si algún patrón cubre la petición.
func (l ExclusionList) Matches(method, path string) bool {
	for _, p := range l {
		if p.Match(method, path) {
			return true
		}
	}
	return false
}

// Contains indica si el patrón (por texto) está en la lista.
func (l ExclusionList) Contains(raw string) bool {
	for _, p := range l {
		if p.raw == raw {
			return true
		}
	}
	return false
}

// ComputeExclusions calcula la lista efectiva para un principal. Es una función pura:
// no modifica static y se evalúa en cada petición.
//   - Principal autenticado sin rol: se añade el patrón de registro de empresas.
//   - Principal con rol (id > 0): se quita ese patrón aunque esté en la lista estática.
//   - Sin principal: la lista estática sin cambios.
func ComputeExclusions(static ExclusionList, principal *Principal, registration Pattern) ExclusionList {
	effective := make(ExclusionList, 0, len(static)+1)
	switch {
	case principal == nil:
		return append(effective, static...)
	case principal.HasRole():
		for _, p := range static {
			if p.raw != registration.raw {
				effective = append(effective, p)
			}
		}
		return effective
	default:
		effective = append(effective, static...)
		if !static.Contains(registration.raw) {
			effective = append(effective, registration)
		}
		return effective
	}
}

// TemplateFromRoute convierte una ruta registrada en Fiber (/api/v1/jobs/:id) a la
// plantilla del catálogo (/api/v1/jobs/{id}).
func TemplateFromRoute(route string) string {
	if !strings.Contains(route, ":") {
		return normalizePath(route)
	}
	segments := strings.Split(route, "/")
	for i, s := range segments {
		if strings.HasPrefix(s, ":") {
			name := strings.TrimSuffix(strings.TrimPrefix(s, ":"), "?")
			segments[i] = "{" + name + "}"
		}
	}
	return normalizePath(strings.Join(segments, "/"))
}
