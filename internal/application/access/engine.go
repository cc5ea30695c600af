package access

import (
	"context"
	"fmt"

	"github.com/jhoicas/jobhunter-api/internal/domain"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
)

// RoleCatalog consultas que el motor necesita del catálogo. Lo implementa *rbac.Catalog.
type RoleCatalog interface {
	FindRole(ctx context.Context, roleID int64) (*entity.Role, error)
	IsFullAccessRole(ctx context.Context, roleID int64) (bool, error)
	RoleHasPermission(ctx context.Context, roleID int64, apiPath, method string) (bool, error)
}

// Resultados de una decisión, usados como etiqueta en métricas.
const (
	OutcomeExcluded      = "excluded"
	OutcomeFullAccess    = "full_access"
	OutcomePermitted     = "permitted"
	OutcomeUnauthorized  = "unauthenticated"
	OutcomeForbidden     = "forbidden"
	OutcomeCatalogFailed = "error"
)

// DecisionRecorder recibe el resultado de cada decisión. Puede ser nil.
type DecisionRecorder interface {
	RecordDecision(outcome string)
}

// Request datos de la petición que el motor evalúa.
type Request struct {
	Method    string
	Path      string // ruta concreta, para la lista de exclusión
	Route     string // plantilla de la ruta, para el catálogo
	Principal *Principal
}

// Engine motor de decisión de acceso. No guarda estado entre peticiones.
type Engine struct {
	static       ExclusionList
	registration Pattern
	catalog      RoleCatalog
	recorder     DecisionRecorder
}

// NewEngine construye el motor con la lista estática y el patrón de registro de empresas.
func NewEngine(static ExclusionList, registration Pattern, catalog RoleCatalog, recorder DecisionRecorder) *Engine {
	return &Engine{static: static, registration: registration, catalog: catalog, recorder: recorder}
}

// Decide devuelve nil si la petición puede continuar.
// Errores: domain.ErrAuthenticationRequired, domain.ErrForbidden o un error de infraestructura
// (en ese caso la petición también se rechaza).
func (e *Engine) Decide(ctx context.Context, req Request) error {
	outcome, err := e.decide(ctx, req)
	if e.recorder != nil {
		e.recorder.RecordDecision(outcome)
	}
	return err
}

func (e *Engine) decide(ctx context.Context, req Request) (string, error) {
	if ComputeExclusions(e.static, req.Principal, e.registration).Matches(req.Method, req.Path) {
		return OutcomeExcluded, nil
	}
	if req.Principal == nil {
		return OutcomeUnauthorized, domain.ErrAuthenticationRequired
	}
	if !req.Principal.HasRole() {
		return OutcomeForbidden, domain.ErrForbidden
	}
	roleID := *req.Principal.RoleID

	role, err := e.catalog.FindRole(ctx, roleID)
	if err != nil {
		return OutcomeCatalogFailed, fmt.Errorf("decisión de acceso: %w", err)
	}
	if role == nil {
		return OutcomeForbidden, domain.ErrForbidden
	}

	full, err := e.catalog.IsFullAccessRole(ctx, roleID)
	if err != nil {
		return OutcomeCatalogFailed, fmt.Errorf("decisión de acceso: %w", err)
	}
	if full {
		return OutcomeFullAccess, nil
	}

	route := req.Route
	if route == "" {
		route = req.Path
	}
	ok, err := e.catalog.RoleHasPermission(ctx, roleID, TemplateFromRoute(route), req.Method)
	if err != nil {
		return OutcomeCatalogFailed, fmt.Errorf("decisión de acceso: %w", err)
	}
	if !ok {
		return OutcomeForbidden, domain.ErrForbidden
	}
	return OutcomePermitted, nil
}
