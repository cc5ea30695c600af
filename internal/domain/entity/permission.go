package entity

import "time"

// Permission unidad atómica de autorización: (módulo, método HTTP, plantilla de ruta).
// APIPath se guarda como plantilla, ej. /api/v1/jobs/{id}.
type Permission struct {
	ID        int64
	Name      string
	APIPath   string
	Method    string
	Module    string
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
	UpdatedBy string
}

// Key identifica la permission por su tupla única.
func (p *Permission) Key() string {
	return p.Module + " " + p.Method + " " + p.APIPath
}

// Módulos del catálogo.
const (
	ModuleCompanies            = "COMPANIES"
	ModuleJobs                 = "JOBS"
	ModulePermissions          = "PERMISSIONS"
	ModuleResumes              = "RESUMES"
	ModuleRoles                = "ROLES"
	ModuleUsers                = "USERS"
	ModuleSkills               = "SKILLS"
	ModuleSubscribers          = "SUBSCRIBERS"
	ModuleFiles                = "FILES"
	ModuleCompanyRegistrations = "COMPANY_REGISTRATIONS"
	ModuleMessages             = "MESSAGES"
)
