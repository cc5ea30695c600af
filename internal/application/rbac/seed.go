package rbac

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/domain/repository"
	"github.com/jhoicas/jobhunter-api/pkg/logger"
)

const seedActor = "system"

func perm(name, apiPath, method, module string) *entity.Permission {
	return &entity.Permission{Name: name, APIPath: apiPath, Method: method, Module: module}
}

// DefaultPermissions catálogo sembrado al arrancar. Las 41 primeras cubren los módulos
// de negocio (empresas, empleos, permisos, hojas de vida, roles, usuarios, habilidades
// y suscriptores); el resto cubre archivos, registros de empresa y mensajes.
func DefaultPermissions() []*entity.Permission {
	return []*entity.Permission{
		perm("Crear empresa", "/api/v1/companies", "POST", entity.ModuleCompanies),
		perm("Actualizar empresa", "/api/v1/companies", "PUT", entity.ModuleCompanies),
		perm("Eliminar empresa", "/api/v1/companies/{id}", "DELETE", entity.ModuleCompanies),
		perm("Obtener empresa por ID", "/api/v1/companies/{id}", "GET", entity.ModuleCompanies),
		perm("Listar empresas", "/api/v1/companies", "GET", entity.ModuleCompanies),

		perm("Crear empleo", "/api/v1/jobs", "POST", entity.ModuleJobs),
		perm("Actualizar empleo", "/api/v1/jobs", "PUT", entity.ModuleJobs),
		perm("Eliminar empleo", "/api/v1/jobs/{id}", "DELETE", entity.ModuleJobs),
		perm("Obtener empleo por ID", "/api/v1/jobs/{id}", "GET", entity.ModuleJobs),
		perm("Listar empleos", "/api/v1/jobs", "GET", entity.ModuleJobs),
		perm("Listar empleos por creador", "/api/v1/jobs/by-created/{username}", "GET", entity.ModuleJobs),

		perm("Crear permission", "/api/v1/permissions", "POST", entity.ModulePermissions),
		perm("Actualizar permission", "/api/v1/permissions", "PUT", entity.ModulePermissions),
		perm("Eliminar permission", "/api/v1/permissions/{id}", "DELETE", entity.ModulePermissions),
		perm("Obtener permission por ID", "/api/v1/permissions/{id}", "GET", entity.ModulePermissions),
		perm("Listar permissions", "/api/v1/permissions", "GET", entity.ModulePermissions),

		perm("Crear hoja de vida", "/api/v1/resumes", "POST", entity.ModuleResumes),
		perm("Actualizar hoja de vida", "/api/v1/resumes", "PUT", entity.ModuleResumes),
		perm("Eliminar hoja de vida", "/api/v1/resumes/{id}", "DELETE", entity.ModuleResumes),
		perm("Obtener hoja de vida por ID", "/api/v1/resumes/{id}", "GET", entity.ModuleResumes),
		perm("Listar hojas de vida", "/api/v1/resumes", "GET", entity.ModuleResumes),

		perm("Crear rol", "/api/v1/roles", "POST", entity.ModuleRoles),
		perm("Actualizar rol", "/api/v1/roles", "PUT", entity.ModuleRoles),
		perm("Eliminar rol", "/api/v1/roles/{id}", "DELETE", entity.ModuleRoles),
		perm("Obtener rol por ID", "/api/v1/roles/{id}", "GET", entity.ModuleRoles),
		perm("Listar roles", "/api/v1/roles", "GET", entity.ModuleRoles),

		perm("Crear usuario", "/api/v1/users", "POST", entity.ModuleUsers),
		perm("Actualizar usuario", "/api/v1/users", "PUT", entity.ModuleUsers),
		perm("Eliminar usuario", "/api/v1/users/{id}", "DELETE", entity.ModuleUsers),
		perm("Obtener usuario por ID", "/api/v1/users/{id}", "GET", entity.ModuleUsers),
		perm("Listar usuarios", "/api/v1/users", "GET", entity.ModuleUsers),

		perm("Crear habilidad", "/api/v1/skills", "POST", entity.ModuleSkills),
		perm("Actualizar habilidad", "/api/v1/skills", "PUT", entity.ModuleSkills),
		perm("Eliminar habilidad", "/api/v1/skills/{id}", "DELETE", entity.ModuleSkills),
		perm("Obtener habilidad por ID", "/api/v1/skills/{id}", "GET", entity.ModuleSkills),
		perm("Listar habilidades", "/api/v1/skills", "GET", entity.ModuleSkills),

		perm("Crear suscriptor", "/api/v1/subscribers", "POST", entity.ModuleSubscribers),
		perm("Actualizar suscriptor", "/api/v1/subscribers", "PUT", entity.ModuleSubscribers),
		perm("Eliminar suscriptor", "/api/v1/subscribers/{id}", "DELETE", entity.ModuleSubscribers),
		perm("Obtener suscriptor por ID", "/api/v1/subscribers/{id}", "GET", entity.ModuleSubscribers),
		perm("Listar suscriptores", "/api/v1/subscribers", "GET", entity.ModuleSubscribers),

		perm("Subir archivo", "/api/v1/files", "POST", entity.ModuleFiles),
		perm("Descargar archivo", "/api/v1/files", "GET", entity.ModuleFiles),

		perm("Crear registro de empresa", "/api/v1/company-registrations", "POST", entity.ModuleCompanyRegistrations),
		perm("Listar registros de empresa", "/api/v1/company-registrations", "GET", entity.ModuleCompanyRegistrations),
		perm("Actualizar estado de registro", "/api/v1/company-registrations/{id}/status", "PUT", entity.ModuleCompanyRegistrations),
		perm("Obtener registro de empresa por ID", "/api/v1/company-registrations/{id}", "GET", entity.ModuleCompanyRegistrations),
		perm("Rechazar registro de empresa", "/api/v1/company-registrations/{id}/reject", "PUT", entity.ModuleCompanyRegistrations),
		perm("Eliminar registro de empresa", "/api/v1/company-registrations/{id}", "DELETE", entity.ModuleCompanyRegistrations),

		perm("Enviar mensaje", "/api/v1/messages", "POST", entity.ModuleMessages),
		perm("Eliminar mensaje", "/api/v1/messages/{id}", "DELETE", entity.ModuleMessages),
		perm("Obtener mensaje por ID", "/api/v1/messages/{id}", "GET", entity.ModuleMessages),
		perm("Listar conversación", "/api/v1/messages/conversation", "GET", entity.ModuleMessages),
	}
}

// managerModules módulos que recibe el rol MANAGER en la siembra.
var managerModules = map[string]bool{
	entity.ModuleUsers:     true,
	entity.ModuleCompanies: true,
	entity.ModuleResumes:   true,
}

// AdminAccount credenciales del administrador sembrado.
type AdminAccount struct {
	Email    string
	Password string
	Name     string
}

// Seeder siembra catálogo, roles y administrador cuando la base está vacía.
type Seeder struct {
	permRepo repository.PermissionRepository
	roleRepo repository.RoleRepository
	userRepo repository.UserRepository
	log      *logger.Logger
}

// NewSeeder construye el sembrador.
func NewSeeder(permRepo repository.PermissionRepository, roleRepo repository.RoleRepository, userRepo repository.UserRepository, log *logger.Logger) *Seeder {
	return &Seeder{permRepo: permRepo, roleRepo: roleRepo, userRepo: userRepo, log: log}
}

// Seed es idempotente: cada paso se omite si ya hay datos.
func (s *Seeder) Seed(ctx context.Context, admin AdminAccount) error {
	total, err := s.permRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: contar permissions: %w", err)
	}
	if total == 0 {
		for _, p := range DefaultPermissions() {
			now := time.Now()
			p.CreatedAt, p.UpdatedAt, p.CreatedBy = now, now, seedActor
			if err := s.permRepo.Create(ctx, p); err != nil {
				return fmt.Errorf("seed: crear permission %s: %w", p.Key(), err)
			}
		}
		s.log.Info().Int("permissions", len(DefaultPermissions())).Msg("catálogo de permissions sembrado")
	}

	all, err := s.permRepo.List(ctx, 1<<20, 0)
	if err != nil {
		return fmt.Errorf("seed: listar permissions: %w", err)
	}

	superAdmin, err := s.ensureRole(ctx, entity.RoleSuperAdmin, "Administrador con acceso total", all)
	if err != nil {
		return err
	}
	var managerPerms []*entity.Permission
	for _, p := range all {
		if managerModules[p.Module] {
			managerPerms = append(managerPerms, p)
		}
	}
	if _, err := s.ensureRole(ctx, entity.RoleManager, "Gestor de empresa", managerPerms); err != nil {
		return err
	}

	return s.ensureAdmin(ctx, admin, superAdmin.ID)
}

func (s *Seeder) ensureRole(ctx context.Context, name, description string, perms []*entity.Permission) (*entity.Role, error) {
	role, err := s.roleRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("seed: buscar rol %s: %w", name, err)
	}
	if role != nil {
		return role, nil
	}
	now := time.Now()
	role = &entity.Role{
		Name:        name,
		Description: description,
		Active:      true,
		Permissions: perms,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   seedActor,
	}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("seed: crear rol %s: %w", name, err)
	}
	s.log.Info().Str("role", name).Int("permissions", len(perms)).Msg("rol sembrado")
	return role, nil
}

func (s *Seeder) ensureAdmin(ctx context.Context, admin AdminAccount, roleID int64) error {
	if admin.Email == "" {
		return nil
	}
	exists, err := s.userRepo.ExistsByEmail(ctx, admin.Email)
	if err != nil {
		return fmt.Errorf("seed: buscar admin: %w", err)
	}
	if exists {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	name := admin.Name
	if name == "" {
		name = "I'm super admin"
	}
	now := time.Now()
	user := &entity.User{
		Email:        admin.Email,
		PasswordHash: string(hash),
		Name:         name,
		Enabled:      true,
		RoleID:       &roleID,
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedBy:    seedActor,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("seed: crear admin: %w", err)
	}
	s.log.Info().Str("email", admin.Email).Msg("usuario administrador sembrado")
	return nil
}
