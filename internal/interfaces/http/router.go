package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jobhunter-api/internal/application/auth"
	"github.com/jhoicas/jobhunter-api/internal/application/rbac"
	"github.com/jhoicas/jobhunter-api/internal/application/registration"
	"github.com/jhoicas/jobhunter-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	PermissionUC   *rbac.PermissionUseCase
	RoleUC         *rbac.RoleUseCase
	RegistrationUC *registration.UseCase
	CompanyUC      *usecase.CompanyUseCase
	UserUC         *usecase.UserUseCase

	Tokens   tokenParser
	Resolver principalResolver
	Engine   accessDecider
	Cookie   CookieSettings

	// AuthLimiter opcional; limita /api/v1/auth por IP.
	AuthLimiter rateLimiter
	// Metrics opcional; se sirve en /metrics.
	Metrics fiber.Handler
}

// Router registra las rutas de la API. Toda ruta de /api/v1 lleva el guard de permisos;
// las de la lista de exclusión pasan sin consultar el catálogo.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"name": "jobhunter-api"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", deps.Metrics)
	}

	// El límite de /auth va antes de Authenticate: una cabecera Bearer inválida también consume cupo.
	if deps.AuthLimiter != nil {
		app.Use("/api/v1/auth", RateLimit(deps.AuthLimiter))
	}

	api := app.Group("/api/v1", Authenticate(deps.Tokens, deps.Resolver))
	guard := RequirePermission(deps.Engine)

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie)
	authGroup.Post("/register", guard, authHandler.Register)
	authGroup.Get("/verify", guard, authHandler.Verify)
	authGroup.Post("/login", guard, authHandler.Login)
	authGroup.Get("/refresh", guard, authHandler.Refresh)
	authGroup.Post("/logout", guard, authHandler.Logout)
	authGroup.Get("/account", guard, authHandler.Account)
	authGroup.Put("/change-password", guard, authHandler.ChangePassword)

	// Companies
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/me", guard, companyHandler.Mine)
	companies.Get("/:id", guard, companyHandler.GetByID)

	// Users
	users := api.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", guard, userHandler.Create)
	users.Put("/", guard, userHandler.Update)
	users.Get("/", guard, userHandler.List)
	users.Get("/:id", guard, userHandler.GetByID)
	users.Delete("/:id", guard, userHandler.Delete)

	// Permissions
	permissions := api.Group("/permissions")
	permissionHandler := NewPermissionHandler(deps.PermissionUC)
	permissions.Post("/", guard, permissionHandler.Create)
	permissions.Put("/", guard, permissionHandler.Update)
	permissions.Get("/", guard, permissionHandler.List)
	permissions.Get("/:id", guard, permissionHandler.GetByID)
	permissions.Delete("/:id", guard, permissionHandler.Delete)

	// Roles
	roles := api.Group("/roles")
	roleHandler := NewRoleHandler(deps.RoleUC)
	roles.Post("/", guard, roleHandler.Create)
	roles.Put("/", guard, roleHandler.Update)
	roles.Get("/", guard, roleHandler.List)
	roles.Get("/:id", guard, roleHandler.GetByID)
	roles.Delete("/:id", guard, roleHandler.Delete)
	roles.Put("/:id/permissions", guard, roleHandler.AssignPermissions)

	// Company registrations
	registrations := api.Group("/company-registrations")
	registrationHandler := NewRegistrationHandler(deps.RegistrationUC)
	registrations.Post("/", guard, registrationHandler.Create)
	registrations.Get("/", guard, registrationHandler.List)
	registrations.Get("/:id", guard, registrationHandler.GetByID)
	registrations.Delete("/:id", guard, registrationHandler.Delete)
	registrations.Put("/:id/status", guard, registrationHandler.UpdateStatus)
}
