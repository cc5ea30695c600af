package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/jobhunter-api/docs"
	"github.com/jhoicas/jobhunter-api/internal/application/access"
	"github.com/jhoicas/jobhunter-api/internal/application/auth"
	"github.com/jhoicas/jobhunter-api/internal/application/ports"
	"github.com/jhoicas/jobhunter-api/internal/application/rbac"
	"github.com/jhoicas/jobhunter-api/internal/application/registration"
	"github.com/jhoicas/jobhunter-api/internal/application/usecase"
	"github.com/jhoicas/jobhunter-api/internal/infrastructure/mail"
	"github.com/jhoicas/jobhunter-api/internal/infrastructure/metrics"
	"github.com/jhoicas/jobhunter-api/internal/infrastructure/postgres"
	"github.com/jhoicas/jobhunter-api/internal/infrastructure/ratelimit"
	httpRouter "github.com/jhoicas/jobhunter-api/internal/interfaces/http"
	"github.com/jhoicas/jobhunter-api/pkg/config"
	"github.com/jhoicas/jobhunter-api/pkg/logger"
)

// @title                       JobHunter API
// @version                     1.0
// @description                 Autenticación, sesiones y control de acceso por rol de JobHunter.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	permissionRepo := postgres.NewPermissionRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	registrationRepo := postgres.NewCompanyRegistrationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	if cfg.Bootstrap.Seed {
		seeder := rbac.NewSeeder(permissionRepo, roleRepo, userRepo, log)
		if err := seeder.Seed(ctx, rbac.AdminAccount{
			Email:    cfg.Bootstrap.AdminEmail,
			Password: cfg.Bootstrap.AdminPassword,
			Name:     "Administrador",
		}); err != nil {
			log.Fatal().Err(err).Msg("siembra inicial")
		}
	}

	mailer, closeMailer := newMailer(cfg, log)
	defer closeMailer()

	m := metrics.New(true)

	static, err := access.CompileExclusions(cfg.Access.Whitelist)
	if err != nil {
		log.Fatal().Err(err).Msg("lista blanca de acceso")
	}
	registrationPattern, err := access.CompilePattern(cfg.Access.RegistrationPattern)
	if err != nil {
		log.Fatal().Err(err).Msg("patrón de registro de empresas")
	}

	catalog := rbac.NewCatalog(permissionRepo, roleRepo)
	engine := access.NewEngine(static, registrationPattern, catalog, m)

	tokens := auth.NewTokenService(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  time.Duration(cfg.JWT.AccessTokenExpiration) * time.Second,
		RefreshTTL: time.Duration(cfg.JWT.RefreshTokenExpiration) * time.Second,
	})
	authUC := auth.NewAuthUseCase(userRepo, roleRepo, tokens, mailer, cfg.Mail.VerifyBaseURL, log, m)
	permissionUC := rbac.NewPermissionUseCase(permissionRepo, catalog)
	roleUC := rbac.NewRoleUseCase(roleRepo, catalog)
	registrationUC := registration.NewUseCase(registrationRepo, roleRepo, catalog, txRunner, cfg.Registration.ApprovedRole)
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	userUC := usecase.NewUserUseCase(userRepo, roleRepo, companyRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(m.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "JobHunter API",
	}))

	deps := httpRouter.RouterDeps{
		AuthUC:         authUC,
		PermissionUC:   permissionUC,
		RoleUC:         roleUC,
		RegistrationUC: registrationUC,
		CompanyUC:      companyUC,
		UserUC:         userUC,
		Tokens:         tokens,
		Resolver:       access.NewPrincipalResolver(userRepo),
		Engine:         engine,
		Cookie: httpRouter.CookieSettings{
			Secure: cfg.Cookie.Secure,
			MaxAge: tokens.RefreshTTL(),
		},
		Metrics: m.Handler(),
	}
	if cfg.RateLimit.Enabled {
		limiter, err := newLimiter(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("rate limit")
		}
		deps.AuthLimiter = limiter
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// newMailer elige el transporte del correo de verificación.
func newMailer(cfg *config.Config, log *logger.Logger) (ports.Mailer, func()) {
	switch cfg.Mail.Transport {
	case "smtp":
		return mail.NewSMTPMailer(cfg.Mail), func() {}
	case "amqp":
		p := mail.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, log)
		return p, p.Close
	default:
		return mail.NewLogMailer(log), func() {}
	}
}

func newLimiter(cfg *config.Config) (ratelimit.Limiter, error) {
	if cfg.RateLimit.Backend == "redis" {
		client, err := ratelimit.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
		return ratelimit.NewRedis(client, "ratelimit:auth", cfg.RateLimit.Burst, window), nil
	}
	return ratelimit.NewMemory(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst), nil
}
