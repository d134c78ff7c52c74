package api

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/ponto/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/ponto/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/ponto/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/ponto/internal/auth"
	"github.com/saturnino-fabrica-de-software/ponto/internal/facematch"
	"github.com/saturnino-fabrica-de-software/ponto/internal/provider"
	"github.com/saturnino-fabrica-de-software/ponto/internal/repository"
	"github.com/saturnino-fabrica-de-software/ponto/internal/service"
)

type Dependencies struct {
	DB             *pgxpool.Pool
	Extractor      provider.Extractor
	Matcher        *facematch.Matcher
	JWT            *auth.JWTService
	ExtractTimeout time.Duration
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Ponto API",
		BodyLimit:    12 * 1024 * 1024,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Swagger documentation (no auth required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints (no auth required)
	var pinger handler.Pinger
	if r.deps != nil && r.deps.DB != nil {
		pinger = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(pinger)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps == nil {
		return
	}

	// Repositories
	userRepo := repository.NewUserRepository(r.deps.DB)
	departmentRepo := repository.NewDepartmentRepository(r.deps.DB)
	attendanceRepo := repository.NewAttendanceRepository(r.deps.DB)
	tokenRepo := repository.NewTokenRepository(r.deps.DB)
	auditRepo := repository.NewRecognitionAuditRepository(r.deps.DB)

	// Services
	enrollmentService := service.NewEnrollmentService(userRepo, r.deps.Extractor, r.deps.ExtractTimeout, r.logger)
	recognitionService := service.NewRecognitionService(
		userRepo,
		attendanceRepo,
		auditRepo,
		r.deps.Extractor,
		r.deps.Matcher,
		r.deps.ExtractTimeout,
		r.logger,
	)
	userService := service.NewUserService(
		userRepo,
		departmentRepo,
		tokenRepo,
		enrollmentService,
		r.deps.JWT,
		r.logger,
	)

	// Handlers
	userHandler := handler.NewUserHandler(userService, r.logger)
	attendanceHandler := handler.NewAttendanceHandler(recognitionService, r.logger)
	departmentHandler := handler.NewDepartmentHandler(userService, r.logger)

	apiGroup := r.app.Group("/api")

	// Public routes
	apiGroup.Post("/register/", userHandler.Register)
	apiGroup.Post("/login/", userHandler.Login)
	apiGroup.Get("/departments/", departmentHandler.List)

	// Authenticated routes. Registration order matters: routes above
	// stay public, everything registered after the middleware does not.
	apiGroup.Use(middleware.Auth(middleware.AuthDependencies{
		JWT:         r.deps.JWT,
		Users:       userRepo,
		Revocations: userService,
		Logger:      r.logger,
	}))

	apiGroup.Post("/logout/", userHandler.Logout)
	apiGroup.Get("/whoami/", userHandler.WhoAmI)
	apiGroup.Post("/start/", attendanceHandler.Start)
	apiGroup.Post("/start/upload/", attendanceHandler.StartUpload)
	apiGroup.Post("/verify-face/", attendanceHandler.VerifyFace)
	apiGroup.Get("/attendance/history/", attendanceHandler.History)
	apiGroup.Post("/departments/add/", departmentHandler.Add)
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}
