package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/identitykit/account-service/internal/api/handler"
	"github.com/identitykit/account-service/internal/api/middleware"
	"github.com/identitykit/account-service/internal/core/ports"
	"github.com/identitykit/account-service/internal/core/service"
	"github.com/identitykit/account-service/internal/infrastructure/config"
	mongodb "github.com/identitykit/account-service/internal/infrastructure/db/mongo"
	redisdb "github.com/identitykit/account-service/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The audit recorder is owned by the caller so its workers share the
// process lifecycle, not the router's.
func NewRouter(db *mongo.Database, rdb *redis.Client, audit ports.AuditRecorder, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	cache := redisdb.NewUserCache(rdb)
	issuer := service.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	userService := service.NewUserService(userRepo, cache, issuer, audit, cfg.NameMaxLength, log)
	authService := service.NewAuthService(userRepo, issuer)

	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(authService)
	authMiddleware := middleware.Auth(issuer)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)

	// --- User routes ---
	v1 := e.Group("/v1", authMiddleware)
	v1.PATCH("/users/:id", userHandler.Patch)
	v1.GET("/users/:id", userHandler.Get)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
