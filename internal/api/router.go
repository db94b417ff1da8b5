package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vidtube/video-platform/internal/api/handler"
	"github.com/vidtube/video-platform/internal/api/middleware"
	"github.com/vidtube/video-platform/internal/api/session"
	"github.com/vidtube/video-platform/internal/core/ports"
	"github.com/vidtube/video-platform/internal/core/service"
	"github.com/vidtube/video-platform/internal/infrastructure/config"
	mongodb "github.com/vidtube/video-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/vidtube/video-platform/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	assets ports.AssetStore,
	events ports.EventRecorder,
	cfg *config.Config,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("vidtube"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	hasher := service.NewPasswordHasher(0) // bcrypt default cost
	issuer := service.NewTokenIssuer(
		cfg.Token.AccessSecret,
		cfg.Token.RefreshSecret,
		cfg.Token.AccessTTL,
		cfg.Token.RefreshTTL,
	)
	authService := service.NewAuthService(userRepo, hasher, issuer, events, log)

	cookies := session.Config{
		Domain:     cfg.Cookie.Domain,
		Secure:     cfg.Cookie.Secure,
		AccessTTL:  cfg.Token.AccessTTL,
		RefreshTTL: cfg.Token.RefreshTTL,
	}

	identityCache := redisdb.NewIdentityCache(rdb)
	guard := middleware.Guard(issuer, userRepo, identityCache)

	authHandler := handler.NewAuthHandler(authService, assets, cookies)

	// --- Auth routes ---
	auth := e.Group("/api/v1/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout, guard)

	// --- Observability (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
