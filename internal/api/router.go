package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/youbook/booking-api/internal/api/handler"
	"github.com/youbook/booking-api/internal/api/middleware"
	"github.com/youbook/booking-api/internal/core/domain"
	"github.com/youbook/booking-api/internal/core/ports"
	"github.com/youbook/booking-api/internal/core/service"
	"github.com/youbook/booking-api/internal/infrastructure/config"
	"github.com/youbook/booking-api/internal/infrastructure/db/redis"
	"github.com/youbook/booking-api/internal/infrastructure/supabase"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// Every dependency is constructed here from the explicitly passed clients;
// nothing reaches for global state.
func NewRouter(cfg *config.Config, sb *supabase.Client, rdb *goredis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("youbook"))

	// --- Outbound adapters ---
	idp := supabase.NewIdentityProvider(sb)
	profileRepo := supabase.NewProfileRepository(sb)
	walletRepo := supabase.NewWalletRepository(sb)

	var limiter ports.AttemptLimiter
	if rdb != nil {
		limiter = redis.NewAttemptLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.AttemptWindow)
	}

	// --- Core services ---
	tokens := service.NewTokenService(cfg.JWTSecret)
	authService := service.NewAuthService(idp, profileRepo, tokens, cfg.TokenTTL, cfg.ResetRedirectURL(), log)
	provisioning := service.NewProvisioningService(idp, profileRepo, walletRepo, tokens, cfg.TokenTTL, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, provisioning, limiter, log)
	adminHandler := handler.NewAdminHandler(authService, provisioning, profileRepo, idp, cfg.AdminRedirectURL, log)
	profileHandler := handler.NewProfileHandler(profileRepo)

	authenticated := middleware.Auth(tokens, profileRepo)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/refresh-token", authHandler.Refresh, authenticated)
	auth.GET("/me", authHandler.Me, authenticated)

	// --- Admin routes ---
	admin := e.Group("/admin")
	admin.POST("/login", adminHandler.Login)
	admin.POST("/signup", adminHandler.Signup)
	admin.POST("/resend-confirmation", adminHandler.ResendConfirmation, authenticated, adminOnly)
	admin.GET("/users", adminHandler.ListUsers, authenticated, adminOnly)
	admin.PUT("/users/:id/role", adminHandler.UpdateUserRole, authenticated, adminOnly)

	// --- Profile routes ---
	profiles := e.Group("/profiles", authenticated)
	profiles.GET("", profileHandler.Get)
	profiles.PUT("", profileHandler.Update)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(sb, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
