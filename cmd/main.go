package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rings-s/anha/internal/caching"
	"github.com/rings-s/anha/internal/config"
	"github.com/rings-s/anha/internal/handlers"
	"github.com/rings-s/anha/internal/jobs/background"
	"github.com/rings-s/anha/internal/metrics"
	appMiddleware "github.com/rings-s/anha/internal/middleware"
	"github.com/rings-s/anha/internal/repositories"
	"github.com/rings-s/anha/internal/services"
	"github.com/rings-s/anha/pkg/database"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"

	shutdownTimeout = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	logger := setupLogger(cfg.Env)
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	minioSvc, err := services.NewMinioService(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	if err := minioSvc.EnsureBucketExists(ctx, cfg.Minio.Bucket); err != nil {
		log.Fatalf("Failed to ensure bucket %q: %v", cfg.Minio.Bucket, err)
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	serviceRepo := repositories.NewServiceRepo(pool)
	bookingRepo := repositories.NewBookingRepo(pool)
	reviewRepo := repositories.NewReviewRepo(pool)
	tokenRepo := repositories.NewTokenRepo(pool)

	// Services
	credSvc := services.NewCredentialService(cfg.JWTSecret, cfg.AccessTokenTTL)
	identitySvc := services.NewIdentityService(credSvc, userRepo)
	notifier := services.NewSMTPNotifier(cfg.SMTP, cfg.BaseURL)
	userSvc := services.NewUserService(userRepo, tokenRepo, credSvc, notifier, appMetrics, cfg.ResetTokenTTL)
	bookingSvc := services.NewBookingService(bookingRepo, serviceRepo, reviewRepo, userRepo, appMetrics)
	catalogSvc := services.NewCatalogService(serviceRepo, minioSvc, cacheSvc, cfg.Minio.Bucket)
	reportSvc := services.NewReportService(bookingRepo, serviceRepo, userRepo)

	// Middleware
	authMw := appMiddleware.NewAuthMiddleware(identitySvc)
	rateLimitMw := appMiddleware.NewRateLimitMiddleware(cacheSvc, appMetrics, cfg.RateLimitMax, cfg.RateLimitWindow)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(userSvc, credSvc, userRepo, cfg.AccessTokenTTL, cfg.Env == envProd)
	bookingHandlers := handlers.NewBookingHandlers(bookingSvc)
	catalogHandlers := handlers.NewCatalogHandlers(catalogSvc)
	adminHandlers := handlers.NewAdminHandlers(userSvc, reportSvc, bookingRepo, serviceRepo, reviewRepo, userRepo)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs
	scheduler, err := background.NewJobScheduler(tokenRepo)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			slog.Error("scheduler shutdown failed", "error", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowCredentials: true,
	}))

	registerRoutes(e, reg, authMw, rateLimitMw, authHandlers, bookingHandlers, catalogHandlers, adminHandlers, healthHandlers)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		slog.Info("starting server", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	slog.Info("server stopped gracefully")
}

func registerRoutes(
	e *echo.Echo,
	reg *prometheus.Registry,
	authMw *appMiddleware.AuthMiddleware,
	rateLimitMw *appMiddleware.RateLimitMiddleware,
	authHandlers *handlers.AuthHandlers,
	bookingHandlers *handlers.BookingHandlers,
	catalogHandlers *handlers.CatalogHandlers,
	adminHandlers *handlers.AdminHandlers,
	healthHandlers *handlers.HealthHandlers,
) {
	// Probes and metrics
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Public auth endpoints, rate limited per route and client IP
	e.POST("/auth/register", authHandlers.Register, rateLimitMw.Limit("register"))
	e.POST("/auth/login", authHandlers.Login, rateLimitMw.Limit("login"))
	e.POST("/auth/password-reset/request", authHandlers.RequestPasswordReset, rateLimitMw.Limit("reset-request"))
	e.POST("/auth/password-reset/confirm", authHandlers.ConfirmPasswordReset, rateLimitMw.Limit("reset-confirm"))
	e.POST("/auth/logout", authHandlers.Logout)
	e.GET("/auth/me", authHandlers.Me, authMw.RequireIdentity())

	// Public catalog, identity resolved when the cookie is present
	catalog := e.Group("/services", authMw.OptionalIdentity())
	catalog.GET("", catalogHandlers.List)
	catalog.GET("/:id", catalogHandlers.Get)
	catalog.GET("/:id/image-url", catalogHandlers.ImageURL)

	// Bookings, authenticated
	bookings := e.Group("/bookings", authMw.RequireIdentity())
	bookings.POST("", bookingHandlers.Create)
	bookings.GET("", bookingHandlers.List)
	bookings.GET("/:id", bookingHandlers.Get)
	bookings.POST("/:id/status", bookingHandlers.Transition, appMiddleware.RequireAction(services.ActionTransitionBooking))
	bookings.POST("/:id/assign", bookingHandlers.Assign, appMiddleware.RequireAction(services.ActionAssignBooking))
	bookings.POST("/:id/review", bookingHandlers.SubmitReview)

	// Admin surface
	admin := e.Group("/admin", authMw.RequireIdentity())

	adminUsers := admin.Group("/users", appMiddleware.RequireAction(services.ActionManageUsers))
	adminUsers.GET("", adminHandlers.ListUsers)
	adminUsers.POST("", adminHandlers.CreateUser)
	adminUsers.PUT("/:id", adminHandlers.UpdateUser)
	adminUsers.DELETE("/:id", adminHandlers.DeleteUser)
	adminUsers.GET("/staff", adminHandlers.ListStaff)

	adminServices := admin.Group("/services", appMiddleware.RequireAction(services.ActionManageServices))
	adminServices.POST("", catalogHandlers.Create)
	adminServices.PUT("/:id", catalogHandlers.Update)
	adminServices.DELETE("/:id", catalogHandlers.Delete)
	adminServices.POST("/:id/image", catalogHandlers.UploadImage)

	adminBookings := admin.Group("/bookings", appMiddleware.RequireAction(services.ActionManageBookings))
	adminBookings.PUT("/:id", adminHandlers.UpdateBooking)
	adminBookings.DELETE("/:id", adminHandlers.DeleteBooking)
	adminBookings.GET("/export", adminHandlers.ExportBookings)

	admin.GET("/stats", adminHandlers.Stats, appMiddleware.RequireAction(services.ActionManageBookings))
}

// setupLogger picks the slog handler for the environment. Unknown
// environments log errors only.
func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	logger.Error("unknown environment, logging errors only", "env", env, "available_envs", "local, development, production")
	return logger
}
