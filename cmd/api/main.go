package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/talentbridge/api/internal/auth"
	"github.com/talentbridge/api/internal/background"
	"github.com/talentbridge/api/internal/config"
	"github.com/talentbridge/api/internal/database"
	"github.com/talentbridge/api/internal/handlers"
	middlewareCustom "github.com/talentbridge/api/internal/middleware"
	"github.com/talentbridge/api/internal/models"
	"github.com/talentbridge/api/internal/repositories"
	"github.com/talentbridge/api/internal/routes"
	"github.com/talentbridge/api/internal/services"
	pkgauth "github.com/talentbridge/api/pkg/auth"
	pkglogger "github.com/talentbridge/api/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Run embedded migrations
	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := db.Migrate(migrateCtx); err != nil {
		migrateCancel()
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	migrateCancel()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	codeRepo := repositories.NewVerificationCodeRepository(db)

	// Initialize cleanup manager
	cleanupManager := background.NewCleanupManager(codeRepo, logger, cfg.Auth.CleanupInterval)

	// Initialize token manager
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTokenExpiry)

	auditLogger := pkglogger.NewAuditLogger(logger)

	// AWS SES email service
	emailService, err := services.NewAWSSESEmailService(
		cfg.Email.AWSRegion,
		cfg.Email.FromAddress,
		logger,
	)
	if err != nil {
		logger.Error("failed to initialize email service", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize services
	verificationService := services.NewVerificationService(
		codeRepo,
		userRepo,
		emailService,
		logger,
		cfg.Auth.CodeExpiry,
		cfg.Auth.SuperAdminEmail,
	)
	authService := services.NewAuthService(userRepo, tokenManager, logger, auditLogger)
	userService := services.NewUserService(userRepo, logger, auditLogger)

	// Initialize handlers
	cookieConfig := auth.CookieConfig{
		Secure: cfg.Server.Env == "production",
	}
	sessionMaxAge := int(cfg.Auth.SessionTokenExpiry.Seconds())

	authHandler := handlers.NewAuthHandler(authService, verificationService, cookieConfig, sessionMaxAge)
	userHandler := handlers.NewUserHandler(authService)
	adminHandler := handlers.NewAdminHandler(userService)

	// Bootstrap the super-admin account if configured
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ensureSuperAdmin(ctx, userRepo, cfg.Auth.SuperAdminEmail, logger); err != nil {
		logger.Error("failed to ensure super admin user", slog.Any("error", err))
	}
	cancel()

	// Setup CORS middleware
	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, authHandler, userHandler, adminHandler, tokenManager, userRepo, cfg.Auth.SuperAdminEmail)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// ensureSuperAdmin creates the super-admin account if SUPER_ADMIN_EMAIL and
// SUPER_ADMIN_PASSWORD are set and no such user exists yet. The account is
// created verified with both flags; authorization still compares emails live
// on every request.
func ensureSuperAdmin(ctx context.Context, userRepo *repositories.UserRepository, superAdminEmail string, logger *slog.Logger) error {
	superAdminPassword := os.Getenv("SUPER_ADMIN_PASSWORD")

	if superAdminEmail == "" || superAdminPassword == "" {
		logger.Info("no SUPER_ADMIN_EMAIL or SUPER_ADMIN_PASSWORD set, skipping super admin creation")
		return nil
	}

	_, err := userRepo.GetByEmail(ctx, superAdminEmail)
	if err == nil {
		logger.Info("super admin user already exists")
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to check if super admin exists: %w", err)
	}

	hashedPassword, err := pkgauth.HashPassword(superAdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash super admin password: %w", err)
	}

	admin := &models.User{
		Name:         "Super Admin",
		Email:        superAdminEmail,
		Phone:        os.Getenv("SUPER_ADMIN_PHONE"),
		PasswordHash: hashedPassword,
		IsAdmin:      true,
		SuperAdmin:   true,
		IsVerified:   true,
	}

	if _, err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create super admin user: %w", err)
	}

	logger.Info("super admin user created successfully")
	return nil
}
