package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/bearister/auth-service/internal/api"
	"github.com/bearister/auth-service/internal/api/handlers"
	"github.com/bearister/auth-service/internal/auth"
	"github.com/bearister/auth-service/internal/mailer"
	"github.com/bearister/auth-service/internal/queue/tasks"
	"github.com/bearister/auth-service/internal/repository"
	"github.com/bearister/auth-service/internal/services"
	"github.com/bearister/auth-service/pkg/config"
	"github.com/bearister/auth-service/pkg/database"
	"github.com/bearister/auth-service/pkg/logger"

	_ "github.com/bearister/auth-service/docs"
)

// @title           Auth Service API
// @version         1.0
// @description     Account registration, email verification, JWT login and profile management.

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting auth service",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
	)
	if cfg.InsecureSecret {
		log.Warn("JWT_SECRET not set, using development default (INSECURE for production)")
	}

	// Connect to database
	ctx := context.Background()
	db, err := database.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL, cfg.AppEnv)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.DatabaseDriver))

	// SQLite is a development store; postgres schemas are owned by cmd/migrate.
	if cfg.DatabaseDriver == database.DriverSQLite {
		if err := repository.RunMigrations(db); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	tokens, err := auth.NewTokenCodec([]byte(cfg.JWTSecret), cfg.JWTAlgorithm)
	if err != nil {
		log.Fatal("Invalid token configuration", zap.Error(err))
	}

	sender, closeSender := newSender(cfg, log)
	defer closeSender()

	authSvc := services.NewAuthService(
		repository.NewUserRepository(db),
		auth.NewBcryptHasher(cfg.BcryptCost),
		tokens,
		sender,
		services.Options{
			AccessTTL:       cfg.AccessTokenTTL,
			RefreshTTL:      cfg.RefreshTokenTTL,
			VerificationTTL: cfg.VerificationTokenTTL,
			FrontendURL:     cfg.FrontendURL,
		},
	)

	// Create router with dependencies
	router := api.NewRouter(api.Dependencies{
		AuthHandler:    handlers.NewAuthHandler(authSvc),
		HealthHandler:  handlers.NewHealthHandler(func(ctx context.Context) error { return database.Ping(ctx, db) }),
		Authenticator:  authSvc,
		AllowedOrigins: cfg.AllowedOrigins(),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}

// newSender picks the outbound mail path from MAIL_DRIVER.
func newSender(cfg *config.Config, log *zap.Logger) (mailer.Sender, func()) {
	switch cfg.MailDriver {
	case "smtp":
		log.Info("mail delivery via smtp", zap.String("host", cfg.SMTPHost))
		return mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}), func() {}
	case "queue":
		log.Info("mail delivery via asynq", zap.String("redis", cfg.RedisAddr))
		client := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		return tasks.NewEmailEnqueuer(client), func() { _ = client.Close() }
	default:
		log.Warn("mail delivery disabled, messages are logged only")
		return mailer.NewLogSender(log), func() {}
	}
}
