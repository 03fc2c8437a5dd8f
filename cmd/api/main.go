// Package main is the entry point for the ajenda API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/zohair-aabidi/ajenda/internal/config"
	"github.com/zohair-aabidi/ajenda/internal/database"
	"github.com/zohair-aabidi/ajenda/internal/handlers"
	"github.com/zohair-aabidi/ajenda/internal/metrics"
	"github.com/zohair-aabidi/ajenda/internal/repository"
	"github.com/zohair-aabidi/ajenda/internal/routes"
	"github.com/zohair-aabidi/ajenda/internal/service"
	"github.com/zohair-aabidi/ajenda/internal/validation"
	"github.com/zohair-aabidi/ajenda/pkg/logger"
	"github.com/zohair-aabidi/ajenda/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

// @title Ajenda API
// @version 1.0
// @description Calendar backend with JWT authentication and role-based access
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("Server failed")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := validation.RegisterGin(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	// Initialize database
	db, err := database.Connect(ctx, cfg.DSN(), database.DefaultPoolConfig())
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	defer sqlDB.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	healthChecks := map[string]handlers.Pinger{
		"database": handlers.PingerFunc(sqlDB.PingContext),
	}

	// Initialize Redis (optional)
	throttle := service.NewNoopLoginThrottle()
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		throttle = service.NewRedisLoginThrottle(redisClient, cfg.LoginMaxAttempts, cfg.LoginLockout, log)
		healthChecks["redis"] = handlers.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	} else {
		log.Warn("REDIS_URL not set, signin throttling disabled")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	actionLogRepo := repository.NewActionLogRepository(db)

	// Initialize services
	hasher, err := service.NewPasswordHasher(cfg.BCryptCost)
	if err != nil {
		return err
	}
	tokens, err := service.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return err
	}
	verifier, err := service.NewCredentialVerifier(userRepo, hasher, log)
	if err != nil {
		return err
	}
	resolver := service.NewIdentityResolver(userRepo)
	authenticator := service.NewRequestAuthenticator(tokens, resolver, log)

	authService := service.NewAuthService(userRepo, verifier, tokens, hasher, throttle, log)
	eventService := service.NewEventService(eventRepo)

	metricsCollector := metrics.New(prometheus.DefaultRegisterer)

	// Initialize handlers
	h := routes.Handlers{
		Auth:    handlers.NewAuthHandler(authService, actionLogRepo, metricsCollector, log),
		Events:  handlers.NewEventHandler(eventService, log),
		Content: handlers.NewContentHandler(),
		Health:  handlers.NewHealthHandler(healthChecks),
	}

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	routes.Setup(router, h, cfg, authenticator, metricsCollector, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"port":        cfg.Port,
			"environment": cfg.Environment,
		}).Info("Starting ajenda API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
