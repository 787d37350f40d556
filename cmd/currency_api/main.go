package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/currency_api/internal/adapters/cache"
	"github.com/SscSPs/currency_api/internal/adapters/messaging/publisher"
	"github.com/SscSPs/currency_api/internal/adapters/upstream/exchangerateapi"
	"github.com/SscSPs/currency_api/internal/background"
	"github.com/SscSPs/currency_api/internal/core/services"
	"github.com/SscSPs/currency_api/internal/handlers"
	"github.com/SscSPs/currency_api/internal/middleware"
	"github.com/SscSPs/currency_api/internal/platform/config"
	"github.com/SscSPs/currency_api/internal/platform/metrics"
	"github.com/SscSPs/currency_api/internal/repositories/database/pgsql"
	"github.com/SscSPs/currency_api/internal/utils"
	"github.com/SscSPs/currency_api/pkg/database"
	"github.com/gin-gonic/gin"
)

const (
	loginRateLimit  = "5-M"
	shutdownTimeout = 15 * time.Second
)

// @title Currency API
// @version 1.0
// @description Exchange rates, conversions and device audit trail.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	changed, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, database.MigrateUp)
	if err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if changed {
		logger.Info("Database migrations applied successfully.")
	} else {
		logger.Info("No new migrations to apply.")
	}

	appMetrics := metrics.NewMetrics(cfg.MetricsNamespace)
	gateways := services.Gateways{
		RateProvider: exchangerateapi.NewClient(cfg.Refresh.UpstreamURL, exchangerateapi.WithTimeout(cfg.Refresh.UpstreamTimeout)),
		Metrics:      appMetrics,
	}

	if cfg.Cache.Enabled() {
		redisClient, err := database.NewRedisClient(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			// The cache is optional; rates are still served from PostgreSQL.
			logger.Warn("Redis unavailable, rate cache disabled", slog.String("error", err.Error()))
		} else {
			defer redisClient.Close()
			gateways.RateCache = cache.NewRedisRateCache(redisClient)
			logger.Info("Rate cache enabled", slog.String("addr", cfg.Cache.RedisAddr))
		}
	}

	if cfg.Kafka.Enabled() {
		kafkaPublisher := publisher.NewKafkaRatePublisher(cfg.Kafka.Brokers, cfg.Kafka.RatesTopic)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				logger.Error("Error closing kafka publisher", slog.String("error", err.Error()))
			}
		}()
		gateways.Publisher = kafkaPublisher
		logger.Info("Rate events enabled", slog.String("topic", cfg.Kafka.RatesTopic))
	}

	container := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), gateways)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	apiLimiter, err := middleware.NewMemoryLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	loginLimiter, err := middleware.NewMemoryLimiter(loginRateLimit)
	if err != nil {
		logger.Error("Invalid login rate limit", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, handlers.RouteOptions{
		Metrics:      appMetrics,
		Posthog:      posthogClient,
		APILimiter:   apiLimiter,
		LoginLimiter: loginLimiter,
	})

	var tasks *background.Tasks
	if cfg.Refresh.SchedulerEnabled {
		tasks = background.NewTasks(container.RateRefresh, cfg.Refresh.CheckInterval, logger)
		tasks.StartAll(ctx)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	if tasks != nil {
		tasks.Wait()
	}
	logger.Info("Server stopped")
}
