package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/currency_api/internal/adapters/upstream/exchangerateapi"
	portssvc "github.com/SscSPs/currency_api/internal/core/ports/services"
	"github.com/SscSPs/currency_api/internal/core/services"
	"github.com/SscSPs/currency_api/internal/platform/config"
	"github.com/SscSPs/currency_api/internal/platform/metrics"
	"github.com/SscSPs/currency_api/internal/repositories/database/pgsql"
	"github.com/SscSPs/currency_api/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
)

// app is the service graph a command runs against. No HTTP server, cache or publisher.
type app struct {
	cfg       *config.Config
	pool      *pgxpool.Pool
	container *portssvc.ServiceContainer
}

func newApp(ctx context.Context, logger *slog.Logger) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return nil, err
	}
	logger.Debug("Database connection pool established.")

	container := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(pool), services.Gateways{
		RateProvider: exchangerateapi.NewClient(cfg.Refresh.UpstreamURL, exchangerateapi.WithTimeout(cfg.Refresh.UpstreamTimeout)),
		Metrics:      metrics.NewMetrics(cfg.MetricsNamespace),
	})
	return &app{cfg: cfg, pool: pool, container: container}, nil
}

func (a *app) Close() {
	database.ClosePgxPool(a.pool)
}
