package services

import (
	"github.com/SscSPs/currency_api/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/currency_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_api/internal/core/ports/services"
	"github.com/SscSPs/currency_api/internal/platform/config"
	"github.com/SscSPs/currency_api/internal/platform/metrics"
)

// Gateways groups the outbound adapters. RateCache, Publisher and Metrics are optional.
type Gateways struct {
	RateProvider gateways.RateProvider
	RateCache    gateways.RateCache
	Publisher    gateways.RateEventPublisher
	Metrics      *metrics.Metrics
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, gw Gateways) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	rateOpts := []ExchangeRateServiceOption{WithExchangeRateMetrics(gw.Metrics)}
	if gw.RateCache != nil {
		rateOpts = append(rateOpts, WithRateCache(gw.RateCache, cfg.Refresh.UpdateInterval))
	}
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, rateOpts...)
	container.Conversion = NewConversionService(container.ExchangeRate, WithConversionMetrics(gw.Metrics))

	container.Device = NewDeviceService(repos.DeviceRepo)

	// The audit logger only gets the lookup half of the device repository.
	container.AuditLogger = NewAuditLoggerService(
		repos.AuditLogRepo,
		repos.StatisticsRepo,
		repos.DeviceRepo,
		cfg.Audit,
		WithAuditMetrics(gw.Metrics),
	)

	refreshOpts := []RateRefreshServiceOption{
		WithRefreshAuditLogger(container.AuditLogger),
		WithRefreshMetrics(gw.Metrics),
	}
	if gw.Publisher != nil {
		refreshOpts = append(refreshOpts, WithRateEventPublisher(gw.Publisher))
	}
	container.RateRefresh = NewRateRefreshService(gw.RateProvider, container.ExchangeRate, cfg.Refresh, refreshOpts...)

	container.Reporting = NewReportingService(repos.ReportingRepo, repos.StatisticsRepo, WithReportingLocation(cfg.Location))
	container.AdminAuth = NewAdminAuthService(cfg)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)
	_ portssvc.ConversionSvc         = (*conversionService)(nil)
	_ portssvc.RateRefreshSvc        = (*rateRefreshService)(nil)
	_ portssvc.DeviceSvcFacade       = (*deviceService)(nil)
	_ portssvc.AuditLoggerSvc        = (*auditLoggerService)(nil)
	_ portssvc.AdminAuthSvc          = (*adminAuthService)(nil)
)
