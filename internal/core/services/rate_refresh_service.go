package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
	"github.com/SscSPs/currency_api/internal/core/ports/gateways"
	portssvc "github.com/SscSPs/currency_api/internal/core/ports/services"
	"github.com/SscSPs/currency_api/internal/platform/config"
	"github.com/SscSPs/currency_api/internal/platform/metrics"
)

// StoreErrorMessage is the refresh failure reported when the fetched rates could not be persisted.
const StoreErrorMessage = "Store Error: failed to save rates to database"

type rateRefreshService struct {
	BaseService
	provider  gateways.RateProvider
	rates     portssvc.ExchangeRateSvcFacade
	cfg       config.RefreshConfig
	audit     portssvc.AuditLoggerSvc
	publisher gateways.RateEventPublisher
	metrics   *metrics.Metrics
}

// RateRefreshServiceOption configures the refresh service.
type RateRefreshServiceOption func(*rateRefreshService)

// WithRefreshAuditLogger records every RefreshAndRecord run as a rate update log.
func WithRefreshAuditLogger(audit portssvc.AuditLoggerSvc) RateRefreshServiceOption {
	return func(s *rateRefreshService) {
		s.audit = audit
	}
}

// WithRateEventPublisher announces successful refreshes.
func WithRateEventPublisher(publisher gateways.RateEventPublisher) RateRefreshServiceOption {
	return func(s *rateRefreshService) {
		s.publisher = publisher
	}
}

// WithRefreshMetrics records refresh and provider metrics.
func WithRefreshMetrics(m *metrics.Metrics) RateRefreshServiceOption {
	return func(s *rateRefreshService) {
		s.metrics = m
	}
}

// WithRefreshClock overrides the clock used for timings and timestamps.
func WithRefreshClock(clock func() time.Time) RateRefreshServiceOption {
	return func(s *rateRefreshService) {
		s.Clock = clock
	}
}

// NewRateRefreshService creates the service that pulls rates from upstream into the store.
func NewRateRefreshService(provider gateways.RateProvider, rates portssvc.ExchangeRateSvcFacade, cfg config.RefreshConfig, opts ...RateRefreshServiceOption) portssvc.RateRefreshSvc {
	s := &rateRefreshService{provider: provider, rates: rates, cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpdateRates fetches the upstream table once and replaces the stored rates of its base.
func (s *rateRefreshService) UpdateRates(ctx context.Context) domain.RateRefreshResult {
	return s.refresh(ctx, domain.RateUpdateSourceAPI)
}

func (s *rateRefreshService) refresh(ctx context.Context, source string) domain.RateRefreshResult {
	providerName := s.provider.Name()

	fetchStart := s.Now()
	upstream, err := s.provider.FetchLatest(ctx)
	apiTime := s.Now().Sub(fetchStart)

	if err != nil {
		message := string(gateways.FetchErrorNetwork) + ": " + err.Error()
		kind := string(gateways.FetchErrorNetwork)
		if fe, ok := gateways.AsFetchError(err); ok {
			message = fe.Error()
			kind = string(fe.Kind)
		}
		s.metrics.RecordProviderRequest(providerName, "error", apiTime.Seconds())
		s.metrics.RecordProviderError(providerName, kind)
		s.LogWarn(ctx, "Upstream rate fetch failed", slog.String("provider", providerName), slog.String("error", message))
		return domain.RateRefreshResult{Success: false, Error: message, APIResponseTime: apiTime}
	}
	s.metrics.RecordProviderRequest(providerName, "success", apiTime.Seconds())

	base := normalizeCode(upstream.BaseCurrency)
	if base == "" {
		base = normalizeCode(s.cfg.BaseCurrency)
	}

	if err := s.rates.SaveRates(ctx, base, upstream.Rates); err != nil {
		s.LogError(ctx, err, "Failed to store refreshed rates", slog.String("base", base))
		return domain.RateRefreshResult{Success: false, BaseCurrency: base, Error: StoreErrorMessage, APIResponseTime: apiTime}
	}

	result := domain.RateRefreshResult{
		Success:         true,
		BaseCurrency:    base,
		RatesCount:      len(upstream.Rates),
		UpdatedAt:       s.Now().UTC(),
		APIResponseTime: apiTime,
	}

	if s.publisher != nil {
		event := domain.RatesUpdatedEvent{
			BaseCurrency: base,
			RatesCount:   result.RatesCount,
			UpdatedAt:    result.UpdatedAt,
			Source:       source,
		}
		if err := s.publisher.PublishRatesUpdated(ctx, event); err != nil {
			s.LogWarn(ctx, "Failed to publish rates updated event", slog.String("base", base), slog.String("error", err.Error()))
		}
	}

	s.LogInfo(ctx, "Exchange rates refreshed", slog.String("base", base), slog.Int("count", result.RatesCount), slog.Duration("api_time", apiTime))
	return result
}

// ShouldUpdate is true when the configured base currency is stale or missing.
func (s *rateRefreshService) ShouldUpdate(ctx context.Context) (bool, error) {
	fresh, err := s.rates.IsFresh(ctx, s.cfg.BaseCurrency, s.cfg.UpdateInterval)
	if err != nil {
		return false, err
	}
	return !fresh, nil
}

// RefreshAndRecord refreshes and appends one rate update log tagged with source.
func (s *rateRefreshService) RefreshAndRecord(ctx context.Context, source string) domain.RateRefreshResult {
	start := s.Now()
	result := s.refresh(ctx, source)
	result.ExecutionTime = s.Now().Sub(start)

	base := result.BaseCurrency
	if base == "" {
		base = normalizeCode(s.cfg.BaseCurrency)
	}

	s.metrics.RecordRefresh(source, result.Success, base, result.RatesCount, result.ExecutionTime.Seconds())

	if s.audit != nil {
		executionMs := result.ExecutionTime.Milliseconds()
		apiMs := result.APIResponseTime.Milliseconds()
		entry := domain.RateUpdateLog{
			BaseCurrency:      base,
			RatesCount:        result.RatesCount,
			UpdateSource:      source,
			Success:           result.Success,
			ExecutionTimeMs:   &executionMs,
			APIResponseTimeMs: &apiMs,
		}
		if !result.Success {
			message := result.Error
			entry.ErrorMessage = &message
		}
		s.audit.LogRateUpdate(ctx, entry)
	}

	return result
}
