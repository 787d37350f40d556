package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/currency_api/internal/apperrors"
	"github.com/SscSPs/currency_api/internal/core/domain"
	"github.com/SscSPs/currency_api/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/currency_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_api/internal/core/ports/services"
	"github.com/SscSPs/currency_api/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

const rateCacheType = "rates"

// exchangeRateService is the rate store: Postgres behind an optional Redis read-through cache.
type exchangeRateService struct {
	BaseService
	repo     portsrepo.ExchangeRateRepositoryFacade
	cache    gateways.RateCache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

// ExchangeRateServiceOption configures the exchange rate service.
type ExchangeRateServiceOption func(*exchangeRateService)

// WithRateCache puts a cache in front of the repository. A nil cache is ignored.
func WithRateCache(cache gateways.RateCache, ttl time.Duration) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithExchangeRateMetrics records cache hits and misses.
func WithExchangeRateMetrics(m *metrics.Metrics) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.metrics = m
	}
}

// WithExchangeRateClock overrides the clock used for freshness and timestamps.
func WithExchangeRateClock(clock func() time.Time) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.Clock = clock
	}
}

// NewExchangeRateService creates the rate store service.
func NewExchangeRateService(repo portsrepo.ExchangeRateRepositoryFacade, opts ...ExchangeRateServiceOption) portssvc.ExchangeRateSvcFacade {
	s := &exchangeRateService{repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetRate returns the most recent rate for a pair or nil, nil when none is stored.
func (s *exchangeRateService) GetRate(ctx context.Context, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error) {
	base, target := normalizeCode(baseCurrency), normalizeCode(targetCurrency)
	if base == "" || target == "" {
		return nil, apperrors.NewValidationError("base and target currency codes are required")
	}

	if s.cache == nil {
		return s.repo.FindLatestRate(ctx, base, target)
	}

	rates, err := s.cachedRates(ctx, base)
	if err != nil {
		return nil, err
	}
	for i := range rates {
		if rates[i].TargetCurrency == target {
			rate := rates[i]
			return &rate, nil
		}
	}
	return nil, nil
}

// GetAllRates returns every stored rate of a base ordered by target code.
func (s *exchangeRateService) GetAllRates(ctx context.Context, baseCurrency string) ([]domain.ExchangeRate, error) {
	base := normalizeCode(baseCurrency)
	if base == "" {
		return nil, apperrors.NewValidationError("base currency code is required")
	}

	if s.cache == nil {
		return s.repo.ListRatesByBase(ctx, base)
	}
	return s.cachedRates(ctx, base)
}

// cachedRates serves the whole rate set of a base from the cache, loading it on a miss.
// Cache failures degrade to a direct repository read.
func (s *exchangeRateService) cachedRates(ctx context.Context, base string) ([]domain.ExchangeRate, error) {
	rates, ok, err := s.cache.GetRates(ctx, base)
	if err != nil {
		s.LogWarn(ctx, "Rate cache read failed, reading from database", slog.String("base", base), slog.String("error", err.Error()))
		return s.repo.ListRatesByBase(ctx, base)
	}
	if ok {
		s.metrics.RecordCacheHit(rateCacheType)
		return rates, nil
	}

	s.metrics.RecordCacheMiss(rateCacheType)
	rates, err = s.repo.ListRatesByBase(ctx, base)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetRates(ctx, base, rates, s.cacheTTL); err != nil {
		s.LogWarn(ctx, "Failed to populate rate cache", slog.String("base", base), slog.String("error", err.Error()))
		return rates, nil
	}
	s.dropIfSuperseded(ctx, base, rates)
	return rates, nil
}

// dropIfSuperseded removes a just-cached set when a newer one was committed after it was read.
// SaveRates invalidates only after its commit, so either that invalidation or this check
// clears a set cached from rows read before the commit.
func (s *exchangeRateService) dropIfSuperseded(ctx context.Context, base string, cached []domain.ExchangeRate) {
	stored, err := s.repo.FindLastUpdated(ctx, base)
	if err != nil {
		s.LogWarn(ctx, "Could not verify cached rates, dropping them", slog.String("base", base), slog.String("error", err.Error()))
	} else if stored == nil || !stored.After(latestUpdate(cached)) {
		return
	}
	if err := s.cache.Invalidate(ctx, base); err != nil {
		s.LogWarn(ctx, "Failed to drop superseded rate cache", slog.String("base", base), slog.String("error", err.Error()))
	}
}

func latestUpdate(rates []domain.ExchangeRate) time.Time {
	var latest time.Time
	for _, r := range rates {
		if r.LastUpdated.After(latest) {
			latest = r.LastUpdated
		}
	}
	return latest
}

// IsFresh reports whether the newest rate of a base is younger than maxAge.
// A base without rows, or a non-positive maxAge, is never fresh.
func (s *exchangeRateService) IsFresh(ctx context.Context, baseCurrency string, maxAge time.Duration) (bool, error) {
	if maxAge <= 0 {
		return false, nil
	}
	base := normalizeCode(baseCurrency)
	if base == "" {
		return false, apperrors.NewValidationError("base currency code is required")
	}

	lastUpdated, err := s.repo.FindLastUpdated(ctx, base)
	if err != nil {
		return false, err
	}
	if lastUpdated == nil {
		return false, nil
	}
	return s.Now().Sub(*lastUpdated) < maxAge, nil
}

// SaveRates atomically replaces the rate set of a base, stamping every row with the same time.
func (s *exchangeRateService) SaveRates(ctx context.Context, baseCurrency string, rates map[string]decimal.Decimal) error {
	base := normalizeCode(baseCurrency)
	if base == "" {
		return apperrors.NewValidationError("base currency code is required")
	}
	if len(rates) == 0 {
		return apperrors.NewValidationError("refusing to replace rates of " + base + " with an empty set")
	}

	normalized := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		target := normalizeCode(code)
		if target == "" {
			continue
		}
		normalized[target] = rate
	}

	updatedAt := s.Now().UTC()
	if err := s.repo.ReplaceRates(ctx, base, normalized, updatedAt); err != nil {
		s.LogError(ctx, err, "Failed to replace exchange rates", slog.String("base", base), slog.Int("count", len(normalized)))
		return err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, base); err != nil {
			s.LogWarn(ctx, "Failed to invalidate rate cache", slog.String("base", base), slog.String("error", err.Error()))
		}
	}

	s.LogInfo(ctx, "Exchange rates replaced", slog.String("base", base), slog.Int("count", len(normalized)))
	return nil
}
