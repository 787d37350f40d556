package services

import (
	"context"
	"time"

	"github.com/SscSPs/currency_api/internal/apperrors"
	"github.com/SscSPs/currency_api/internal/core/domain"
	portssvc "github.com/SscSPs/currency_api/internal/core/ports/services"
	"github.com/SscSPs/currency_api/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

const conversionUnavailable = "unavailable"

type conversionService struct {
	BaseService
	rates   portssvc.ExchangeRateReaderSvc
	metrics *metrics.Metrics
}

// ConversionServiceOption configures the conversion service.
type ConversionServiceOption func(*conversionService)

// WithConversionMetrics counts conversions per branch.
func WithConversionMetrics(m *metrics.Metrics) ConversionServiceOption {
	return func(s *conversionService) {
		s.metrics = m
	}
}

// NewConversionService creates the conversion engine over a rate store.
func NewConversionService(rates portssvc.ExchangeRateReaderSvc, opts ...ConversionServiceOption) portssvc.ConversionSvc {
	s := &conversionService{rates: rates}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Convert converts amount from one currency to another using the rates stored for base.
// Branches are tried in order: identity, direct (from == base), inverse (to == base), triangulation.
func (s *conversionService) Convert(ctx context.Context, amount decimal.Decimal, from, to, base string) (*domain.Conversion, error) {
	if !amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount must be greater than zero")
	}
	from, to, base = normalizeCode(from), normalizeCode(to), normalizeCode(base)
	if from == "" || to == "" || base == "" {
		return nil, apperrors.NewValidationError("from, to and base currency codes are required")
	}

	conversion, err := s.convert(ctx, amount, from, to, base)
	if err != nil {
		return nil, err
	}
	if conversion == nil {
		s.metrics.RecordConversion(conversionUnavailable)
		return nil, nil
	}
	s.metrics.RecordConversion(string(conversion.Branch))
	return conversion, nil
}

func (s *conversionService) convert(ctx context.Context, amount decimal.Decimal, from, to, base string) (*domain.Conversion, error) {
	result := &domain.Conversion{Amount: amount, From: from, To: to, Base: base}

	switch {
	case from == to:
		result.Branch = domain.ConversionIdentity
		result.Rate = decimal.NewFromInt(1)
		result.ConvertedAmount = amount
		return result, nil

	case from == base:
		rate, err := s.rates.GetRate(ctx, base, to)
		if err != nil || !rate.IsUsable() {
			return nil, err
		}
		result.Branch = domain.ConversionDirect
		result.Rate = rate.Rate
		result.ConvertedAmount = amount.Mul(rate.Rate)
		result.LastUpdated = timePtr(rate.LastUpdated)
		return result, nil

	case to == base:
		rate, err := s.rates.GetRate(ctx, base, from)
		if err != nil || !rate.IsUsable() {
			return nil, err
		}
		result.Branch = domain.ConversionInverse
		result.Rate = decimal.NewFromInt(1).Div(rate.Rate)
		result.ConvertedAmount = amount.Div(rate.Rate)
		result.LastUpdated = timePtr(rate.LastUpdated)
		return result, nil

	default:
		fromRate, err := s.rates.GetRate(ctx, base, from)
		if err != nil || !fromRate.IsUsable() {
			return nil, err
		}
		toRate, err := s.rates.GetRate(ctx, base, to)
		if err != nil || !toRate.IsUsable() {
			return nil, err
		}
		result.Branch = domain.ConversionTriangulated
		result.Rate = toRate.Rate.Div(fromRate.Rate)
		result.ConvertedAmount = amount.Div(fromRate.Rate).Mul(toRate.Rate)
		lastUpdated := fromRate.LastUpdated
		if toRate.LastUpdated.After(lastUpdated) {
			lastUpdated = toRate.LastUpdated
		}
		result.LastUpdated = timePtr(lastUpdated)
		return result, nil
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
