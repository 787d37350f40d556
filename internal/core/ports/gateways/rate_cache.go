package gateways

import (
	"context"
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
)

// RateCache is a read-through cache for the per-base rate table.
// A miss is reported as ok == false with a nil error.
type RateCache interface {
	GetRates(ctx context.Context, baseCurrency string) (rates []domain.ExchangeRate, ok bool, err error)
	SetRates(ctx context.Context, baseCurrency string, rates []domain.ExchangeRate, ttl time.Duration) error
	Invalidate(ctx context.Context, baseCurrency string) error
}
