package services

import (
	"context"
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateReaderSvc defines read operations for exchange rate data
type ExchangeRateReaderSvc interface {
	// GetRate returns the most recent rate for a pair, or nil, nil when none is stored.
	GetRate(ctx context.Context, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error)

	// GetAllRates returns every stored rate of a base ordered by target code.
	GetAllRates(ctx context.Context, baseCurrency string) ([]domain.ExchangeRate, error)

	// IsFresh reports whether the newest rate of a base is younger than maxAge.
	IsFresh(ctx context.Context, baseCurrency string, maxAge time.Duration) (bool, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rate data
type ExchangeRateWriterSvc interface {
	// SaveRates atomically replaces the whole rate set of a base.
	SaveRates(ctx context.Context, baseCurrency string, rates map[string]decimal.Decimal) error
}

// ExchangeRateSvcFacade combines all exchange rate service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}
