package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// FindLatestRate returns the newest row for a pair, or nil, nil when none exists.
	FindLatestRate(ctx context.Context, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error)

	// ListRatesByBase returns every row of a base ordered by target code.
	ListRatesByBase(ctx context.Context, baseCurrency string) ([]domain.ExchangeRate, error)

	// FindLastUpdated returns MAX(last_updated) for a base, or nil when the base has no rows.
	FindLastUpdated(ctx context.Context, baseCurrency string) (*time.Time, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// ReplaceRates deletes all rows of a base and inserts the given set in one transaction.
	ReplaceRates(ctx context.Context, baseCurrency string, rates map[string]decimal.Decimal, updatedAt time.Time) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
// This is a facade for clients that need access to all operations
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}

// ExchangeRateRepositoryWithTx extends ExchangeRateRepositoryFacade with transaction capabilities
type ExchangeRateRepositoryWithTx interface {
	ExchangeRateRepositoryFacade
	TransactionManager
}
