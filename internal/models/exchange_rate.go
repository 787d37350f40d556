package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is one row of the exchange_rates table.
type ExchangeRate struct {
	ID             int64           `db:"id"`
	BaseCurrency   string          `db:"base_currency"`
	TargetCurrency string          `db:"target_currency"`
	Rate           decimal.Decimal `db:"rate"`
	LastUpdated    time.Time       `db:"last_updated"`
	CreatedAt      time.Time       `db:"created_at"`
}
