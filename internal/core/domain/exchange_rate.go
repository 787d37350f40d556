package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is one stored rate for a (base, target) pair.
type ExchangeRate struct {
	BaseCurrency   string          `json:"baseCurrency"`
	TargetCurrency string          `json:"targetCurrency"`
	Rate           decimal.Decimal `json:"rate"`
	LastUpdated    time.Time       `json:"lastUpdated"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// IsUsable reports whether the rate can take part in a conversion.
// Zero or negative rates are treated the same as a missing row.
func (r *ExchangeRate) IsUsable() bool {
	return r != nil && r.Rate.IsPositive()
}

// ConversionBranch names the path the conversion engine took.
type ConversionBranch string

const (
	ConversionIdentity     ConversionBranch = "identity"
	ConversionDirect       ConversionBranch = "direct"
	ConversionInverse      ConversionBranch = "inverse"
	ConversionTriangulated ConversionBranch = "triangulated"
)

// Conversion is the result of converting an amount between two currencies.
type Conversion struct {
	Amount          decimal.Decimal  `json:"amount"`
	From            string           `json:"from"`
	To              string           `json:"to"`
	Base            string           `json:"base"`
	ConvertedAmount decimal.Decimal  `json:"convertedAmount"`
	Rate            decimal.Decimal  `json:"rate"`
	LastUpdated     *time.Time       `json:"lastUpdated,omitempty"` // nil for the identity branch
	Branch          ConversionBranch `json:"branch"`
}

// UpstreamRates is a successful payload from the upstream rate source.
type UpstreamRates struct {
	BaseCurrency      string
	Rates             map[string]decimal.Decimal
	TimeLastUpdateUTC string
}

// RateRefreshResult reports one refresh attempt. Failures are carried in Error, never as a Go error.
type RateRefreshResult struct {
	Success         bool          `json:"success"`
	BaseCurrency    string        `json:"baseCurrency,omitempty"`
	RatesCount      int           `json:"ratesCount"`
	UpdatedAt       time.Time     `json:"updatedAt"`
	Error           string        `json:"error,omitempty"`
	APIResponseTime time.Duration `json:"-"`
	ExecutionTime   time.Duration `json:"-"`
}

// RatesUpdatedEvent is published after a base currency's rates were replaced.
type RatesUpdatedEvent struct {
	BaseCurrency string    `json:"base_currency"`
	RatesCount   int       `json:"rates_count"`
	UpdatedAt    time.Time `json:"updated_at"`
	Source       string    `json:"source"`
}
