package dto

import (
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
	"github.com/SscSPs/currency_api/internal/utils"
)

// RatesQuery is bound from GET /api/rates.
type RatesQuery struct {
	Base   string `form:"base" binding:"omitempty,currency_code"`
	Target string `form:"target" binding:"omitempty,currency_code"`
}

// SingleRateResponse is returned when a target currency was requested.
type SingleRateResponse struct {
	Success     bool      `json:"success"`
	Base        string    `json:"base"`
	Target      string    `json:"target"`
	Rate        float64   `json:"rate"`
	LastUpdated time.Time `json:"last_updated"`
}

// RateEntry is one target currency inside RatesResponse.
type RateEntry struct {
	Rate        float64   `json:"rate"`
	LastUpdated time.Time `json:"last_updated"`
}

// RatesResponse lists every stored rate of a base currency keyed by target code.
type RatesResponse struct {
	Success bool                 `json:"success"`
	Base    string               `json:"base"`
	Rates   map[string]RateEntry `json:"rates"`
	Count   int                  `json:"count"`
}

// ToSingleRateResponse converts a stored rate.
func ToSingleRateResponse(rate *domain.ExchangeRate) SingleRateResponse {
	return SingleRateResponse{
		Success:     true,
		Base:        rate.BaseCurrency,
		Target:      rate.TargetCurrency,
		Rate:        utils.RoundToFloat(rate.Rate, utils.RatePrecision),
		LastUpdated: rate.LastUpdated,
	}
}

// ToRatesResponse converts the rate set of a base. An empty set yields an empty map, not null.
func ToRatesResponse(base string, rates []domain.ExchangeRate) RatesResponse {
	entries := make(map[string]RateEntry, len(rates))
	for _, rate := range rates {
		entries[rate.TargetCurrency] = RateEntry{
			Rate:        utils.RoundToFloat(rate.Rate, utils.RatePrecision),
			LastUpdated: rate.LastUpdated,
		}
	}
	return RatesResponse{Success: true, Base: base, Rates: entries, Count: len(entries)}
}
