package dto

import (
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
	"github.com/SscSPs/currency_api/internal/utils"
	"github.com/shopspring/decimal"
)

// Defaults applied to GET /api/convert when a code is omitted.
const (
	DefaultFromCurrency = "USD"
	DefaultToCurrency   = "EUR"
)

// ConvertQuery is bound from GET /api/convert.
type ConvertQuery struct {
	Amount string `form:"amount"`
	From   string `form:"from" binding:"omitempty,currency_code"`
	To     string `form:"to" binding:"omitempty,currency_code"`
	Base   string `form:"base" binding:"omitempty,currency_code"`
}

// ParsedAmount returns the amount or zero when it is missing or not a number.
func (q ConvertQuery) ParsedAmount() decimal.Decimal {
	amount, err := decimal.NewFromString(q.Amount)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// ConvertResponse is the result of a successful conversion.
type ConvertResponse struct {
	Success         bool       `json:"success"`
	Amount          float64    `json:"amount"`
	From            string     `json:"from"`
	To              string     `json:"to"`
	ConvertedAmount float64    `json:"converted_amount"`
	Rate            float64    `json:"rate"`
	LastUpdated     *time.Time `json:"last_updated"`
}

// ToConvertResponse rounds the converted amount to 2 places and the rate to 8.
func ToConvertResponse(c *domain.Conversion) ConvertResponse {
	return ConvertResponse{
		Success:         true,
		Amount:          c.Amount.InexactFloat64(),
		From:            c.From,
		To:              c.To,
		ConvertedAmount: utils.RoundToFloat(c.ConvertedAmount, utils.AmountPrecision),
		Rate:            utils.RoundToFloat(c.Rate, utils.RatePrecision),
		LastUpdated:     c.LastUpdated,
	}
}
