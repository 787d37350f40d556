package dto

import (
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
)

// UpdateRatesResponse reports a forced refresh.
type UpdateRatesResponse struct {
	Success      bool       `json:"success"`
	Message      string     `json:"message,omitempty"`
	BaseCurrency string     `json:"base_currency,omitempty"`
	RatesCount   int        `json:"rates_count,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// ToUpdateRatesResponse converts a refresh result.
func ToUpdateRatesResponse(r domain.RateRefreshResult) UpdateRatesResponse {
	if !r.Success {
		return UpdateRatesResponse{Success: false, Error: r.Error}
	}
	updatedAt := r.UpdatedAt
	return UpdateRatesResponse{
		Success:      true,
		Message:      "Exchange rates updated",
		BaseCurrency: r.BaseCurrency,
		RatesCount:   r.RatesCount,
		UpdatedAt:    &updatedAt,
	}
}
