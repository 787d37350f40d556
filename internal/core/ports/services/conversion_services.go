package services

import (
	"context"

	"github.com/SscSPs/currency_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ConversionSvc converts amounts using the stored rates of a single base currency.
type ConversionSvc interface {
	// Convert returns nil, nil when a required rate is missing or zero.
	// A non-positive amount fails with apperrors.ErrValidation.
	Convert(ctx context.Context, amount decimal.Decimal, from, to, base string) (*domain.Conversion, error)
}
