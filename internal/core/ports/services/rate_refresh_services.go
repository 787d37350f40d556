package services

import (
	"context"

	"github.com/SscSPs/currency_api/internal/core/domain"
)

// RateRefreshSvc pulls the rate table from upstream and stores it.
type RateRefreshSvc interface {
	// UpdateRates performs one fetch-and-save. Failures are reported in the result, never as a Go error.
	UpdateRates(ctx context.Context) domain.RateRefreshResult

	// ShouldUpdate is true when the configured base is not fresh for the configured interval.
	ShouldUpdate(ctx context.Context) (bool, error)

	// RefreshAndRecord runs UpdateRates and appends a rate update log tagged with source.
	RefreshAndRecord(ctx context.Context, source string) domain.RateRefreshResult
}
