package services

import (
	"context"

	"github.com/SscSPs/currency_api/internal/core/domain"
)

// AuditLoggerSvc writes the audit trail and daily statistics.
// Every method is best effort: it returns false on failure and never propagates an error.
type AuditLoggerSvc interface {
	LogRequest(ctx context.Context, entry domain.RequestLogEntry) bool
	LogConversion(ctx context.Context, req domain.RequestContext, conversion domain.Conversion) bool
	LogRateUpdate(ctx context.Context, update domain.RateUpdateLog) bool
	LogError(ctx context.Context, entry domain.ErrorLogEntry) bool
	UpdateStatistics(ctx context.Context, sample domain.StatisticSample) bool
}
