package repositories

import (
	"context"

	"github.com/SscSPs/currency_api/internal/core/domain"
)

// AuditLogWriter appends rows to the immutable audit tables.
type AuditLogWriter interface {
	InsertRequestLog(ctx context.Context, log domain.ApiRequestLog) error
	InsertConversionLog(ctx context.Context, log domain.ConversionLog) error
	InsertRateUpdateLog(ctx context.Context, log domain.RateUpdateLog) error
	InsertErrorLog(ctx context.Context, log domain.ErrorLog) error
}
