package pgsql

import (
	"context"

	"github.com/SscSPs/currency_api/internal/apperrors"
	"github.com/SscSPs/currency_api/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_api/internal/core/ports/repositories"
	"github.com/SscSPs/currency_api/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxAuditLogRepository appends to the audit tables.
type PgxAuditLogRepository struct {
	BaseRepository
}

func newPgxAuditLogRepository(db *pgxpool.Pool) *PgxAuditLogRepository {
	return &PgxAuditLogRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.AuditLogWriter = (*PgxAuditLogRepository)(nil)

// InsertRequestLog appends one api_requests row.
func (r *PgxAuditLogRepository) InsertRequestLog(ctx context.Context, log domain.ApiRequestLog) error {
	m := mapping.ToModelApiRequest(log)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO api_requests (
			device_ref, endpoint, method, ip_address, user_agent, response_status, response_time_ms,
			request_params, response_size_bytes, referer, api_version, error_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		m.DeviceRef, m.Endpoint, m.Method, m.IPAddress, m.UserAgent, m.ResponseStatus, m.ResponseTimeMs,
		m.RequestParams, m.ResponseSizeBytes, m.Referer, m.APIVersion, m.ErrorMessage, m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert request log", err)
	}
	return nil
}

// InsertConversionLog appends one conversion_logs row.
func (r *PgxAuditLogRepository) InsertConversionLog(ctx context.Context, log domain.ConversionLog) error {
	m := mapping.ToModelConversionLog(log)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO conversion_logs (
			device_ref, amount, from_currency, to_currency, converted_amount, rate, ip_address, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.DeviceRef, m.Amount, m.FromCurrency, m.ToCurrency, m.ConvertedAmount, m.Rate, m.IPAddress, m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert conversion log", err)
	}
	return nil
}

// InsertRateUpdateLog appends one rate_update_logs row.
func (r *PgxAuditLogRepository) InsertRateUpdateLog(ctx context.Context, log domain.RateUpdateLog) error {
	m := mapping.ToModelRateUpdateLog(log)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO rate_update_logs (
			base_currency, rates_count, update_source, success, error_message,
			execution_time_ms, api_response_time_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.BaseCurrency, m.RatesCount, m.UpdateSource, m.Success, m.ErrorMessage,
		m.ExecutionTimeMs, m.APIResponseTimeMs, m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert rate update log", err)
	}
	return nil
}

// InsertErrorLog appends one error_logs row.
func (r *PgxAuditLogRepository) InsertErrorLog(ctx context.Context, log domain.ErrorLog) error {
	m := mapping.ToModelErrorLog(log)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO error_logs (
			device_ref, endpoint, error_type, error_message, stack_trace, request_params,
			ip_address, user_agent, http_status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.DeviceRef, m.Endpoint, m.ErrorType, m.ErrorMessage, m.StackTrace, m.RequestParams,
		m.IPAddress, m.UserAgent, m.HTTPStatus, m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert error log", err)
	}
	return nil
}
