package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_api/internal/core/ports/repositories"
	"github.com/SscSPs/currency_api/internal/models"
	"github.com/SscSPs/currency_api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

const oneDay = 24 * time.Hour

// GetTodayStats aggregates the request log over [day, day+24h).
// Only status 200 counts as successful here, the same as the dashboard has always shown.
func (r *reportingRepository) GetTodayStats(ctx context.Context, day time.Time) (*domain.TodayStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE response_status = 200),
			COUNT(*) FILTER (WHERE response_status <> 200),
			COALESCE(ROUND(AVG(response_time_ms)::numeric, 2), 0),
			COUNT(DISTINCT device_ref)
		FROM api_requests
		WHERE created_at >= $1 AND created_at < $2
	`

	var stats domain.TodayStats
	if err := r.Pool.QueryRow(ctx, query, day, day.Add(oneDay)).Scan(
		&stats.TotalRequests,
		&stats.SuccessfulRequests,
		&stats.FailedRequests,
		&stats.AvgResponseTimeMs,
		&stats.UniqueDevices,
	); err != nil {
		return nil, fmt.Errorf("error querying today's stats: %w", err)
	}
	return &stats, nil
}

// GetPopularEndpoints returns the busiest endpoints of a day.
func (r *reportingRepository) GetPopularEndpoints(ctx context.Context, day time.Time, limit int) ([]domain.EndpointUsage, error) {
	query := `
		SELECT endpoint, method, COUNT(*) AS requests_count, COUNT(DISTINCT device_ref),
			COALESCE(ROUND(AVG(response_time_ms)::numeric, 2), 0)
		FROM api_requests
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY endpoint, method
		ORDER BY requests_count DESC
		LIMIT $3
	`
	return r.queryEndpointUsage(ctx, query, day, day.Add(oneDay), limit)
}

// GetTopEndpointsSince returns the busiest endpoints since a point in time.
func (r *reportingRepository) GetTopEndpointsSince(ctx context.Context, since time.Time, limit int) ([]domain.EndpointUsage, error) {
	query := `
		SELECT endpoint, method, COUNT(*) AS requests_count, COUNT(DISTINCT device_ref),
			COALESCE(ROUND(AVG(response_time_ms)::numeric, 2), 0)
		FROM api_requests
		WHERE created_at >= $1
		GROUP BY endpoint, method
		ORDER BY requests_count DESC
		LIMIT $2
	`
	return r.queryEndpointUsage(ctx, query, since, limit)
}

func (r *reportingRepository) queryEndpointUsage(ctx context.Context, query string, args ...any) ([]domain.EndpointUsage, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying endpoint usage: %w", err)
	}
	defer rows.Close()

	result := make([]domain.EndpointUsage, 0)
	for rows.Next() {
		var row domain.EndpointUsage
		if err := rows.Scan(&row.Endpoint, &row.Method, &row.RequestsCount, &row.DevicesCount, &row.AvgTimeMs); err != nil {
			return nil, fmt.Errorf("error scanning endpoint usage row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating endpoint usage rows: %w", err)
	}
	return result, nil
}

// GetRecentErrors returns the newest error log rows.
func (r *reportingRepository) GetRecentErrors(ctx context.Context, limit int) ([]domain.ErrorLog, error) {
	query := `
		SELECT id, device_ref, endpoint, error_type, error_message, stack_trace, request_params,
			ip_address, user_agent, http_status, created_at
		FROM error_logs
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying recent errors: %w", err)
	}
	defer rows.Close()

	result := make([]domain.ErrorLog, 0)
	for rows.Next() {
		var m models.ErrorLog
		if err := rows.Scan(
			&m.ID, &m.DeviceRef, &m.Endpoint, &m.ErrorType, &m.ErrorMessage, &m.StackTrace,
			&m.RequestParams, &m.IPAddress, &m.UserAgent, &m.HTTPStatus, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning error log row: %w", err)
		}
		result = append(result, mapping.ToDomainErrorLog(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating error log rows: %w", err)
	}
	return result, nil
}

// GetRecentConversions returns the newest conversions with the device id that made them.
func (r *reportingRepository) GetRecentConversions(ctx context.Context, limit int) ([]domain.ConversionLog, error) {
	query := `
		SELECT c.id, c.device_ref, d.device_id, c.amount, c.from_currency, c.to_currency,
			c.converted_amount, c.rate, c.ip_address, c.created_at
		FROM conversion_logs c
		LEFT JOIN devices d ON d.id = c.device_ref
		ORDER BY c.created_at DESC
		LIMIT $1
	`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying recent conversions: %w", err)
	}
	defer rows.Close()

	result := make([]domain.ConversionLog, 0)
	for rows.Next() {
		var m models.ConversionLog
		var deviceIdentifier *string
		if err := rows.Scan(
			&m.ID, &m.DeviceRef, &deviceIdentifier, &m.Amount, &m.FromCurrency, &m.ToCurrency,
			&m.ConvertedAmount, &m.Rate, &m.IPAddress, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning conversion row: %w", err)
		}
		result = append(result, mapping.ToDomainConversionLog(m, deviceIdentifier))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversion rows: %w", err)
	}
	return result, nil
}

// GetConversionPairStats returns the most converted currency pairs of a day.
func (r *reportingRepository) GetConversionPairStats(ctx context.Context, day time.Time, limit int) ([]domain.ConversionPairStat, error) {
	query := `
		SELECT from_currency, to_currency, COUNT(*) AS conversions, COALESCE(SUM(amount), 0)
		FROM conversion_logs
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY from_currency, to_currency
		ORDER BY conversions DESC
		LIMIT $3
	`
	rows, err := r.Pool.Query(ctx, query, day, day.Add(oneDay), limit)
	if err != nil {
		return nil, fmt.Errorf("error querying conversion pairs: %w", err)
	}
	defer rows.Close()

	result := make([]domain.ConversionPairStat, 0)
	for rows.Next() {
		var row domain.ConversionPairStat
		if err := rows.Scan(&row.FromCurrency, &row.ToCurrency, &row.Count, &row.TotalAmount); err != nil {
			return nil, fmt.Errorf("error scanning conversion pair row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversion pair rows: %w", err)
	}
	return result, nil
}

// GetRecentRateUpdates returns the newest refresh attempts.
func (r *reportingRepository) GetRecentRateUpdates(ctx context.Context, limit int) ([]domain.RateUpdateLog, error) {
	query := `
		SELECT id, base_currency, rates_count, update_source, success, error_message,
			execution_time_ms, api_response_time_ms, created_at
		FROM rate_update_logs
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying rate updates: %w", err)
	}
	defer rows.Close()

	result := make([]domain.RateUpdateLog, 0)
	for rows.Next() {
		var m models.RateUpdateLog
		if err := rows.Scan(
			&m.ID, &m.BaseCurrency, &m.RatesCount, &m.UpdateSource, &m.Success, &m.ErrorMessage,
			&m.ExecutionTimeMs, &m.APIResponseTimeMs, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning rate update row: %w", err)
		}
		result = append(result, mapping.ToDomainRateUpdateLog(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rate update rows: %w", err)
	}
	return result, nil
}

// GetDeviceStats counts all devices and those active in the last day and week.
func (r *reportingRepository) GetDeviceStats(ctx context.Context, now time.Time) (*domain.DeviceStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE last_active >= $1),
			COUNT(*) FILTER (WHERE last_active >= $2)
		FROM devices
	`
	var stats domain.DeviceStats
	if err := r.Pool.QueryRow(ctx, query, now.Add(-oneDay), now.Add(-7*oneDay)).Scan(
		&stats.TotalDevices, &stats.Active24h, &stats.Active7d,
	); err != nil {
		return nil, fmt.Errorf("error querying device stats: %w", err)
	}
	return &stats, nil
}

// GetActiveDevicesSince returns the devices with the most requests since a point in time.
func (r *reportingRepository) GetActiveDevicesSince(ctx context.Context, since time.Time, limit int) ([]domain.ActiveDevice, error) {
	query := `
		SELECT d.device_id, d.device_name, d.platform, d.app_version,
			COUNT(a.id) AS requests_count, MAX(a.created_at)
		FROM api_requests a
		JOIN devices d ON d.id = a.device_ref
		WHERE a.created_at >= $1
		GROUP BY d.id, d.device_id, d.device_name, d.platform, d.app_version
		ORDER BY requests_count DESC
		LIMIT $2
	`
	rows, err := r.Pool.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying active devices: %w", err)
	}
	defer rows.Close()

	result := make([]domain.ActiveDevice, 0)
	for rows.Next() {
		var row domain.ActiveDevice
		if err := rows.Scan(&row.DeviceID, &row.DeviceName, &row.Platform, &row.AppVersion, &row.RequestsCount, &row.LastRequest); err != nil {
			return nil, fmt.Errorf("error scanning active device row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active device rows: %w", err)
	}
	return result, nil
}

// GetPlatformUsageSince groups requests by the platform of the calling device.
func (r *reportingRepository) GetPlatformUsageSince(ctx context.Context, since time.Time) ([]domain.PlatformUsage, error) {
	query := `
		SELECT COALESCE(d.platform, 'unknown') AS platform,
			COUNT(DISTINCT d.id), COUNT(a.id) AS requests_count
		FROM api_requests a
		JOIN devices d ON d.id = a.device_ref
		WHERE a.created_at >= $1
		GROUP BY COALESCE(d.platform, 'unknown')
		ORDER BY requests_count DESC
	`
	rows, err := r.Pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("error querying platform usage: %w", err)
	}
	defer rows.Close()

	result := make([]domain.PlatformUsage, 0)
	for rows.Next() {
		var row domain.PlatformUsage
		if err := rows.Scan(&row.Platform, &row.DevicesCount, &row.RequestsCount); err != nil {
			return nil, fmt.Errorf("error scanning platform usage row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating platform usage rows: %w", err)
	}
	return result, nil
}

// GetHourlyCountsSince buckets requests by clock hour.
func (r *reportingRepository) GetHourlyCountsSince(ctx context.Context, since time.Time) ([]domain.HourlyCount, error) {
	query := `
		SELECT date_trunc('hour', created_at) AS hour, COUNT(*)
		FROM api_requests
		WHERE created_at >= $1
		GROUP BY hour
		ORDER BY hour
	`
	rows, err := r.Pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("error querying hourly counts: %w", err)
	}
	defer rows.Close()

	result := make([]domain.HourlyCount, 0)
	for rows.Next() {
		var row domain.HourlyCount
		if err := rows.Scan(&row.Hour, &row.RequestsCount); err != nil {
			return nil, fmt.Errorf("error scanning hourly row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hourly rows: %w", err)
	}
	return result, nil
}

const requestLogSelect = `
	SELECT a.id, a.device_ref, d.device_id, a.endpoint, a.method, a.ip_address, a.user_agent,
		a.response_status, a.response_time_ms, a.request_params, a.response_size_bytes,
		a.referer, a.api_version, a.error_message, a.created_at
	FROM api_requests a
	LEFT JOIN devices d ON d.id = a.device_ref`

func scanRequestLogs(rows pgx.Rows) ([]domain.ApiRequestLog, error) {
	defer rows.Close()

	result := make([]domain.ApiRequestLog, 0)
	for rows.Next() {
		var m models.ApiRequest
		var deviceIdentifier *string
		if err := rows.Scan(
			&m.ID, &m.DeviceRef, &deviceIdentifier, &m.Endpoint, &m.Method, &m.IPAddress, &m.UserAgent,
			&m.ResponseStatus, &m.ResponseTimeMs, &m.RequestParams, &m.ResponseSizeBytes,
			&m.Referer, &m.APIVersion, &m.ErrorMessage, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning request log row: %w", err)
		}
		result = append(result, mapping.ToDomainApiRequestLog(m, deviceIdentifier))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating request log rows: %w", err)
	}
	return result, nil
}

// GetRecentRequests returns the newest request log rows.
func (r *reportingRepository) GetRecentRequests(ctx context.Context, limit int) ([]domain.ApiRequestLog, error) {
	rows, err := r.Pool.Query(ctx, requestLogSelect+` ORDER BY a.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying recent requests: %w", err)
	}
	return scanRequestLogs(rows)
}

// ListRequestLogs returns one filtered page of the request log and the filtered total.
func (r *reportingRepository) ListRequestLogs(ctx context.Context, filter domain.RequestLogFilter) (*domain.RequestLogPage, error) {
	where := ` WHERE 1=1`
	args := []any{}
	argNum := 1

	if filter.Endpoint != "" {
		where += fmt.Sprintf(" AND a.endpoint LIKE $%d", argNum)
		args = append(args, "%"+filter.Endpoint+"%")
		argNum++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND a.response_status = $%d", argNum)
		args = append(args, *filter.Status)
		argNum++
	}
	if filter.Device != "" {
		where += fmt.Sprintf(" AND d.device_id LIKE $%d", argNum)
		args = append(args, "%"+filter.Device+"%")
		argNum++
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM api_requests a LEFT JOIN devices d ON d.id = a.device_ref` + where
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("error counting request logs: %w", err)
	}

	if total == 0 {
		return &domain.RequestLogPage{Logs: []domain.ApiRequestLog{}, Total: 0}, nil
	}

	query := requestLogSelect + where + fmt.Sprintf(" ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying request logs: %w", err)
	}
	logs, err := scanRequestLogs(rows)
	if err != nil {
		return nil, err
	}
	return &domain.RequestLogPage{Logs: logs, Total: total}, nil
}
