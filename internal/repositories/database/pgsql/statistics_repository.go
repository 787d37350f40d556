package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/currency_api/internal/apperrors"
	"github.com/SscSPs/currency_api/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_api/internal/core/ports/repositories"
	"github.com/SscSPs/currency_api/internal/models"
	"github.com/SscSPs/currency_api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxStatisticsRepository maintains the api_statistics daily aggregates.
type PgxStatisticsRepository struct {
	BaseRepository
}

func newPgxStatisticsRepository(db *pgxpool.Pool) *PgxStatisticsRepository {
	return &PgxStatisticsRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.StatisticsRepositoryFacade = (*PgxStatisticsRepository)(nil)

const statisticColumns = `id, date, endpoint, method, total_requests, successful_requests, failed_requests,
	avg_response_time_ms, total_response_size_bytes, unique_devices, created_at, updated_at`

func scanStatistic(row pgx.Row, m *models.ApiStatistic) error {
	return row.Scan(
		&m.ID, &m.Date, &m.Endpoint, &m.Method, &m.TotalRequests, &m.SuccessfulRequests,
		&m.FailedRequests, &m.AvgResponseTimeMs, &m.TotalResponseSizeBytes, &m.UniqueDevices,
		&m.CreatedAt, &m.UpdatedAt,
	)
}

// MergeStatistic folds a sample into the (date, endpoint, method) row.
// The row is locked with SELECT ... FOR UPDATE so concurrent merges apply one after another.
// When the row does not exist it is seeded with INSERT ... ON CONFLICT DO NOTHING; losing that
// race falls back to locking the row the other writer created.
func (r *PgxStatisticsRepository) MergeStatistic(ctx context.Context, date time.Time, sample domain.StatisticSample) (*domain.ApiStatistic, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	current, err := r.lockStatistic(ctx, tx, day, sample.Endpoint, sample.Method)
	if err != nil {
		return nil, err
	}

	if current == nil {
		seeded := domain.NewApiStatistic(day, sample)
		inserted, err := r.insertStatistic(ctx, tx, seeded)
		if err != nil {
			return nil, err
		}
		if inserted != nil {
			if err := r.Commit(ctx, tx); err != nil {
				return nil, err
			}
			return inserted, nil
		}

		current, err = r.lockStatistic(ctx, tx, day, sample.Endpoint, sample.Method)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, apperrors.NewAppError(500, "statistics row vanished during merge", nil)
		}
	}

	merged := current.Merge(sample)
	m := mapping.ToModelApiStatistic(merged)
	err = scanStatistic(tx.QueryRow(ctx, `
		UPDATE api_statistics SET
			total_requests = $2,
			successful_requests = $3,
			failed_requests = $4,
			avg_response_time_ms = $5,
			total_response_size_bytes = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+statisticColumns,
		m.ID, m.TotalRequests, m.SuccessfulRequests, m.FailedRequests,
		m.AvgResponseTimeMs, m.TotalResponseSizeBytes,
	), &m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to update statistics", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	stat := mapping.ToDomainApiStatistic(m)
	return &stat, nil
}

func (r *PgxStatisticsRepository) lockStatistic(ctx context.Context, tx pgx.Tx, day time.Time, endpoint, method string) (*domain.ApiStatistic, error) {
	var m models.ApiStatistic
	err := scanStatistic(tx.QueryRow(ctx, `
		SELECT `+statisticColumns+`
		FROM api_statistics
		WHERE date = $1 AND endpoint = $2 AND method = $3
		FOR UPDATE`,
		day, endpoint, method,
	), &m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewAppError(500, "failed to lock statistics row", err)
	}
	stat := mapping.ToDomainApiStatistic(m)
	return &stat, nil
}

// insertStatistic returns nil, nil when another transaction created the row first.
func (r *PgxStatisticsRepository) insertStatistic(ctx context.Context, tx pgx.Tx, stat domain.ApiStatistic) (*domain.ApiStatistic, error) {
	m := mapping.ToModelApiStatistic(stat)
	err := scanStatistic(tx.QueryRow(ctx, `
		INSERT INTO api_statistics (
			date, endpoint, method, total_requests, successful_requests, failed_requests,
			avg_response_time_ms, total_response_size_bytes, unique_devices
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (date, endpoint, method) DO NOTHING
		RETURNING `+statisticColumns,
		m.Date, m.Endpoint, m.Method, m.TotalRequests, m.SuccessfulRequests, m.FailedRequests,
		m.AvgResponseTimeMs, m.TotalResponseSizeBytes, m.UniqueDevices,
	), &m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewAppError(500, "failed to insert statistics", err)
	}
	inserted := mapping.ToDomainApiStatistic(m)
	return &inserted, nil
}

// ListStatisticsByDate returns the aggregates of one day ordered by request volume.
func (r *PgxStatisticsRepository) ListStatisticsByDate(ctx context.Context, date time.Time) ([]domain.ApiStatistic, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	rows, err := r.Pool.Query(ctx, `
		SELECT `+statisticColumns+`
		FROM api_statistics
		WHERE date = $1
		ORDER BY total_requests DESC, endpoint, method`,
		day,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list statistics", err)
	}
	defer rows.Close()

	stats := make([]domain.ApiStatistic, 0)
	for rows.Next() {
		var m models.ApiStatistic
		if err := scanStatistic(rows, &m); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan statistics", err)
		}
		stats = append(stats, mapping.ToDomainApiStatistic(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating statistics", err)
	}
	return stats, nil
}
