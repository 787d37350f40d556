package pgsql

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/SscSPs/currency_api/internal/apperrors"
	"github.com/SscSPs/currency_api/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_api/internal/core/ports/repositories"
	"github.com/SscSPs/currency_api/internal/models"
	"github.com/SscSPs/currency_api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxExchangeRateRepository implements portsrepo.ExchangeRateRepositoryWithTx using pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// newPgxExchangeRateRepository creates a new PgxExchangeRateRepository.
func newPgxExchangeRateRepository(db *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ExchangeRateRepositoryWithTx = (*PgxExchangeRateRepository)(nil)

const selectExchangeRateColumns = `
	SELECT id, base_currency, target_currency, rate, last_updated, created_at
	FROM exchange_rates`

// FindLatestRate retrieves the most recent rate for a pair. Absent rows are not an error.
func (r *PgxExchangeRateRepository) FindLatestRate(ctx context.Context, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error) {
	query := selectExchangeRateColumns + `
		WHERE base_currency = $1 AND target_currency = $2
		ORDER BY last_updated DESC
		LIMIT 1;
	`

	var modelRate models.ExchangeRate
	err := r.Pool.QueryRow(ctx, query, baseCurrency, targetCurrency).Scan(
		&modelRate.ID, &modelRate.BaseCurrency, &modelRate.TargetCurrency,
		&modelRate.Rate, &modelRate.LastUpdated, &modelRate.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewAppError(500, "failed to find exchange rate", err)
	}

	domainRate := mapping.ToDomainExchangeRate(modelRate)
	return &domainRate, nil
}

// ListRatesByBase retrieves every rate of a base ordered by target code.
func (r *PgxExchangeRateRepository) ListRatesByBase(ctx context.Context, baseCurrency string) ([]domain.ExchangeRate, error) {
	query := selectExchangeRateColumns + `
		WHERE base_currency = $1
		ORDER BY target_currency;
	`

	rows, err := r.Pool.Query(ctx, query, baseCurrency)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list exchange rates", err)
	}
	defer rows.Close()

	modelRates := make([]models.ExchangeRate, 0)
	for rows.Next() {
		var modelRate models.ExchangeRate
		if err := rows.Scan(
			&modelRate.ID, &modelRate.BaseCurrency, &modelRate.TargetCurrency,
			&modelRate.Rate, &modelRate.LastUpdated, &modelRate.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan exchange rate", err)
		}
		modelRates = append(modelRates, modelRate)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating exchange rates", err)
	}

	return mapping.ToDomainExchangeRates(modelRates), nil
}

// FindLastUpdated returns the newest last_updated of a base, or nil when it has no rows.
func (r *PgxExchangeRateRepository) FindLastUpdated(ctx context.Context, baseCurrency string) (*time.Time, error) {
	var lastUpdated *time.Time
	err := r.Pool.QueryRow(ctx,
		`SELECT MAX(last_updated) FROM exchange_rates WHERE base_currency = $1`,
		baseCurrency,
	).Scan(&lastUpdated)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to read last update time", err)
	}
	return lastUpdated, nil
}

// ReplaceRates deletes the whole rate set of a base and inserts the new one in a single transaction.
// A transaction-scoped advisory lock keyed by the base serializes concurrent refreshes of the same base.
func (r *PgxExchangeRateRepository) ReplaceRates(ctx context.Context, baseCurrency string, rates map[string]decimal.Decimal, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, baseCurrency); err != nil {
		return apperrors.NewAppError(500, "failed to lock base currency", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM exchange_rates WHERE base_currency = $1`, baseCurrency); err != nil {
		return apperrors.NewAppError(500, "failed to delete old exchange rates", err)
	}

	targets := make([]string, 0, len(rates))
	for target := range rates {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	batch := &pgx.Batch{}
	for _, target := range targets {
		batch.Queue(`
			INSERT INTO exchange_rates (base_currency, target_currency, rate, last_updated, created_at)
			VALUES ($1, $2, $3, $4, $4)`,
			baseCurrency, target, rates[target], updatedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for _, target := range targets {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return apperrors.NewAppError(500, "failed to insert exchange rate "+baseCurrency+"/"+target, err)
		}
	}
	if err := results.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert exchange rates", err)
	}

	return r.Commit(ctx, tx)
}
