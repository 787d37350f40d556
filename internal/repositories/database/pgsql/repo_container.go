package pgsql

import (
	portsrepo "github.com/SscSPs/currency_api/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		DeviceRepo:       newPgxDeviceRepository(dbPool),
		AuditLogRepo:     newPgxAuditLogRepository(dbPool),
		StatisticsRepo:   newPgxStatisticsRepository(dbPool),
		ReportingRepo:    newReportingRepository(dbPool),
	}
}
