package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
)

// StatisticsReader defines read operations for the daily aggregates
type StatisticsReader interface {
	ListStatisticsByDate(ctx context.Context, date time.Time) ([]domain.ApiStatistic, error)
}

// StatisticsWriter defines write operations for the daily aggregates
type StatisticsWriter interface {
	// MergeStatistic folds one sample into the (date, endpoint, method) row.
	// Implementations must serialize concurrent merges on the same key.
	MergeStatistic(ctx context.Context, date time.Time, sample domain.StatisticSample) (*domain.ApiStatistic, error)
}

// StatisticsRepositoryFacade combines all statistics repository interfaces
type StatisticsRepositoryFacade interface {
	StatisticsReader
	StatisticsWriter
}
