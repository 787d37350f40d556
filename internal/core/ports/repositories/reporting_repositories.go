package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
)

// ReportingRepository defines the read-only aggregate queries behind the admin API.
type ReportingRepository interface {
	GetTodayStats(ctx context.Context, day time.Time) (*domain.TodayStats, error)
	GetPopularEndpoints(ctx context.Context, day time.Time, limit int) ([]domain.EndpointUsage, error)
	GetRecentErrors(ctx context.Context, limit int) ([]domain.ErrorLog, error)
	GetRecentConversions(ctx context.Context, limit int) ([]domain.ConversionLog, error)
	GetConversionPairStats(ctx context.Context, day time.Time, limit int) ([]domain.ConversionPairStat, error)
	GetRecentRateUpdates(ctx context.Context, limit int) ([]domain.RateUpdateLog, error)
	GetDeviceStats(ctx context.Context, now time.Time) (*domain.DeviceStats, error)

	GetTopEndpointsSince(ctx context.Context, since time.Time, limit int) ([]domain.EndpointUsage, error)
	GetActiveDevicesSince(ctx context.Context, since time.Time, limit int) ([]domain.ActiveDevice, error)
	GetPlatformUsageSince(ctx context.Context, since time.Time) ([]domain.PlatformUsage, error)
	GetRecentRequests(ctx context.Context, limit int) ([]domain.ApiRequestLog, error)
	GetHourlyCountsSince(ctx context.Context, since time.Time) ([]domain.HourlyCount, error)

	ListRequestLogs(ctx context.Context, filter domain.RequestLogFilter) (*domain.RequestLogPage, error)
}
