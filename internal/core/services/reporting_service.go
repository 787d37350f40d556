package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_api/internal/core/ports/services"
)

const (
	dashboardTopEndpoints     = 10
	dashboardRecentErrors     = 10
	dashboardRecentConversion = 20
	dashboardConversionPairs  = 10
	dashboardRecentUpdates    = 10

	monitorWindow         = 24 * time.Hour
	monitorTopEndpoints   = 10
	monitorActiveDevices  = 20
	monitorRecentRequests = 50

	// RequestLogPageSize is the fixed page size of the admin request log.
	RequestLogPageSize = 50
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	statsRepo     portsrepo.StatisticsReader
	location      *time.Location
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingLocation sets the time zone that defines "today".
func WithReportingLocation(loc *time.Location) ReportingServiceOption {
	return func(s *reportingService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithReportingClock overrides the clock.
func WithReportingClock(clock func() time.Time) ReportingServiceOption {
	return func(s *reportingService) {
		s.Clock = clock
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, stats portsrepo.StatisticsReader, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: repo,
		statsRepo:     stats,
		location:      time.UTC,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) startOfToday() time.Time {
	now := s.Now().In(s.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
}

// Dashboard builds today's overview.
func (s *reportingService) Dashboard(ctx context.Context) (*domain.DashboardReport, error) {
	day := s.startOfToday()
	report := &domain.DashboardReport{}

	today, err := s.reportingRepo.GetTodayStats(ctx, day)
	if err != nil {
		return nil, s.reportErr(ctx, "today stats", err)
	}
	report.Today = *today

	if report.PopularEndpoints, err = s.reportingRepo.GetPopularEndpoints(ctx, day, dashboardTopEndpoints); err != nil {
		return nil, s.reportErr(ctx, "popular endpoints", err)
	}
	if report.RecentErrors, err = s.reportingRepo.GetRecentErrors(ctx, dashboardRecentErrors); err != nil {
		return nil, s.reportErr(ctx, "recent errors", err)
	}
	if report.RecentConversions, err = s.reportingRepo.GetRecentConversions(ctx, dashboardRecentConversion); err != nil {
		return nil, s.reportErr(ctx, "recent conversions", err)
	}
	if report.ConversionPairs, err = s.reportingRepo.GetConversionPairStats(ctx, day, dashboardConversionPairs); err != nil {
		return nil, s.reportErr(ctx, "conversion pairs", err)
	}
	if report.RecentRateUpdates, err = s.reportingRepo.GetRecentRateUpdates(ctx, dashboardRecentUpdates); err != nil {
		return nil, s.reportErr(ctx, "recent rate updates", err)
	}

	devices, err := s.reportingRepo.GetDeviceStats(ctx, s.Now())
	if err != nil {
		return nil, s.reportErr(ctx, "device stats", err)
	}
	report.Devices = *devices

	return report, nil
}

// Monitor builds the last-24-hours traffic view.
func (s *reportingService) Monitor(ctx context.Context) (*domain.MonitorReport, error) {
	since := s.Now().Add(-monitorWindow)
	report := &domain.MonitorReport{}
	var err error

	if report.TopEndpoints, err = s.reportingRepo.GetTopEndpointsSince(ctx, since, monitorTopEndpoints); err != nil {
		return nil, s.reportErr(ctx, "top endpoints", err)
	}
	if report.ActiveDevices, err = s.reportingRepo.GetActiveDevicesSince(ctx, since, monitorActiveDevices); err != nil {
		return nil, s.reportErr(ctx, "active devices", err)
	}
	if report.Platforms, err = s.reportingRepo.GetPlatformUsageSince(ctx, since); err != nil {
		return nil, s.reportErr(ctx, "platform usage", err)
	}
	if report.RecentRequests, err = s.reportingRepo.GetRecentRequests(ctx, monitorRecentRequests); err != nil {
		return nil, s.reportErr(ctx, "recent requests", err)
	}
	if report.Hourly, err = s.reportingRepo.GetHourlyCountsSince(ctx, since); err != nil {
		return nil, s.reportErr(ctx, "hourly counts", err)
	}

	return report, nil
}

// ListRequestLogs returns one filtered page of the request log.
func (s *reportingService) ListRequestLogs(ctx context.Context, filter domain.RequestLogFilter) (*domain.RequestLogPage, error) {
	if filter.Limit <= 0 || filter.Limit > RequestLogPageSize {
		filter.Limit = RequestLogPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	page, err := s.reportingRepo.ListRequestLogs(ctx, filter)
	if err != nil {
		return nil, s.reportErr(ctx, "request logs", err)
	}
	return page, nil
}

// ListStatistics returns the daily aggregates of one day.
func (s *reportingService) ListStatistics(ctx context.Context, date time.Time) ([]domain.ApiStatistic, error) {
	stats, err := s.statsRepo.ListStatisticsByDate(ctx, date)
	if err != nil {
		return nil, s.reportErr(ctx, "statistics", err)
	}
	return stats, nil
}

func (s *reportingService) reportErr(ctx context.Context, section string, err error) error {
	s.LogError(ctx, err, "Failed to build report section", slog.String("section", section))
	return fmt.Errorf("failed to load %s: %w", section, err)
}
