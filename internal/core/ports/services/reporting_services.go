package services

import (
	"context"
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
)

// ReportingService defines the admin read models over the audit tables
type ReportingService interface {
	// Dashboard builds today's overview.
	Dashboard(ctx context.Context) (*domain.DashboardReport, error)

	// Monitor builds the last-24-hours traffic view.
	Monitor(ctx context.Context) (*domain.MonitorReport, error)

	// ListRequestLogs returns one filtered page of the request log.
	ListRequestLogs(ctx context.Context, filter domain.RequestLogFilter) (*domain.RequestLogPage, error)

	// ListStatistics returns the daily aggregates of one day.
	ListStatistics(ctx context.Context, date time.Time) ([]domain.ApiStatistic, error)
}
