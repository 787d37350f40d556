package dto

import (
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
)

// AdminLoginRequest is the body of POST /admin/login.
type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AdminLoginResponse carries the bearer token for the admin API.
type AdminLoginResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RequestLogsQuery is bound from GET /admin/logs.
type RequestLogsQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Endpoint string `form:"endpoint"`
	Status   *int   `form:"status" binding:"omitempty,min=100,max=599"`
	Device   string `form:"device"`
}

// RequestLogsResponse is one page of the request log.
type RequestLogsResponse struct {
	Success    bool                   `json:"success"`
	Logs       []domain.ApiRequestLog `json:"logs"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	PerPage    int                    `json:"per_page"`
	TotalPages int                    `json:"total_pages"`
}

// StatisticsQuery is bound from GET /admin/statistics.
type StatisticsQuery struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// StatisticsResponse lists the daily aggregates of one day.
type StatisticsResponse struct {
	Success    bool                  `json:"success"`
	Date       string                `json:"date"`
	Statistics []domain.ApiStatistic `json:"statistics"`
}

// DashboardResponse wraps the admin overview.
type DashboardResponse struct {
	Success bool                    `json:"success"`
	Report  *domain.DashboardReport `json:"report"`
}

// MonitorResponse wraps the last-24-hours traffic view.
type MonitorResponse struct {
	Success bool                  `json:"success"`
	Report  *domain.MonitorReport `json:"report"`
}
