package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TodayStats summarizes today's request log.
type TodayStats struct {
	TotalRequests      int64           `json:"totalRequests"`
	SuccessfulRequests int64           `json:"successfulRequests"`
	FailedRequests     int64           `json:"failedRequests"`
	AvgResponseTimeMs  decimal.Decimal `json:"avgResponseTimeMs"`
	UniqueDevices      int64           `json:"uniqueDevices"`
}

// EndpointUsage is one row of a "top endpoints" listing.
type EndpointUsage struct {
	Endpoint      string          `json:"endpoint"`
	Method        string          `json:"method,omitempty"`
	RequestsCount int64           `json:"requestsCount"`
	DevicesCount  int64           `json:"devicesCount,omitempty"`
	AvgTimeMs     decimal.Decimal `json:"avgTimeMs"`
}

// ConversionPairStat aggregates conversions for one currency pair.
type ConversionPairStat struct {
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	Count        int64           `json:"count"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

// DeviceStats counts known devices and how many were active recently.
type DeviceStats struct {
	TotalDevices int64 `json:"totalDevices"`
	Active24h    int64 `json:"active24h"`
	Active7d     int64 `json:"active7d"`
}

// ActiveDevice is a device with its request volume over a window.
type ActiveDevice struct {
	DeviceID      string    `json:"deviceId"`
	DeviceName    *string   `json:"deviceName,omitempty"`
	Platform      *string   `json:"platform,omitempty"`
	AppVersion    *string   `json:"appVersion,omitempty"`
	RequestsCount int64     `json:"requestsCount"`
	LastRequest   time.Time `json:"lastRequest"`
}

// PlatformUsage is request volume grouped by device platform.
type PlatformUsage struct {
	Platform      string `json:"platform"`
	DevicesCount  int64  `json:"devicesCount"`
	RequestsCount int64  `json:"requestsCount"`
}

// HourlyCount is the number of requests in one clock hour.
type HourlyCount struct {
	Hour          time.Time `json:"hour"`
	RequestsCount int64     `json:"requestsCount"`
}

// DashboardReport is the admin overview.
type DashboardReport struct {
	Today             TodayStats           `json:"today"`
	PopularEndpoints  []EndpointUsage      `json:"popularEndpoints"`
	RecentErrors      []ErrorLog           `json:"recentErrors"`
	RecentConversions []ConversionLog      `json:"recentConversions"`
	ConversionPairs   []ConversionPairStat `json:"conversionPairs"`
	RecentRateUpdates []RateUpdateLog      `json:"recentRateUpdates"`
	Devices           DeviceStats          `json:"devices"`
}

// MonitorReport is the admin view over the last 24 hours of traffic.
type MonitorReport struct {
	TopEndpoints   []EndpointUsage `json:"topEndpoints"`
	ActiveDevices  []ActiveDevice  `json:"activeDevices"`
	Platforms      []PlatformUsage `json:"platforms"`
	RecentRequests []ApiRequestLog `json:"recentRequests"`
	Hourly         []HourlyCount   `json:"hourly"`
}

// RequestLogFilter narrows the paginated request log listing.
type RequestLogFilter struct {
	Endpoint string
	Status   *int
	Device   string
	Limit    int
	Offset   int
}

// RequestLogPage is one page of request logs plus the unpaginated total.
type RequestLogPage struct {
	Logs  []ApiRequestLog `json:"logs"`
	Total int64           `json:"total"`
}
