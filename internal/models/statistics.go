package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApiStatistic is one row of the api_statistics table.
type ApiStatistic struct {
	ID                     int64           `db:"id"`
	Date                   time.Time       `db:"date"`
	Endpoint               string          `db:"endpoint"`
	Method                 string          `db:"method"`
	TotalRequests          int64           `db:"total_requests"`
	SuccessfulRequests     int64           `db:"successful_requests"`
	FailedRequests         int64           `db:"failed_requests"`
	AvgResponseTimeMs      decimal.Decimal `db:"avg_response_time_ms"`
	TotalResponseSizeBytes int64           `db:"total_response_size_bytes"`
	UniqueDevices          int64           `db:"unique_devices"`
	CreatedAt              time.Time       `db:"created_at"`
	UpdatedAt              time.Time       `db:"updated_at"`
}
