package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApiRequest is one row of the api_requests table.
type ApiRequest struct {
	ID                int64     `db:"id"`
	DeviceRef         *int64    `db:"device_ref"`
	Endpoint          string    `db:"endpoint"`
	Method            string    `db:"method"`
	IPAddress         string    `db:"ip_address"`
	UserAgent         *string   `db:"user_agent"`
	ResponseStatus    int       `db:"response_status"`
	ResponseTimeMs    int64     `db:"response_time_ms"`
	RequestParams     *string   `db:"request_params"`
	ResponseSizeBytes int64     `db:"response_size_bytes"`
	Referer           *string   `db:"referer"`
	APIVersion        string    `db:"api_version"`
	ErrorMessage      *string   `db:"error_message"`
	CreatedAt         time.Time `db:"created_at"`
}

// ConversionLog is one row of the conversion_logs table.
type ConversionLog struct {
	ID              int64           `db:"id"`
	DeviceRef       *int64          `db:"device_ref"`
	Amount          decimal.Decimal `db:"amount"`
	FromCurrency    string          `db:"from_currency"`
	ToCurrency      string          `db:"to_currency"`
	ConvertedAmount decimal.Decimal `db:"converted_amount"`
	Rate            decimal.Decimal `db:"rate"`
	IPAddress       string          `db:"ip_address"`
	CreatedAt       time.Time       `db:"created_at"`
}

// RateUpdateLog is one row of the rate_update_logs table.
type RateUpdateLog struct {
	ID                int64     `db:"id"`
	BaseCurrency      string    `db:"base_currency"`
	RatesCount        int       `db:"rates_count"`
	UpdateSource      string    `db:"update_source"`
	Success           bool      `db:"success"`
	ErrorMessage      *string   `db:"error_message"`
	ExecutionTimeMs   *int64    `db:"execution_time_ms"`
	APIResponseTimeMs *int64    `db:"api_response_time_ms"`
	CreatedAt         time.Time `db:"created_at"`
}

// ErrorLog is one row of the error_logs table.
type ErrorLog struct {
	ID            int64     `db:"id"`
	DeviceRef     *int64    `db:"device_ref"`
	Endpoint      *string   `db:"endpoint"`
	ErrorType     *string   `db:"error_type"`
	ErrorMessage  string    `db:"error_message"`
	StackTrace    *string   `db:"stack_trace"`
	RequestParams *string   `db:"request_params"`
	IPAddress     string    `db:"ip_address"`
	UserAgent     *string   `db:"user_agent"`
	HTTPStatus    int       `db:"http_status"`
	CreatedAt     time.Time `db:"created_at"`
}
