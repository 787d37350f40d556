package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Update sources recorded on RateUpdateLog rows.
const (
	RateUpdateSourceCron      = "cron"
	RateUpdateSourceScheduler = "scheduler"
	RateUpdateSourceAPI       = "api"
)

// RequestLogEntry is what the HTTP layer hands to the audit logger for one request.
type RequestLogEntry struct {
	Request        RequestContext
	Endpoint       string
	Method         string
	Params         RequestParams
	ResponseStatus int
	ResponseSize   int64
	ErrorMessage   string
}

// ApiRequestLog is one persisted row of the request audit trail.
type ApiRequestLog struct {
	ID                int64     `json:"id"`
	DeviceRef         *int64    `json:"deviceRef,omitempty"`
	DeviceIdentifier  *string   `json:"deviceIdentifier,omitempty"`
	Endpoint          string    `json:"endpoint"`
	Method            string    `json:"method"`
	IPAddress         string    `json:"ipAddress"`
	UserAgent         *string   `json:"userAgent,omitempty"`
	ResponseStatus    int       `json:"responseStatus"`
	ResponseTimeMs    int64     `json:"responseTimeMs"`
	RequestParams     *string   `json:"requestParams,omitempty"`
	ResponseSizeBytes int64     `json:"responseSizeBytes"`
	Referer           *string   `json:"referer,omitempty"`
	APIVersion        string    `json:"apiVersion"`
	ErrorMessage      *string   `json:"errorMessage,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ConversionLog is one persisted successful conversion.
type ConversionLog struct {
	ID               int64           `json:"id"`
	DeviceRef        *int64          `json:"deviceRef,omitempty"`
	DeviceIdentifier *string         `json:"deviceIdentifier,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	FromCurrency     string          `json:"fromCurrency"`
	ToCurrency       string          `json:"toCurrency"`
	ConvertedAmount  decimal.Decimal `json:"convertedAmount"`
	Rate             decimal.Decimal `json:"rate"`
	IPAddress        string          `json:"ipAddress"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// RateUpdateLog is one persisted refresh attempt.
type RateUpdateLog struct {
	ID                int64     `json:"id"`
	BaseCurrency      string    `json:"baseCurrency"`
	RatesCount        int       `json:"ratesCount"`
	UpdateSource      string    `json:"updateSource"`
	Success           bool      `json:"success"`
	ErrorMessage      *string   `json:"errorMessage,omitempty"`
	ExecutionTimeMs   *int64    `json:"executionTimeMs,omitempty"`
	APIResponseTimeMs *int64    `json:"apiResponseTimeMs,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ErrorLogEntry is what the HTTP layer hands to the audit logger for one handled failure.
type ErrorLogEntry struct {
	Request    RequestContext
	Endpoint   string
	ErrorType  string
	Message    string
	StackTrace string
	Params     RequestParams
	HTTPStatus int
}

// ErrorLog is one persisted handled failure.
type ErrorLog struct {
	ID            int64     `json:"id"`
	DeviceRef     *int64    `json:"deviceRef,omitempty"`
	Endpoint      *string   `json:"endpoint,omitempty"`
	ErrorType     *string   `json:"errorType,omitempty"`
	ErrorMessage  string    `json:"errorMessage"`
	StackTrace    *string   `json:"stackTrace,omitempty"`
	RequestParams *string   `json:"requestParams,omitempty"`
	IPAddress     string    `json:"ipAddress"`
	UserAgent     *string   `json:"userAgent,omitempty"`
	HTTPStatus    int       `json:"httpStatus"`
	CreatedAt     time.Time `json:"createdAt"`
}
