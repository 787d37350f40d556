package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SscSPs/currency_api/internal/apperrors"
	"github.com/SscSPs/currency_api/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_api/internal/core/ports/services"
	"github.com/SscSPs/currency_api/internal/platform/config"
	"github.com/SscSPs/currency_api/internal/platform/metrics"
)

const (
	// MaxParamsLength caps the serialized request params; longer text is cut and suffixed with "...".
	MaxParamsLength = 5000
	// MaxRefererLength caps the stored referer header.
	MaxRefererLength = 500
	// MaxEndpointLength and MaxMethodLength match the endpoint and method columns.
	MaxEndpointLength = 255
	MaxMethodLength   = 10

	defaultAPIVersion = "v1"
	truncationSuffix  = "..."
)

type auditLoggerService struct {
	BaseService
	logs    portsrepo.AuditLogWriter
	stats   portsrepo.StatisticsWriter
	devices portsrepo.DeviceFinder
	cfg     config.AuditConfig
	metrics *metrics.Metrics
}

// AuditLoggerServiceOption configures the audit logger.
type AuditLoggerServiceOption func(*auditLoggerService)

// WithAuditMetrics counts failed audit writes.
func WithAuditMetrics(m *metrics.Metrics) AuditLoggerServiceOption {
	return func(s *auditLoggerService) {
		s.metrics = m
	}
}

// WithAuditClock overrides the clock used for timestamps, latency and the statistics day.
func WithAuditClock(clock func() time.Time) AuditLoggerServiceOption {
	return func(s *auditLoggerService) {
		s.Clock = clock
	}
}

// NewAuditLoggerService creates the best-effort audit logger. devices is only ever read.
func NewAuditLoggerService(logs portsrepo.AuditLogWriter, stats portsrepo.StatisticsWriter, devices portsrepo.DeviceFinder, cfg config.AuditConfig, opts ...AuditLoggerServiceOption) portssvc.AuditLoggerSvc {
	s := &auditLoggerService{logs: logs, stats: stats, devices: devices, cfg: cfg}
	if s.cfg.APIVersion == "" {
		s.cfg.APIVersion = defaultAPIVersion
	}
	if s.cfg.Location == nil {
		s.cfg.Location = time.UTC
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *auditLoggerService) LogRequest(ctx context.Context, entry domain.RequestLogEntry) bool {
	now := s.Now()
	latency := int64(0)
	if !entry.Request.StartedAt.IsZero() {
		latency = now.Sub(entry.Request.StartedAt).Milliseconds()
	}

	log := domain.ApiRequestLog{
		DeviceRef:         s.resolveDevice(ctx, entry.Request.DeviceID),
		Endpoint:          truncateRunes(entry.Endpoint, MaxEndpointLength),
		Method:            truncateRunes(entry.Method, MaxMethodLength),
		IPAddress:         entry.Request.IPAddress,
		UserAgent:         optionalString(entry.Request.UserAgent),
		ResponseStatus:    entry.ResponseStatus,
		ResponseTimeMs:    latency,
		RequestParams:     s.serializeParams(ctx, entry.Params),
		ResponseSizeBytes: entry.ResponseSize,
		Referer:           optionalString(truncateRunes(entry.Request.Referer, MaxRefererLength)),
		APIVersion:        s.cfg.APIVersion,
		ErrorMessage:      optionalString(entry.ErrorMessage),
		CreatedAt:         now.UTC(),
	}

	if err := s.logs.InsertRequestLog(ctx, log); err != nil {
		return s.fail(ctx, "log_request", err, slog.String("endpoint", entry.Endpoint))
	}
	return true
}

func (s *auditLoggerService) LogConversion(ctx context.Context, req domain.RequestContext, conversion domain.Conversion) bool {
	log := domain.ConversionLog{
		DeviceRef:       s.resolveDevice(ctx, req.DeviceID),
		Amount:          conversion.Amount,
		FromCurrency:    conversion.From,
		ToCurrency:      conversion.To,
		ConvertedAmount: conversion.ConvertedAmount,
		Rate:            conversion.Rate,
		IPAddress:       req.IPAddress,
		CreatedAt:       s.Now().UTC(),
	}

	if err := s.logs.InsertConversionLog(ctx, log); err != nil {
		return s.fail(ctx, "log_conversion", err, slog.String("from", conversion.From), slog.String("to", conversion.To))
	}
	return true
}

func (s *auditLoggerService) LogRateUpdate(ctx context.Context, update domain.RateUpdateLog) bool {
	if update.CreatedAt.IsZero() {
		update.CreatedAt = s.Now().UTC()
	}
	if err := s.logs.InsertRateUpdateLog(ctx, update); err != nil {
		return s.fail(ctx, "log_rate_update", err, slog.String("base", update.BaseCurrency))
	}
	return true
}

func (s *auditLoggerService) LogError(ctx context.Context, entry domain.ErrorLogEntry) bool {
	log := domain.ErrorLog{
		DeviceRef:     s.resolveDevice(ctx, entry.Request.DeviceID),
		Endpoint:      optionalString(truncateRunes(entry.Endpoint, MaxEndpointLength)),
		ErrorType:     optionalString(entry.ErrorType),
		ErrorMessage:  entry.Message,
		StackTrace:    optionalString(entry.StackTrace),
		RequestParams: s.serializeParams(ctx, entry.Params),
		IPAddress:     entry.Request.IPAddress,
		UserAgent:     optionalString(entry.Request.UserAgent),
		HTTPStatus:    entry.HTTPStatus,
		CreatedAt:     s.Now().UTC(),
	}

	if err := s.logs.InsertErrorLog(ctx, log); err != nil {
		return s.fail(ctx, "log_error", err, slog.String("endpoint", entry.Endpoint))
	}
	return true
}

func (s *auditLoggerService) UpdateStatistics(ctx context.Context, sample domain.StatisticSample) bool {
	day := s.Now().In(s.cfg.Location)
	sample.Endpoint = truncateRunes(sample.Endpoint, MaxEndpointLength)
	sample.Method = truncateRunes(sample.Method, MaxMethodLength)
	if _, err := s.stats.MergeStatistic(ctx, day, sample); err != nil {
		return s.fail(ctx, "update_statistics", err, slog.String("endpoint", sample.Endpoint), slog.String("method", sample.Method))
	}
	return true
}

// resolveDevice maps a client device id to its row id without ever creating a device.
func (s *auditLoggerService) resolveDevice(ctx context.Context, deviceID string) *int64 {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" || s.devices == nil {
		return nil
	}
	device, err := s.devices.FindDeviceByExternalID(ctx, deviceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogWarn(ctx, "Device lookup failed while auditing", slog.String("device_id", deviceID), slog.String("error", err.Error()))
		}
		return nil
	}
	if device == nil {
		return nil
	}
	id := device.ID
	return &id
}

func (s *auditLoggerService) serializeParams(ctx context.Context, params domain.RequestParams) *string {
	if len(params) == 0 {
		return nil
	}
	raw, err := json.Marshal(params)
	if err != nil {
		s.LogWarn(ctx, "Could not serialize request params", slog.String("error", err.Error()))
		return nil
	}
	text := string(raw)
	if utf8.RuneCountInString(text) > MaxParamsLength {
		text = truncateRunes(text, MaxParamsLength) + truncationSuffix
	}
	return &text
}

func (s *auditLoggerService) fail(ctx context.Context, operation string, err error, keyvals ...any) bool {
	s.metrics.RecordAuditFailure(operation)
	s.BaseService.LogError(ctx, err, "Audit write failed", append([]any{slog.String("operation", operation)}, keyvals...)...)
	return false
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
