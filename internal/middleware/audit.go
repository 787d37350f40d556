package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
	portssvc "github.com/SscSPs/currency_api/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// Error types written to error_logs by the audit middleware.
const (
	ErrorTypePanic  = "panic"
	ErrorTypeServer = "server_error"
)

// AuditOptions controls how audit records are written.
type AuditOptions struct {
	// Async writes records on a detached goroutine so the response is not delayed.
	Async bool
	// Timeout bounds an asynchronous write.
	Timeout time.Duration
}

// AuditMiddleware records every request and its daily statistic. It also writes
// any conversion handed over with SetConversion and, for 5xx responses, an error log.
// A panic in a handler is recovered, answered with 500 and logged with its stack.
// Audit failures never change the response.
// RequestContextMiddleware must run first.
func AuditMiddleware(audit portssvc.AuditLoggerSvc, opts AuditOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var failure *domain.ErrorLogEntry

		func() {
			defer func() {
				if r := recover(); r != nil {
					GetLoggerFromCtx(c.Request.Context()).Error("Recovered from panic",
						slog.Any("panic", r),
						slog.String("path", c.Request.URL.Path),
					)
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
					failure = &domain.ErrorLogEntry{
						ErrorType:  ErrorTypePanic,
						Message:    fmt.Sprint(r),
						StackTrace: string(debug.Stack()),
						HTTPStatus: http.StatusInternalServerError,
					}
				}
			}()
			c.Next()
		}()

		reqCtx := GetRequestContext(c)
		params := GetRequestParams(c)
		conversion := getConversion(c)
		endpoint := c.Request.URL.Path
		status := c.Writer.Status()
		size := int64(c.Writer.Size())
		if size < 0 {
			size = 0
		}

		errorMessage := ""
		if last := c.Errors.Last(); last != nil {
			errorMessage = last.Error()
		}
		if failure == nil && status >= http.StatusInternalServerError {
			message := errorMessage
			if message == "" {
				message = http.StatusText(status)
			}
			failure = &domain.ErrorLogEntry{ErrorType: ErrorTypeServer, Message: message, HTTPStatus: status}
		}
		if failure != nil {
			failure.Request = reqCtx
			failure.Endpoint = endpoint
			failure.Params = params
			if errorMessage == "" {
				errorMessage = failure.Message
			}
		}

		requestEntry := domain.RequestLogEntry{
			Request:        reqCtx,
			Endpoint:       endpoint,
			Method:         c.Request.Method,
			Params:         params,
			ResponseStatus: status,
			ResponseSize:   size,
			ErrorMessage:   errorMessage,
		}
		elapsed := int64(0)
		if !reqCtx.StartedAt.IsZero() {
			elapsed = time.Since(reqCtx.StartedAt).Milliseconds()
		}
		sample := domain.StatisticSample{
			Endpoint:          endpoint,
			Method:            c.Request.Method,
			Success:           status < http.StatusBadRequest,
			ResponseTimeMs:    elapsed,
			ResponseSizeBytes: size,
			DeviceID:          reqCtx.DeviceID,
		}

		record := func(ctx context.Context) {
			if failure != nil {
				audit.LogError(ctx, *failure)
			}
			if conversion != nil {
				audit.LogConversion(ctx, reqCtx, *conversion)
			}
			audit.LogRequest(ctx, requestEntry)
			audit.UpdateStatistics(ctx, sample)
		}

		if !opts.Async {
			record(c.Request.Context())
			return
		}

		detached := context.WithoutCancel(c.Request.Context())
		go func() {
			ctx := detached
			if opts.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(detached, opts.Timeout)
				defer cancel()
			}
			record(ctx)
		}()
	}
}
