package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
	"github.com/SscSPs/currency_api/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	// DeviceIDHeader identifies the calling device when no device_id param is sent.
	DeviceIDHeader = "X-Device-ID"
	deviceIDParam  = "device_id"

	maxCapturedBody = 1 << 20
)

// RequestContextMiddleware captures who is calling before any handler runs:
// device id, client IP, user agent, referer and the start time, plus the merged
// query and JSON body params. The request body is restored for the handlers.
func RequestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		params := collectParams(c)

		deviceID := strings.TrimSpace(params.String(deviceIDParam))
		if deviceID == "" {
			deviceID = strings.TrimSpace(c.GetHeader(DeviceIDHeader))
		}

		reqCtx := domain.RequestContext{
			DeviceID:  deviceID,
			IPAddress: utils.ResolveClientIP(c.Request),
			UserAgent: c.Request.UserAgent(),
			Referer:   c.Request.Referer(),
			StartedAt: time.Now(),
		}

		c.Set(string(requestContextKey), reqCtx)
		c.Set(string(requestParamsKey), params)
		c.Next()
	}
}

// collectParams merges query values with a JSON object body. Body keys win.
func collectParams(c *gin.Context) domain.RequestParams {
	params := domain.RequestParams{}
	for key, values := range c.Request.URL.Query() {
		if len(values) == 1 {
			params[key] = values[0]
		} else {
			params[key] = values
		}
	}

	if c.Request.Body == nil || !strings.HasPrefix(c.ContentType(), gin.MIMEJSON) {
		return params
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCapturedBody))
	if err != nil {
		GetLoggerFromCtx(c.Request.Context()).Warn("Could not read request body for audit", "error", err.Error())
		return params
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return params
	}
	for key, value := range body {
		params[key] = value
	}
	return params
}
