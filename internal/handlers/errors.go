package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/currency_api/internal/apperrors"
	"github.com/SscSPs/currency_api/internal/dto"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error to a status code and body.
// 5xx details are logged and attached to the gin context, never sent to the client.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		_ = c.Error(err)
		c.JSON(status, dto.NewErrorResponse(fallback))
		return
	}

	logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, dto.NewErrorResponse(clientMessage(err)))
}

// clientMessage prefers the AppError message over the wrapped sentinel text.
func clientMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}
