package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/currency_api/internal/core/domain"
	portssvc "github.com/SscSPs/currency_api/internal/core/ports/services"
	"github.com/SscSPs/currency_api/internal/dto"
	"github.com/SscSPs/currency_api/internal/middleware"
	"github.com/gin-gonic/gin"
)

type updateHandler struct {
	refreshService portssvc.RateRefreshSvc
}

// registerUpdateRoutes registers the manual refresh trigger.
func registerUpdateRoutes(rg *gin.RouterGroup, refreshService portssvc.RateRefreshSvc) {
	h := &updateHandler{refreshService: refreshService}
	rg.POST("/update", h.updateRates)
}

// updateRates godoc
// @Summary Force a rate refresh
// @Description Fetches the upstream rate table and replaces the stored rates of its base currency.
// @Tags rates
// @Produce json
// @Success 200 {object} dto.UpdateRatesResponse
// @Failure 500 {object} dto.UpdateRatesResponse "Upstream or store failure"
// @Router /api/update [post]
func (h *updateHandler) updateRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	result := h.refreshService.RefreshAndRecord(c.Request.Context(), domain.RateUpdateSourceAPI)
	if !result.Success {
		logger.Error("Manual rate refresh failed", slog.String("error", result.Error))
		_ = c.Error(errors.New(result.Error))
		c.JSON(http.StatusInternalServerError, dto.ToUpdateRatesResponse(result))
		return
	}

	logger.Info("Manual rate refresh finished",
		slog.String("base_currency", result.BaseCurrency), slog.Int("rates_count", result.RatesCount))
	c.JSON(http.StatusOK, dto.ToUpdateRatesResponse(result))
}
