package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	portssvc "github.com/SscSPs/currency_api/internal/core/ports/services"
	"github.com/SscSPs/currency_api/internal/dto"
	"github.com/SscSPs/currency_api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// rateHandler serves the stored exchange rates.
type rateHandler struct {
	rateService portssvc.ExchangeRateReaderSvc
	defaultBase string
}

func newRateHandler(rs portssvc.ExchangeRateReaderSvc, defaultBase string) *rateHandler {
	return &rateHandler{rateService: rs, defaultBase: defaultBase}
}

// registerRateRoutes registers routes related to exchange rates.
func registerRateRoutes(rg *gin.RouterGroup, rateService portssvc.ExchangeRateReaderSvc, defaultBase string) {
	h := newRateHandler(rateService, defaultBase)
	rg.GET("/rates", h.getRates)
}

// getRates godoc
// @Summary Get exchange rates
// @Description Returns a single rate when target is given, otherwise every stored rate of the base currency.
// @Tags rates
// @Produce json
// @Param base query string false "Base currency code (defaults to the configured base)"
// @Param target query string false "Target currency code"
// @Success 200 {object} dto.RatesResponse
// @Success 200 {object} dto.SingleRateResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid currency code"
// @Failure 404 {object} dto.ErrorResponse "Rate not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to load rates"
// @Router /api/rates [get]
func (h *rateHandler) getRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query dto.RatesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind query for GetRates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid currency code"))
		return
	}

	base := strings.ToUpper(query.Base)
	if base == "" {
		base = h.defaultBase
	}

	if query.Target != "" {
		target := strings.ToUpper(query.Target)
		rate, err := h.rateService.GetRate(c.Request.Context(), base, target)
		if err != nil {
			respondError(c, logger, err, "Failed to load rate")
			return
		}
		if rate == nil {
			logger.Info("Rate not found", slog.String("base", base), slog.String("target", target))
			c.JSON(http.StatusNotFound, dto.NewErrorResponse("Rate not found"))
			return
		}
		c.JSON(http.StatusOK, dto.ToSingleRateResponse(rate))
		return
	}

	rates, err := h.rateService.GetAllRates(c.Request.Context(), base)
	if err != nil {
		respondError(c, logger, err, "Failed to load rates")
		return
	}
	c.JSON(http.StatusOK, dto.ToRatesResponse(base, rates))
}
