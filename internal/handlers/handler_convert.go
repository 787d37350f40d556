package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	portssvc "github.com/SscSPs/currency_api/internal/core/ports/services"
	"github.com/SscSPs/currency_api/internal/dto"
	"github.com/SscSPs/currency_api/internal/middleware"
	"github.com/SscSPs/currency_api/internal/utils"
	"github.com/gin-gonic/gin"
)

// convertHandler handles amount conversions.
type convertHandler struct {
	conversionService portssvc.ConversionSvc
	posthogClient     *utils.PosthogClientWrapper
	defaultBase       string
}

func newConvertHandler(cs portssvc.ConversionSvc, ph *utils.PosthogClientWrapper, defaultBase string) *convertHandler {
	return &convertHandler{
		conversionService: cs,
		posthogClient:     ph,
		defaultBase:       defaultBase,
	}
}

// registerConvertRoutes registers the conversion endpoint.
func registerConvertRoutes(
	rg *gin.RouterGroup,
	conversionService portssvc.ConversionSvc,
	posthogClient *utils.PosthogClientWrapper,
	defaultBase string,
) {
	h := newConvertHandler(conversionService, posthogClient, defaultBase)
	rg.GET("/convert", h.convert)
}

// convert godoc
// @Summary Convert an amount between two currencies
// @Description Uses the direct, inverse or cross rate through the base currency.
// @Tags convert
// @Produce json
// @Param amount query number true "Amount to convert, greater than 0"
// @Param from query string false "Source currency" default(USD)
// @Param to query string false "Target currency" default(EUR)
// @Param base query string false "Base currency of the rate table"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid amount or currency code"
// @Failure 404 {object} dto.ErrorResponse "No rates for the requested pair"
// @Failure 500 {object} dto.ErrorResponse "Conversion failed"
// @Router /api/convert [get]
func (h *convertHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query dto.ConvertQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind query for Convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid currency code"))
		return
	}

	amount := query.ParsedAmount()
	if !amount.IsPositive() {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid amount. It must be greater than 0"))
		return
	}

	from := orDefault(query.From, dto.DefaultFromCurrency)
	to := orDefault(query.To, dto.DefaultToCurrency)
	base := orDefault(query.Base, h.defaultBase)

	logger = logger.With(slog.String("from", from), slog.String("to", to), slog.String("base", base))

	conversion, err := h.conversionService.Convert(c.Request.Context(), amount, from, to, base)
	if err != nil {
		respondError(c, logger, err, "Conversion failed")
		return
	}
	if conversion == nil {
		logger.Info("No usable rate for conversion")
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("Conversion failed. Check that rates exist for the requested currencies."))
		return
	}

	middleware.SetConversion(c, *conversion)
	middleware.PosthogEvent(c, h.posthogClient, "currency_converted", map[string]any{
		"from":   conversion.From,
		"to":     conversion.To,
		"branch": string(conversion.Branch),
	})

	c.JSON(http.StatusOK, dto.ToConvertResponse(conversion))
}

// orDefault upper-cases code, substituting fallback when it is empty.
func orDefault(code, fallback string) string {
	if code == "" {
		return strings.ToUpper(fallback)
	}
	return strings.ToUpper(code)
}
