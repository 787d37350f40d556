package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/currency_api/internal/apperrors"
	"github.com/SscSPs/currency_api/internal/core/domain"
	portssvc "github.com/SscSPs/currency_api/internal/core/ports/services"
	"github.com/SscSPs/currency_api/internal/dto"
	"github.com/SscSPs/currency_api/internal/middleware"
	"github.com/SscSPs/currency_api/internal/utils/pagination"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

const (
	requestLogsPerPage   = 50
	statisticsDateLayout = "2006-01-02"
)

// adminAuthHandler handles the admin login.
type adminAuthHandler struct {
	authService portssvc.AdminAuthSvc
}

// registerAdminAuthRoutes registers the public admin login, rate limited when a limiter is given.
func registerAdminAuthRoutes(rg *gin.RouterGroup, authService portssvc.AdminAuthSvc, loginLimiter *limiter.Limiter) {
	h := &adminAuthHandler{authService: authService}

	handlers := []gin.HandlerFunc{}
	if loginLimiter != nil {
		handlers = append(handlers, middleware.RateLimit(loginLimiter))
	}
	handlers = append(handlers, h.login)
	rg.POST("/login", handlers...)
}

// login godoc
// @Summary Admin login
// @Description Exchanges the admin password for a bearer token.
// @Tags admin
// @Accept json
// @Produce json
// @Param credentials body dto.AdminLoginRequest true "Admin password"
// @Success 200 {object} dto.AdminLoginResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid password"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse "Login failed"
// @Router /admin/login [post]
func (h *adminAuthHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for admin login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid request format"))
		return
	}

	token, expiresAt, err := h.authService.Login(c.Request.Context(), req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			logger.Warn("Admin login rejected", slog.String("ip", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Invalid password"))
			return
		}
		respondError(c, logger, err, "Login failed")
		return
	}

	logger.Info("Admin logged in")
	c.JSON(http.StatusOK, dto.AdminLoginResponse{Success: true, Token: token, ExpiresAt: expiresAt})
}

// reportingHandler serves the JWT protected admin reports.
type reportingHandler struct {
	reportingService portssvc.ReportingService
	location         *time.Location
}

// registerReportingRoutes registers the admin report routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService, loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}
	h := &reportingHandler{reportingService: reportingService, location: loc}

	rg.GET("/dashboard", h.getDashboard)
	rg.GET("/monitor", h.getMonitor)
	rg.GET("/logs", h.listRequestLogs)
	rg.GET("/statistics", h.listStatistics)
}

// getDashboard godoc
// @Summary Admin dashboard
// @Description Today's traffic, recent errors, conversions, rate updates and device activity.
// @Tags admin
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to build dashboard"
// @Security BearerAuth
// @Router /admin/dashboard [get]
func (h *reportingHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.reportingService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, dto.DashboardResponse{Success: true, Report: report})
}

// getMonitor godoc
// @Summary Traffic monitor
// @Description Endpoint, device and platform activity over the last 24 hours.
// @Tags admin
// @Produce json
// @Success 200 {object} dto.MonitorResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to build monitor"
// @Security BearerAuth
// @Router /admin/monitor [get]
func (h *reportingHandler) getMonitor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.reportingService.Monitor(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to build monitor")
		return
	}
	c.JSON(http.StatusOK, dto.MonitorResponse{Success: true, Report: report})
}

// listRequestLogs godoc
// @Summary Request log
// @Description One page of the request audit trail, newest first.
// @Tags admin
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param endpoint query string false "Endpoint substring"
// @Param status query int false "Exact response status"
// @Param device query string false "Device id substring"
// @Success 200 {object} dto.RequestLogsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to load request logs"
// @Security BearerAuth
// @Router /admin/logs [get]
func (h *reportingHandler) listRequestLogs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query dto.RequestLogsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind query for ListRequestLogs", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid filter: "+err.Error()))
		return
	}

	page := pagination.NewPage(query.Page, requestLogsPerPage)
	result, err := h.reportingService.ListRequestLogs(c.Request.Context(), domain.RequestLogFilter{
		Endpoint: query.Endpoint,
		Status:   query.Status,
		Device:   query.Device,
		Limit:    page.PerPage,
		Offset:   page.Offset(),
	})
	if err != nil {
		respondError(c, logger, err, "Failed to load request logs")
		return
	}

	logs := result.Logs
	if logs == nil {
		logs = []domain.ApiRequestLog{}
	}
	c.JSON(http.StatusOK, dto.RequestLogsResponse{
		Success:    true,
		Logs:       logs,
		Total:      result.Total,
		Page:       page.Number,
		PerPage:    page.PerPage,
		TotalPages: page.TotalPages(result.Total),
	})
}

// listStatistics godoc
// @Summary Daily statistics
// @Description Per endpoint aggregates of one day. Defaults to today.
// @Tags admin
// @Produce json
// @Param date query string false "Day as YYYY-MM-DD"
// @Success 200 {object} dto.StatisticsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to load statistics"
// @Security BearerAuth
// @Router /admin/statistics [get]
func (h *reportingHandler) listStatistics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query dto.StatisticsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid date, expected YYYY-MM-DD"))
		return
	}

	day := time.Now().In(h.location)
	if query.Date != "" {
		parsed, err := time.ParseInLocation(statisticsDateLayout, query.Date, h.location)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid date, expected YYYY-MM-DD"))
			return
		}
		day = parsed
	}
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, h.location)

	stats, err := h.reportingService.ListStatistics(c.Request.Context(), day)
	if err != nil {
		respondError(c, logger, err, "Failed to load statistics")
		return
	}
	if stats == nil {
		stats = []domain.ApiStatistic{}
	}
	c.JSON(http.StatusOK, dto.StatisticsResponse{
		Success:    true,
		Date:       day.Format(statisticsDateLayout),
		Statistics: stats,
	})
}
