package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/currency_api/internal/apperrors"
	portssvc "github.com/SscSPs/currency_api/internal/core/ports/services"
	"github.com/SscSPs/currency_api/internal/dto"
	"github.com/SscSPs/currency_api/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	defaultDeviceListLimit = 50
)

// deviceHandler handles device registration and lookup.
type deviceHandler struct {
	deviceService portssvc.DeviceSvcFacade
}

func newDeviceHandler(ds portssvc.DeviceSvcFacade) *deviceHandler {
	return &deviceHandler{deviceService: ds}
}

// registerDeviceRoutes registers the public device routes.
func registerDeviceRoutes(rg *gin.RouterGroup, deviceService portssvc.DeviceSvcFacade) {
	h := newDeviceHandler(deviceService)

	device := rg.Group("/device")
	{
		device.POST("/register", h.registerDevice)
		device.GET("/info", h.getDeviceInfo)
	}
}

// registerAdminDeviceRoutes registers the admin device listing.
func registerAdminDeviceRoutes(rg *gin.RouterGroup, deviceService portssvc.DeviceSvcFacade) {
	h := newDeviceHandler(deviceService)
	rg.GET("/devices", h.listDevices)
}

// registerDevice godoc
// @Summary Register or update a device
// @Description Upserts the device by its client supplied id and refreshes last_active.
// @Tags devices
// @Accept json
// @Produce json
// @Param device body dto.RegisterDeviceRequest true "Device details"
// @Success 200 {object} dto.RegisterDeviceResponse
// @Failure 400 {object} dto.ErrorResponse "device_id is required"
// @Failure 500 {object} dto.ErrorResponse "Failed to register device"
// @Router /api/device/register [post]
func (h *deviceHandler) registerDevice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RegisterDevice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("device_id is required"))
		return
	}

	device, created, err := h.deviceService.RegisterDevice(c.Request.Context(), req.ToDomain())
	if err != nil {
		respondError(c, logger, err, "Failed to register device")
		return
	}

	message := "Device updated"
	if created {
		message = "Device registered"
	}
	logger.Info(message, slog.String("device_id", device.DeviceID), slog.Int64("id", device.ID))
	c.JSON(http.StatusOK, dto.RegisterDeviceResponse{
		Success:  true,
		Message:  message,
		DeviceID: device.ID,
		Created:  created,
	})
}

// getDeviceInfo godoc
// @Summary Get a device
// @Description Looks up a device by its client supplied id.
// @Tags devices
// @Produce json
// @Param device_id query string true "Device id"
// @Success 200 {object} dto.DeviceInfoResponse
// @Failure 400 {object} dto.ErrorResponse "device_id is required"
// @Failure 404 {object} dto.ErrorResponse "Device not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to load device"
// @Router /api/device/info [get]
func (h *deviceHandler) getDeviceInfo(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	deviceID := strings.TrimSpace(c.Query("device_id"))
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("device_id is required"))
		return
	}

	device, err := h.deviceService.GetDevice(c.Request.Context(), deviceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse("Device not found"))
			return
		}
		respondError(c, logger, err, "Failed to load device")
		return
	}

	c.JSON(http.StatusOK, dto.DeviceInfoResponse{Success: true, Device: dto.ToDeviceResponse(device)})
}

// listDevices godoc
// @Summary List devices
// @Description Lists registered devices, most recently active first.
// @Tags admin
// @Produce json
// @Param limit query int false "Page size (max 100)" default(50)
// @Param offset query int false "Offset"
// @Success 200 {object} dto.DeviceListResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid paging"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list devices"
// @Security BearerAuth
// @Router /admin/devices [get]
func (h *deviceHandler) listDevices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query dto.ListDevicesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind query for ListDevices", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid paging parameters"))
		return
	}
	if query.Limit == 0 {
		query.Limit = defaultDeviceListLimit
	}

	devices, err := h.deviceService.ListDevices(c.Request.Context(), query.Limit, query.Offset)
	if err != nil {
		respondError(c, logger, err, "Failed to list devices")
		return
	}
	c.JSON(http.StatusOK, dto.ToDeviceListResponse(devices, query.Limit, query.Offset))
}
