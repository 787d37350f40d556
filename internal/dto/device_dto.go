package dto

import (
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
)

// RegisterDeviceRequest is the body of POST /api/device/register.
type RegisterDeviceRequest struct {
	DeviceID   string  `json:"device_id" binding:"required,max=255"`
	DeviceName *string `json:"device_name" binding:"omitempty,max=255"`
	DeviceType *string `json:"device_type" binding:"omitempty,max=50"`
	Platform   *string `json:"platform" binding:"omitempty,max=50"`
	AppVersion *string `json:"app_version" binding:"omitempty,max=50"`
}

// ToDomain converts the request into an upsert payload.
func (r RegisterDeviceRequest) ToDomain() domain.DeviceRegistration {
	return domain.DeviceRegistration{
		DeviceID:   r.DeviceID,
		DeviceName: r.DeviceName,
		DeviceType: r.DeviceType,
		Platform:   r.Platform,
		AppVersion: r.AppVersion,
	}
}

// RegisterDeviceResponse reports the stored row id and whether it was new.
type RegisterDeviceResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	DeviceID int64  `json:"device_id"`
	Created  bool   `json:"created"`
}

// DeviceResponse is the public view of a device.
type DeviceResponse struct {
	ID         int64     `json:"id"`
	DeviceID   string    `json:"device_id"`
	DeviceName *string   `json:"device_name"`
	DeviceType *string   `json:"device_type"`
	Platform   *string   `json:"platform"`
	AppVersion *string   `json:"app_version"`
	LastActive time.Time `json:"last_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DeviceInfoResponse wraps a single device.
type DeviceInfoResponse struct {
	Success bool           `json:"success"`
	Device  DeviceResponse `json:"device"`
}

// DeviceListResponse is the admin device listing.
type DeviceListResponse struct {
	Success bool             `json:"success"`
	Devices []DeviceResponse `json:"devices"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// ListDevicesQuery is bound from GET /admin/devices.
type ListDevicesQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// ToDeviceResponse converts a domain device.
func ToDeviceResponse(d *domain.Device) DeviceResponse {
	return DeviceResponse{
		ID:         d.ID,
		DeviceID:   d.DeviceID,
		DeviceName: d.DeviceName,
		DeviceType: d.DeviceType,
		Platform:   d.Platform,
		AppVersion: d.AppVersion,
		LastActive: d.LastActive,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// ToDeviceListResponse converts a page of devices.
func ToDeviceListResponse(devices []domain.Device, limit, offset int) DeviceListResponse {
	out := make([]DeviceResponse, len(devices))
	for i := range devices {
		out[i] = ToDeviceResponse(&devices[i])
	}
	return DeviceListResponse{Success: true, Devices: out, Limit: limit, Offset: offset}
}
