package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
)

// DeviceFinder resolves a client-supplied device id to the stored device.
// It never creates devices.
type DeviceFinder interface {
	// FindDeviceByExternalID returns apperrors.ErrNotFound when the device is unknown.
	FindDeviceByExternalID(ctx context.Context, deviceID string) (*domain.Device, error)
}

// DeviceReader defines read operations for device data
type DeviceReader interface {
	DeviceFinder

	// ListDevices returns devices ordered by last activity, newest first.
	ListDevices(ctx context.Context, limit, offset int) ([]domain.Device, error)
}

// DeviceWriter defines write operations for device data
type DeviceWriter interface {
	// UpsertDevice creates or updates a device keyed by device_id. created is true on insert.
	UpsertDevice(ctx context.Context, reg domain.DeviceRegistration, lastActive time.Time) (device *domain.Device, created bool, err error)
}

// DeviceRepositoryFacade combines all device-related repository interfaces
type DeviceRepositoryFacade interface {
	DeviceReader
	DeviceWriter
}
