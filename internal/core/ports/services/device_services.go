package services

import (
	"context"

	"github.com/SscSPs/currency_api/internal/core/domain"
)

// DeviceReaderSvc defines read operations for devices
type DeviceReaderSvc interface {
	// GetDevice returns apperrors.ErrNotFound for an unknown device id.
	GetDevice(ctx context.Context, deviceID string) (*domain.Device, error)

	ListDevices(ctx context.Context, limit, offset int) ([]domain.Device, error)
}

// DeviceWriterSvc defines write operations for devices
type DeviceWriterSvc interface {
	// RegisterDevice upserts by device id. created is true when the device was new.
	RegisterDevice(ctx context.Context, reg domain.DeviceRegistration) (device *domain.Device, created bool, err error)
}

// DeviceSvcFacade combines all device service interfaces
type DeviceSvcFacade interface {
	DeviceReaderSvc
	DeviceWriterSvc
}
