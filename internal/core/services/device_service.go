package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/currency_api/internal/apperrors"
	"github.com/SscSPs/currency_api/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_api/internal/core/ports/services"
)

const (
	defaultDeviceListLimit = 50
	maxDeviceListLimit     = 100
)

type deviceService struct {
	BaseService
	repo portsrepo.DeviceRepositoryFacade
}

// DeviceServiceOption configures the device service.
type DeviceServiceOption func(*deviceService)

// WithDeviceClock overrides the clock used for last_active.
func WithDeviceClock(clock func() time.Time) DeviceServiceOption {
	return func(s *deviceService) {
		s.Clock = clock
	}
}

// NewDeviceService creates a new device service.
func NewDeviceService(repo portsrepo.DeviceRepositoryFacade, opts ...DeviceServiceOption) portssvc.DeviceSvcFacade {
	s := &deviceService{repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *deviceService) RegisterDevice(ctx context.Context, reg domain.DeviceRegistration) (*domain.Device, bool, error) {
	reg.DeviceID = strings.TrimSpace(reg.DeviceID)
	if reg.DeviceID == "" {
		return nil, false, apperrors.NewValidationError("device_id is required")
	}
	reg.DeviceName = trimmedOrNil(reg.DeviceName)
	reg.DeviceType = trimmedOrNil(reg.DeviceType)
	reg.Platform = trimmedOrNil(reg.Platform)
	reg.AppVersion = trimmedOrNil(reg.AppVersion)

	device, created, err := s.repo.UpsertDevice(ctx, reg, s.Now().UTC())
	if err != nil {
		s.LogError(ctx, err, "Failed to upsert device", slog.String("device_id", reg.DeviceID))
		return nil, false, err
	}

	s.LogDebug(ctx, "Device registered", slog.String("device_id", reg.DeviceID), slog.Bool("created", created))
	return device, created, nil
}

func (s *deviceService) GetDevice(ctx context.Context, deviceID string) (*domain.Device, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, apperrors.NewValidationError("device_id is required")
	}
	return s.repo.FindDeviceByExternalID(ctx, deviceID)
}

func (s *deviceService) ListDevices(ctx context.Context, limit, offset int) ([]domain.Device, error) {
	if limit <= 0 {
		limit = defaultDeviceListLimit
	}
	if limit > maxDeviceListLimit {
		limit = maxDeviceListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListDevices(ctx, limit, offset)
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
