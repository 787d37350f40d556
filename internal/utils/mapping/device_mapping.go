package mapping

import (
	"github.com/SscSPs/currency_api/internal/core/domain"
	"github.com/SscSPs/currency_api/internal/models"
)

// ToDomainDevice converts a model Device to a domain Device
func ToDomainDevice(m models.Device) domain.Device {
	return domain.Device{
		ID:         m.ID,
		DeviceID:   m.DeviceID,
		DeviceName: m.DeviceName,
		DeviceType: m.DeviceType,
		Platform:   m.Platform,
		AppVersion: m.AppVersion,
		LastActive: m.LastActive,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
