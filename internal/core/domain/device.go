package domain

import "time"

// Device is a client installation identified by a client-supplied opaque id.
type Device struct {
	ID         int64     `json:"id"`
	DeviceID   string    `json:"deviceId"`
	DeviceName *string   `json:"deviceName,omitempty"`
	DeviceType *string   `json:"deviceType,omitempty"`
	Platform   *string   `json:"platform,omitempty"`
	AppVersion *string   `json:"appVersion,omitempty"`
	LastActive time.Time `json:"lastActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// DeviceRegistration is the upsert payload for a device.
type DeviceRegistration struct {
	DeviceID   string
	DeviceName *string
	DeviceType *string
	Platform   *string
	AppVersion *string
}
