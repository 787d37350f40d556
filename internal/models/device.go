package models

import "time"

// Device is one row of the devices table. Optional descriptors are nullable.
type Device struct {
	ID         int64     `db:"id"`
	DeviceID   string    `db:"device_id"`
	DeviceName *string   `db:"device_name"`
	DeviceType *string   `db:"device_type"`
	Platform   *string   `db:"platform"`
	AppVersion *string   `db:"app_version"`
	LastActive time.Time `db:"last_active"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
