package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/currency_api/internal/apperrors"
	"github.com/SscSPs/currency_api/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_api/internal/core/ports/repositories"
	"github.com/SscSPs/currency_api/internal/models"
	"github.com/SscSPs/currency_api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxDeviceRepository implements portsrepo.DeviceRepositoryFacade using pgxpool.
type PgxDeviceRepository struct {
	BaseRepository
}

func newPgxDeviceRepository(db *pgxpool.Pool) *PgxDeviceRepository {
	return &PgxDeviceRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.DeviceRepositoryFacade = (*PgxDeviceRepository)(nil)

const deviceColumns = `id, device_id, device_name, device_type, platform, app_version, last_active, created_at, updated_at`

func scanDevice(row pgx.Row, m *models.Device) error {
	return row.Scan(
		&m.ID, &m.DeviceID, &m.DeviceName, &m.DeviceType, &m.Platform,
		&m.AppVersion, &m.LastActive, &m.CreatedAt, &m.UpdatedAt,
	)
}

// FindDeviceByExternalID looks a device up by its client-supplied id.
func (r *PgxDeviceRepository) FindDeviceByExternalID(ctx context.Context, deviceID string) (*domain.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE device_id = $1;`

	var modelDevice models.Device
	if err := scanDevice(r.Pool.QueryRow(ctx, query, deviceID), &modelDevice); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("device " + deviceID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find device", err)
	}

	device := mapping.ToDomainDevice(modelDevice)
	return &device, nil
}

// ListDevices returns a page of devices, most recently active first.
func (r *PgxDeviceRepository) ListDevices(ctx context.Context, limit, offset int) ([]domain.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices ORDER BY last_active DESC LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list devices", err)
	}
	defer rows.Close()

	devices := make([]domain.Device, 0)
	for rows.Next() {
		var modelDevice models.Device
		if err := scanDevice(rows, &modelDevice); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan device", err)
		}
		devices = append(devices, mapping.ToDomainDevice(modelDevice))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating devices", err)
	}
	return devices, nil
}

// UpsertDevice inserts a device or refreshes an existing one keyed by device_id.
// Descriptors that are not supplied keep their stored values.
func (r *PgxDeviceRepository) UpsertDevice(ctx context.Context, reg domain.DeviceRegistration, lastActive time.Time) (*domain.Device, bool, error) {
	query := `
		INSERT INTO devices (device_id, device_name, device_type, platform, app_version, last_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6, $6)
		ON CONFLICT (device_id) DO UPDATE SET
			device_name = COALESCE(EXCLUDED.device_name, devices.device_name),
			device_type = COALESCE(EXCLUDED.device_type, devices.device_type),
			platform    = COALESCE(EXCLUDED.platform, devices.platform),
			app_version = COALESCE(EXCLUDED.app_version, devices.app_version),
			last_active = EXCLUDED.last_active,
			updated_at  = EXCLUDED.updated_at
		RETURNING ` + deviceColumns + `, (xmax = 0) AS inserted;
	`

	var modelDevice models.Device
	var inserted bool
	err := r.Pool.QueryRow(ctx, query,
		reg.DeviceID, reg.DeviceName, reg.DeviceType, reg.Platform, reg.AppVersion, lastActive,
	).Scan(
		&modelDevice.ID, &modelDevice.DeviceID, &modelDevice.DeviceName, &modelDevice.DeviceType,
		&modelDevice.Platform, &modelDevice.AppVersion, &modelDevice.LastActive,
		&modelDevice.CreatedAt, &modelDevice.UpdatedAt, &inserted,
	)
	if err != nil {
		return nil, false, apperrors.NewAppError(500, "failed to register device", err)
	}

	device := mapping.ToDomainDevice(modelDevice)
	return &device, inserted, nil
}
