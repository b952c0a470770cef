// FilePath: internal/repository/postgres/postgres.device.go
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/agrimesh/irrihub/internal/database"
	"github.com/agrimesh/irrihub/internal/errors"
	"github.com/agrimesh/irrihub/internal/models"
)

type DeviceRepo struct {
	PostgresBaseRepo
}

func NewDeviceRepository(db database.DB) *DeviceRepo {
	repo := &PostgresBaseRepo{db: db}
	return &DeviceRepo{PostgresBaseRepo: *repo}
}

func (r *DeviceRepo) Create(ctx context.Context, device *models.Device) error {
	query := `
		INSERT INTO devices (
			id, external_id, user_id, name, mode, pump_on,
			last_seen, created_at, updated_at
		) VALUES (
			:id, :external_id, :user_id, :name, :mode, :pump_on,
			:last_seen, :created_at, :updated_at
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, device)
	if err != nil {
		return errors.NewDatabaseError("failed to create device", err)
	}
	return nil
}

func (r *DeviceRepo) Get(ctx context.Context, id string) (*models.Device, error) {
	device := &models.Device{}
	query := `SELECT * FROM devices WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, device, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("device not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get device", err)
	}
	return device, nil
}

// GetByExternalID resolves the firmware-assigned identifier a device uses
// on the wire to its internal record.
func (r *DeviceRepo) GetByExternalID(ctx context.Context, externalID string) (*models.Device, error) {
	device := &models.Device{}
	query := `SELECT * FROM devices WHERE external_id = $1`

	err := r.db.GetDB().GetContext(ctx, device, query, externalID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("device not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get device by external id", err)
	}
	return device, nil
}

func (r *DeviceRepo) ListByUser(ctx context.Context, userID string) ([]*models.Device, error) {
	devices := []*models.Device{}
	query := `SELECT * FROM devices WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.GetDB().SelectContext(ctx, &devices, query, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list devices", err)
	}

	return devices, nil
}

func (r *DeviceRepo) UpdateLastSeen(ctx context.Context, id string, lastSeen time.Time) error {
	query := `UPDATE devices SET last_seen = $1, updated_at = $1 WHERE id = $2`
	result, err := r.db.GetDB().ExecContext(ctx, query, lastSeen, id)
	if err != nil {
		return errors.NewDatabaseError("failed to update last seen", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	if rows == 0 {
		return errors.NewNotFoundError("device not found", nil)
	}

	return nil
}

func (r *DeviceRepo) UpdatePumpState(ctx context.Context, id string, pumpOn bool) error {
	query := `UPDATE devices SET pump_on = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.GetDB().ExecContext(ctx, query, pumpOn, time.Now(), id)
	if err != nil {
		return errors.NewDatabaseError("failed to update pump state", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	if rows == 0 {
		return errors.NewNotFoundError("device not found", nil)
	}

	return nil
}
