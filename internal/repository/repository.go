// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/agrimesh/irrihub/internal/database"
	"github.com/agrimesh/irrihub/internal/models"
)

var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate indicates that a resource already exists
	ErrDuplicate = errors.New("resource already exists")
	// ErrInvalidInput indicates that the input data is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// DeviceRepository defines the interface for device records. Device creation
// and deletion belong to the external device-management service; the hub
// only reads devices and updates liveness/actuator fields.
type DeviceRepository interface {
	database.Repository
	Create(ctx context.Context, device *models.Device) error
	Get(ctx context.Context, id string) (*models.Device, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.Device, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Device, error)
	UpdateLastSeen(ctx context.Context, id string, lastSeen time.Time) error
	UpdatePumpState(ctx context.Context, id string, pumpOn bool) error
}

// ReadingFilter narrows a reading scan. DeviceIDs is mandatory and already
// ownership-checked by the caller; Start/End are optional bounds; a Limit
// of 0 means no cap.
type ReadingFilter struct {
	DeviceIDs []string
	Start     *time.Time
	End       *time.Time
	Limit     int
}

// ReadingRepository defines the interface for the persisted reading stream.
type ReadingRepository interface {
	database.Repository
	Insert(ctx context.Context, reading *models.Reading) error
	List(ctx context.Context, filter ReadingFilter) ([]models.Reading, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
