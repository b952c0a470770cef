// FilePath: internal/hubservice/hubservice.go
package hubservice

import (
	"time"

	"github.com/agrimesh/irrihub/internal/cache"
	"github.com/agrimesh/irrihub/internal/errors"
	"github.com/agrimesh/irrihub/internal/repository"
	"github.com/agrimesh/irrihub/internal/retention"
)

// HubService contains all repositories and service-wide dependencies
type HubService struct {
	Devices   repository.DeviceRepository
	Readings  repository.ReadingRepository
	Cache     *cache.Cache
	Retention *retention.Service

	location     *time.Location
	historyLimit int
}

// New creates a new HubService instance
func New(
	devices repository.DeviceRepository,
	readings repository.ReadingRepository,
	latest *cache.Cache,
	purger *retention.Service,
	location *time.Location,
	historyLimit int,
) *HubService {
	if location == nil {
		location = time.UTC
	}
	if historyLimit <= 0 {
		historyLimit = 100
	}
	return &HubService{
		Devices:      devices,
		Readings:     readings,
		Cache:        latest,
		Retention:    purger,
		location:     location,
		historyLimit: historyLimit,
	}
}

// Validate checks if all required dependencies are initialized
func (s *HubService) Validate() error {
	if s.Devices == nil {
		return ErrMissingRepository("devices")
	}
	if s.Readings == nil {
		return ErrMissingRepository("readings")
	}
	return nil
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}
