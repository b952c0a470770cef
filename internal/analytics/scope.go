// FilePath: internal/analytics/scope.go

// Package analytics implements the query side of the hub: device scope
// resolution, time window resolution, and aggregate statistics over
// filtered reading sets.
package analytics

import (
	"context"
	"regexp"

	"github.com/agrimesh/irrihub/internal/errors"
	"github.com/agrimesh/irrihub/internal/models"
	"github.com/agrimesh/irrihub/internal/repository"
)

// deviceIDPattern matches store-assigned device identifiers. Anything else
// is rejected before the store is ever consulted.
var deviceIDPattern = regexp.MustCompile(`^dev_[A-Za-z0-9_-]{12}$`)

// DeviceScope is the resolved set of device ids a query may read. NoDevices
// is a valid terminal state: the caller owns nothing, downstream components
// must answer "no data" without touching the store.
type DeviceScope struct {
	DeviceIDs []string
	Devices   []*models.Device
	NoDevices bool
}

// ValidDeviceID reports whether id is a syntactically well-formed store
// identifier.
func ValidDeviceID(id string) bool {
	return deviceIDPattern.MatchString(id)
}

// ResolveScope computes the device scope for a caller. Ownership is
// enforced here and only here: a requested device outside the caller's
// owned set yields the same not-found error whether or not it exists,
// so existence never leaks.
//
// Every statistics, history and chart entry point goes through this.
func ResolveScope(ctx context.Context, devices repository.DeviceRepository, userID, requestedID string) (*DeviceScope, error) {
	owned, err := devices.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if requestedID == "" {
		if len(owned) == 0 {
			return &DeviceScope{NoDevices: true}, nil
		}
		ids := make([]string, 0, len(owned))
		for _, device := range owned {
			ids = append(ids, device.ID)
		}
		return &DeviceScope{DeviceIDs: ids, Devices: owned}, nil
	}

	if !ValidDeviceID(requestedID) {
		return nil, errors.NewValidationError("invalid device identifier", nil)
	}

	for _, device := range owned {
		if device.ID == requestedID {
			return &DeviceScope{DeviceIDs: []string{device.ID}, Devices: owned}, nil
		}
	}
	return nil, errors.NewNotFoundError("device not found", nil)
}

// DeviceNames maps device id to display name for history enrichment.
func (s *DeviceScope) DeviceNames() map[string]string {
	names := make(map[string]string, len(s.Devices))
	for _, device := range s.Devices {
		name := device.Name
		if name == "" {
			name = device.ExternalID
		}
		names[device.ID] = name
	}
	return names
}
