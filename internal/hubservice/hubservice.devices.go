// FilePath: internal/hubservice/hubservice.devices.go
package hubservice

import (
	"context"
	"time"

	"github.com/agrimesh/irrihub/internal/models"
)

// DeviceView is a device plus its derived status and, when cached, its
// newest reading. This is what the dashboard's device list renders.
type DeviceView struct {
	*models.Device
	Status        string          `json:"status"`
	LatestReading *models.Reading `json:"latest_reading,omitempty"`
}

// ListDevices returns the caller's devices with computed online status.
// Status is derived from LastSeen on every read; nothing is stored.
func (s *HubService) ListDevices(ctx context.Context, userID string) ([]DeviceView, error) {
	devices, err := s.Devices.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	views := make([]DeviceView, 0, len(devices))
	for _, device := range devices {
		view := DeviceView{
			Device: device,
			Status: models.OnlineStatusAt(device.LastSeen, now),
		}
		if s.Cache != nil {
			view.LatestReading = s.Cache.GetLatestReading(ctx, device.ID)
		}
		views = append(views, view)
	}
	return views, nil
}
