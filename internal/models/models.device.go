// FilePath: internal/models/models.device.go
package models

import "time"

// DeviceMode enumerates how a device decides when to run its pump.
type DeviceMode string

const (
	ModeManual    DeviceMode = "manual"
	ModeAutomatic DeviceMode = "automatic"
	ModeScheduled DeviceMode = "scheduled"
)

// OnlineThreshold is the maximum silence before a device counts as offline.
const OnlineThreshold = 60 * time.Second

// Device is a registered field node. Devices are created and owned through
// the device-management service; the hub only mutates LastSeen and PumpOn
// from heartbeat traffic.
type Device struct {
	ID         string     `json:"id" db:"id"`
	ExternalID string     `json:"external_id" db:"external_id"`
	UserID     string     `json:"user_id" db:"user_id"`
	Name       string     `json:"name" db:"name"`
	Mode       DeviceMode `json:"mode" db:"mode"`
	PumpOn     bool       `json:"pump_on" db:"pump_on"`
	LastSeen   time.Time  `json:"last_seen" db:"last_seen"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// OnlineStatus derives connectivity from LastSeen. Status is never stored;
// the timestamp is the single source of truth.
func (d *Device) OnlineStatus() string {
	return OnlineStatusAt(d.LastSeen, time.Now())
}

// OnlineStatusAt is the clock-injected form used by tests and list endpoints.
func OnlineStatusAt(lastSeen, now time.Time) string {
	if now.Sub(lastSeen) < OnlineThreshold {
		return "online"
	}
	return "offline"
}
