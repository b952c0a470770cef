// FilePath: internal/models/models.reading.go
package models

import "time"

// Canonical weather tags. Richer condition vocabularies from device firmware
// are collapsed into this two-value set at normalization time.
const (
	WeatherRain  = "rain"
	WeatherClear = "clear"
)

// Measurement bounds enforced at normalization and mirrored by the
// persistence layer's schema checks.
const (
	TemperatureMin = -50.0
	TemperatureMax = 100.0
	PercentMin     = 0.0
	PercentMax     = 100.0
)

// Reading is one immutable measurement record from one device. Measurement
// fields are pointers: a nil field means the device did not report a usable
// value, which is distinct from reporting zero.
type Reading struct {
	ID           string    `json:"id" db:"id"`
	DeviceID     string    `json:"device_id" db:"device_id"`
	Temperature  *float64  `json:"temperature" db:"temperature"`
	Humidity     *float64  `json:"humidity" db:"humidity"`
	SoilMoisture *float64  `json:"soil_moisture" db:"soil_moisture"`
	WaterLevel   *float64  `json:"water_level,omitempty" db:"water_level"`
	Weather      *string   `json:"weather_condition,omitempty" db:"weather_condition"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// HistoryEntry is a Reading enriched with the owning device's display name
// for the dashboard history view.
type HistoryEntry struct {
	Reading
	DeviceName string `json:"device_name" db:"device_name"`
}
