// FilePath: internal/normalize/normalize.go

// Package normalize turns raw, untrusted device payloads into typed reading
// drafts. It is pure: no I/O, no clock access beyond the injected "now".
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/agrimesh/irrihub/internal/models"
)

// Draft is a normalized reading before it is bound to a device record.
type Draft struct {
	Temperature  *float64
	Humidity     *float64
	SoilMoisture *float64
	WaterLevel   *float64
	Weather      *string
	Timestamp    time.Time
}

// Field alias chains, tried in priority order. Firmware revisions disagree
// on key spelling, so the first present and coercible value wins.
var (
	temperatureKeys = []string{"temperature", "temp"}
	humidityKeys    = []string{"humidity", "hum"}
	soilKeys        = []string{"soilMoisture", "soil_moisture", "soil"}
	waterKeys       = []string{"waterLevel", "water_level"}
	rainKeys        = []string{"isRain", "is_rain", "rain"}
	conditionKeys   = []string{"weather", "weather_condition", "condition"}
	timestampKeys   = []string{"timestamp", "ts"}
)

// rainConditions maps the richer firmware condition vocabulary onto the
// canonical two-value set. Anything not listed here or in clearConditions
// is treated as unknown.
var rainConditions = map[string]bool{
	"rain": true, "rainy": true, "drizzle": true,
	"shower": true, "storm": true, "thunderstorm": true,
}

var clearConditions = map[string]bool{
	"clear": true, "sunny": true, "cloudy": true, "overcast": true,
}

// Accepted timestamp window: devices with a synced clock report epoch
// milliseconds after 2020; everything else is a boot-relative counter.
var epochWindowStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

const (
	futureSlack      = 24 * time.Hour
	secondsThreshold = 1_000_000_000
)

// Normalize coerces and clamps every known payload field. Missing or
// garbage values become nil, never an error: a reading with holes is still
// worth storing.
func Normalize(raw map[string]interface{}, now time.Time) Draft {
	draft := Draft{
		Temperature:  boundedField(raw, temperatureKeys, models.TemperatureMin, models.TemperatureMax),
		Humidity:     boundedField(raw, humidityKeys, models.PercentMin, models.PercentMax),
		SoilMoisture: boundedField(raw, soilKeys, models.PercentMin, models.PercentMax),
		WaterLevel:   boundedField(raw, waterKeys, models.PercentMin, models.PercentMax),
		Weather:      weatherField(raw),
		Timestamp:    ResolveTimestamp(pickValue(raw, timestampKeys), now),
	}
	return draft
}

// ResolveTimestamp turns whatever a device put in its timestamp field into
// a trustworthy point in time. It never fails; the fallback is always the
// ingestion wall clock.
func ResolveTimestamp(value interface{}, now time.Time) time.Time {
	if value == nil {
		return now
	}
	ts, ok := toFloat(value)
	if !ok {
		return now
	}

	windowEnd := now.Add(futureSlack)

	// Epoch milliseconds from a device with a synced clock.
	if t := fromEpochMillis(ts); !t.Before(epochWindowStart) && !t.After(windowEnd) {
		return t
	}

	// Small values suggest epoch seconds rather than milliseconds.
	if ts < secondsThreshold {
		if t := fromEpochMillis(ts * 1000); !t.Before(epochWindowStart) && !t.After(windowEnd) {
			return t
		}
	}

	// Uptime counter or nonsense. The wall clock is the best truth we have.
	return now
}

func fromEpochMillis(ms float64) time.Time {
	return time.UnixMilli(int64(ms)).UTC()
}

// boundedField resolves an alias chain to a clamped float, or nil when the
// field is absent or not numeric. Absence and garbage are distinct states
// internally but collapse to the same output.
func boundedField(raw map[string]interface{}, keys []string, min, max float64) *float64 {
	value := pickValue(raw, keys)
	if value == nil {
		return nil
	}
	num, ok := toFloat(value)
	if !ok {
		return nil
	}
	// NaN compares false against both bounds and would slip through the
	// clamp; it is garbage, not a measurement.
	if math.IsNaN(num) {
		return nil
	}
	if num < min {
		num = min
	}
	if num > max {
		num = max
	}
	return &num
}

// weatherField resolves the categorical observation. A boolean rain flag
// takes priority over a condition string since it is the primary firmware
// representation.
func weatherField(raw map[string]interface{}) *string {
	if value := pickValue(raw, rainKeys); value != nil {
		if isRain, ok := CoerceBool(value); ok {
			tag := models.WeatherClear
			if isRain {
				tag = models.WeatherRain
			}
			return &tag
		}
	}

	if value := pickValue(raw, conditionKeys); value != nil {
		if s, ok := value.(string); ok {
			cond := strings.ToLower(strings.TrimSpace(s))
			switch {
			case rainConditions[cond]:
				tag := models.WeatherRain
				return &tag
			case clearConditions[cond]:
				tag := models.WeatherClear
				return &tag
			}
		}
	}
	return nil
}

func pickValue(raw map[string]interface{}, keys []string) interface{} {
	for _, key := range keys {
		if value, present := raw[key]; present && value != nil {
			return value
		}
	}
	return nil
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// CoerceBool accepts the representations devices actually send for flags:
// real booleans, "true"/"false", "1"/"0", and bare numbers.
func CoerceBool(value interface{}) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		switch s {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
		return false, false
	default:
		if num, ok := toFloat(value); ok {
			return num != 0, true
		}
		return false, false
	}
}
