// FilePath: internal/analytics/aggregate.go
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/agrimesh/irrihub/internal/models"
)

// FieldStats summarizes one measurement field over a reading set. Avg is
// rounded to one decimal place at this presentation boundary; Min and Max
// are reported as stored.
type FieldStats struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// OverviewStats is the single-aggregate answer for the statistics endpoint.
// A field with no usable values in the set is omitted rather than reported
// as zero.
type OverviewStats struct {
	Temperature  *FieldStats    `json:"temperature,omitempty"`
	Humidity     *FieldStats    `json:"humidity,omitempty"`
	SoilMoisture *FieldStats    `json:"soilMoisture,omitempty"`
	WaterLevel   *FieldStats    `json:"waterLevel,omitempty"`
	Weather      map[string]int `json:"weatherConditions"`
	RainCount    int            `json:"rainCount"`
	TotalRecords int            `json:"totalRecords"`
}

// SeriesPoint is one time bucket of a chart series. Hourly buckets carry
// their display key ("02/01 15:00") as "time", daily buckets ("02/01/2006")
// as "date"; Timestamp is the earliest reading in the bucket.
type SeriesPoint struct {
	Label        string    `json:"time,omitempty"`
	DateLabel    string    `json:"date,omitempty"`
	Temperature  *float64  `json:"temperature,omitempty"`
	Humidity     *float64  `json:"humidity,omitempty"`
	SoilMoisture *float64  `json:"soilMoisture,omitempty"`
	WaterLevel   *float64  `json:"waterLevel,omitempty"`
	MinTemp      *float64  `json:"minTemp,omitempty"`
	MaxTemp      *float64  `json:"maxTemp,omitempty"`
	Count        int       `json:"count"`
	Timestamp    time.Time `json:"timestamp"`
}

// accumulator tracks a running sum with per-field null exclusion: a nil
// value contributes to neither the sum nor the divisor.
type accumulator struct {
	sum   float64
	count int
	min   float64
	max   float64
}

func (a *accumulator) add(value *float64) {
	if value == nil {
		return
	}
	v := *value
	if a.count == 0 || v < a.min {
		a.min = v
	}
	if a.count == 0 || v > a.max {
		a.max = v
	}
	a.sum += v
	a.count++
}

func (a *accumulator) stats() *FieldStats {
	if a.count == 0 {
		return nil
	}
	return &FieldStats{
		Avg: round1(a.sum / float64(a.count)),
		Min: a.min,
		Max: a.max,
	}
}

func (a *accumulator) avg() *float64 {
	if a.count == 0 {
		return nil
	}
	v := round1(a.sum / float64(a.count))
	return &v
}

// Overview computes the single aggregate over a filtered reading set.
// Returns nil for an empty set so callers can answer "no data" instead of
// fabricating statistics.
func Overview(readings []models.Reading) *OverviewStats {
	if len(readings) == 0 {
		return nil
	}

	var temperature, humidity, soil, water accumulator
	weather := make(map[string]int)

	for _, r := range readings {
		temperature.add(r.Temperature)
		humidity.add(r.Humidity)
		soil.add(r.SoilMoisture)
		water.add(r.WaterLevel)
		if r.Weather != nil {
			weather[*r.Weather]++
		}
	}

	return &OverviewStats{
		Temperature:  temperature.stats(),
		Humidity:     humidity.stats(),
		SoilMoisture: soil.stats(),
		WaterLevel:   water.stats(),
		Weather:      weather,
		RainCount:    weather[models.WeatherRain],
		TotalRecords: len(readings),
	}
}

// Interval selects the bucket width of a series.
type Interval int

const (
	ByHour Interval = iota
	ByDay
)

// Series groups readings into hour or day buckets in the reference
// location and aggregates each bucket. Buckets come back chronologically
// ascending; buckets with no readings are simply absent.
func Series(readings []models.Reading, interval Interval, loc *time.Location) []SeriesPoint {
	type bucketAcc struct {
		temperature  accumulator
		humidity     accumulator
		soil         accumulator
		water        accumulator
		count        int
		firstReading time.Time
	}

	buckets := make(map[time.Time]*bucketAcc)
	for _, r := range readings {
		key := truncate(r.Timestamp.In(loc), interval)
		acc, ok := buckets[key]
		if !ok {
			acc = &bucketAcc{firstReading: r.Timestamp}
			buckets[key] = acc
		}
		acc.temperature.add(r.Temperature)
		acc.humidity.add(r.Humidity)
		acc.soil.add(r.SoilMoisture)
		acc.water.add(r.WaterLevel)
		acc.count++
		if r.Timestamp.Before(acc.firstReading) {
			acc.firstReading = r.Timestamp
		}
	}

	keys := make([]time.Time, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	points := make([]SeriesPoint, 0, len(keys))
	for _, key := range keys {
		acc := buckets[key]
		point := SeriesPoint{
			Temperature:  acc.temperature.avg(),
			Humidity:     acc.humidity.avg(),
			SoilMoisture: acc.soil.avg(),
			WaterLevel:   acc.water.avg(),
			Count:        acc.count,
			Timestamp:    acc.firstReading,
		}
		if interval == ByDay {
			point.DateLabel = bucketLabel(key, interval)
			if stats := acc.temperature.stats(); stats != nil {
				minTemp, maxTemp := stats.Min, stats.Max
				point.MinTemp = &minTemp
				point.MaxTemp = &maxTemp
			}
		} else {
			point.Label = bucketLabel(key, interval)
		}
		points = append(points, point)
	}
	return points
}

func truncate(t time.Time, interval Interval) time.Time {
	switch interval {
	case ByHour:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
}

func bucketLabel(t time.Time, interval Interval) string {
	if interval == ByHour {
		return fmt.Sprintf("%02d/%02d %02d:00", t.Day(), int(t.Month()), t.Hour())
	}
	return fmt.Sprintf("%02d/%02d/%d", t.Day(), int(t.Month()), t.Year())
}

// round1 rounds to one decimal place. Applied only to final outputs, never
// to intermediate sums.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
