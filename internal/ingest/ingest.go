// FilePath: internal/ingest/ingest.go

// Package ingest turns inbound device messages into persisted readings and
// device liveness updates. Everything here is fire-and-forget: a malformed
// or malicious payload is logged and dropped, never surfaced back to the
// transport or allowed to take down processing for other devices.
package ingest

import (
	"context"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/agrimesh/irrihub/internal/models"
	"github.com/agrimesh/irrihub/internal/monitoring"
	"github.com/agrimesh/irrihub/internal/normalize"
	"github.com/agrimesh/irrihub/internal/repository"
)

// relayKeys is the alias chain for the pump relay flag in heartbeat
// payloads, in priority order.
var relayKeys = []string{"relay1Status", "relay1_status", "relayStatus", "pumpStatus"}

// LatestCache receives the most recent reading per device. Implemented by
// the Redis cache; failures are the cache's problem, not ingestion's.
type LatestCache interface {
	SetLatestReading(ctx context.Context, deviceID string, reading *models.Reading)
}

// Service is the ingestion pipeline.
type Service struct {
	devices  repository.DeviceRepository
	readings repository.ReadingRepository
	cache    LatestCache
	now      func() time.Time
}

func New(devices repository.DeviceRepository, readings repository.ReadingRepository, cache LatestCache) *Service {
	return &Service{
		devices:  devices,
		readings: readings,
		cache:    cache,
		now:      time.Now,
	}
}

// HandleSensorData persists one telemetry message. Readings from external
// ids with no registered device are dropped without retry.
func (s *Service) HandleSensorData(ctx context.Context, externalID string, raw map[string]interface{}) {
	defer s.recover(externalID, "sensor data")

	device, err := s.devices.GetByExternalID(ctx, externalID)
	if err != nil {
		nuts.L.Warnf("[Ingest] Dropping sensor data from unregistered device %s: %v", externalID, err)
		monitoring.ReadingsIngested.WithLabelValues("dropped_unknown_device").Inc()
		return
	}

	now := s.now()
	draft := normalize.Normalize(raw, now)

	reading := &models.Reading{
		ID:           nuts.NID("rd", 12),
		DeviceID:     device.ID,
		Temperature:  draft.Temperature,
		Humidity:     draft.Humidity,
		SoilMoisture: draft.SoilMoisture,
		WaterLevel:   draft.WaterLevel,
		Weather:      draft.Weather,
		Timestamp:    draft.Timestamp,
		CreatedAt:    now,
	}

	if err := s.readings.Insert(ctx, reading); err != nil {
		nuts.L.Errorf("[Ingest] Failed to store reading from device %s: %v", externalID, err)
		monitoring.ReadingsIngested.WithLabelValues("store_failed").Inc()
		return
	}
	monitoring.ReadingsIngested.WithLabelValues("stored").Inc()

	// Liveness and cache updates are best effort; the reading is already safe.
	if err := s.devices.UpdateLastSeen(ctx, device.ID, now); err != nil {
		nuts.L.Warnf("[Ingest] Failed to update last seen for device %s: %v", externalID, err)
	}
	if s.cache != nil {
		s.cache.SetLatestReading(ctx, device.ID, reading)
	}
}

// HandleHeartbeat updates device liveness and, when present, the pump
// relay flag. Heartbeats never create readings.
func (s *Service) HandleHeartbeat(ctx context.Context, externalID string, raw map[string]interface{}) {
	defer s.recover(externalID, "heartbeat")

	device, err := s.devices.GetByExternalID(ctx, externalID)
	if err != nil {
		nuts.L.Debugf("[Ingest] Heartbeat from unregistered device %s ignored", externalID)
		return
	}

	if err := s.devices.UpdateLastSeen(ctx, device.ID, s.now()); err != nil {
		nuts.L.Warnf("[Ingest] Failed to update last seen for device %s: %v", externalID, err)
	}
	monitoring.Heartbeats.Inc()

	relay, present := relayState(raw)
	if !present {
		// No relay field under any known key: leave the stored state alone.
		return
	}
	if err := s.devices.UpdatePumpState(ctx, device.ID, relay); err != nil {
		nuts.L.Warnf("[Ingest] Failed to update pump state for device %s: %v", externalID, err)
	}
}

// HandleStatus handles explicit online/offline announcements. Receipt of
// any status message proves the device can reach the broker, so liveness
// is updated unconditionally.
func (s *Service) HandleStatus(ctx context.Context, externalID string, raw map[string]interface{}) {
	defer s.recover(externalID, "status")

	device, err := s.devices.GetByExternalID(ctx, externalID)
	if err != nil {
		nuts.L.Debugf("[Ingest] Status from unregistered device %s ignored", externalID)
		return
	}

	if err := s.devices.UpdateLastSeen(ctx, device.ID, s.now()); err != nil {
		nuts.L.Warnf("[Ingest] Failed to update last seen for device %s: %v", externalID, err)
	}
}

// relayState resolves the pump relay flag from its alias chain, coercing
// the string and numeric spellings firmware is known to send.
func relayState(raw map[string]interface{}) (bool, bool) {
	for _, key := range relayKeys {
		value, present := raw[key]
		if !present || value == nil {
			continue
		}
		if b, ok := normalize.CoerceBool(value); ok {
			return b, true
		}
	}
	return false, false
}

func (s *Service) recover(externalID, path string) {
	if r := recover(); r != nil {
		nuts.L.Errorf("[Ingest] Panic handling %s from device %s: %v", path, externalID, r)
	}
}
