// FilePath: internal/cache/cache.go

// Package cache keeps the most recent reading per device in Redis so the
// device list endpoint can answer without scanning the reading store. The
// cache is an optimization only: every failure is logged and swallowed.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"

	"github.com/agrimesh/irrihub/internal/config"
	"github.com/agrimesh/irrihub/internal/models"
)

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(cfg config.RedisConfig) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Cache{rdb: rdb, ttl: cfg.TTL}
}

func latestKey(deviceID string) string {
	return "irrihub:latest:" + deviceID
}

// SetLatestReading stores the newest reading for a device.
func (c *Cache) SetLatestReading(ctx context.Context, deviceID string, reading *models.Reading) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(reading)
	if err != nil {
		nuts.L.Warnf("[Cache] Failed to marshal reading for device %s: %v", deviceID, err)
		return
	}
	if err := c.rdb.Set(ctx, latestKey(deviceID), payload, c.ttl).Err(); err != nil {
		nuts.L.Warnf("[Cache] Failed to cache latest reading for device %s: %v", deviceID, err)
	}
}

// GetLatestReading returns the cached newest reading for a device, or nil
// on miss or any cache failure.
func (c *Cache) GetLatestReading(ctx context.Context, deviceID string) *models.Reading {
	if c == nil {
		return nil
	}
	payload, err := c.rdb.Get(ctx, latestKey(deviceID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			nuts.L.Warnf("[Cache] Failed to read latest reading for device %s: %v", deviceID, err)
		}
		return nil
	}
	reading := &models.Reading{}
	if err := json.Unmarshal(payload, reading); err != nil {
		nuts.L.Warnf("[Cache] Corrupt cached reading for device %s: %v", deviceID, err)
		return nil
	}
	return reading
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
