// FilePath: internal/retention/retention.go

// Package retention removes readings older than the configured horizon.
// Purges are triggered lazily from statistics queries and by a background
// ticker, but an interval gate keeps them from running more than once per
// MinInterval no matter how often they are requested. A purge failure is
// logged and never reaches the query path.
package retention

import (
	"context"
	"sync"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/agrimesh/irrihub/internal/config"
	"github.com/agrimesh/irrihub/internal/monitoring"
	"github.com/agrimesh/irrihub/internal/repository"
)

// Service coordinates reading purges.
type Service struct {
	readings    repository.ReadingRepository
	horizon     time.Duration
	minInterval time.Duration
	events      *nuts.EventEmitter

	mu      sync.Mutex
	lastRun time.Time
	running bool
}

// New creates a retention service.
func New(readings repository.ReadingRepository, cfg config.RetentionConfig) *Service {
	return &Service{
		readings:    readings,
		horizon:     cfg.Horizon,
		minInterval: cfg.MinInterval,
		events:      nuts.NewEventEmitter(),
	}
}

// MaybePurge requests a purge. It returns immediately; the purge itself
// runs on a detached goroutine and is skipped entirely when one ran within
// MinInterval or is still in flight.
func (s *Service) MaybePurge() {
	s.mu.Lock()
	if s.running || time.Since(s.lastRun) < s.minInterval {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.lastRun = time.Now()
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
		}()
		s.purge()
	}()
}

// Run drives periodic purges until the context is cancelled. Intended for
// a dedicated goroutine started by the server.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.minInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.MaybePurge()
		}
	}
}

func (s *Service) purge() {
	cutoff := time.Now().Add(-s.horizon)

	// Own timeout: the purge must never inherit, or hold up, a request
	// context.
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := s.readings.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		nuts.L.Warnf("[Retention] Purge failed: %v", err)
		monitoring.PurgeRuns.WithLabelValues("failed").Inc()
		return
	}

	monitoring.PurgeRuns.WithLabelValues("ok").Inc()
	monitoring.PurgedReadings.Add(float64(deleted))
	s.events.Emit("readings.purged", deleted)
}

// OnPurge registers a callback invoked with the number of deleted readings
// after each successful purge.
func (s *Service) OnPurge(handler func(deleted int64)) {
	s.events.On("readings.purged", "retention_handler", func(deleted int64) {
		handler(deleted)
	})
}
