// FilePath: internal/retention/retention_test.go
package retention

import (
	"context"
	"testing"
	"time"

	"github.com/agrimesh/irrihub/internal/config"
	"github.com/agrimesh/irrihub/internal/database"
	"github.com/agrimesh/irrihub/internal/models"
	"github.com/agrimesh/irrihub/internal/repository"
)

type fakeReadings struct {
	deleted int64
	cutoffs chan time.Time
}

func (f *fakeReadings) BeginTx(ctx context.Context) (database.Transaction, error) { return nil, nil }

func (f *fakeReadings) Insert(ctx context.Context, reading *models.Reading) error { return nil }

func (f *fakeReadings) List(ctx context.Context, filter repository.ReadingFilter) ([]models.Reading, error) {
	return nil, nil
}

func (f *fakeReadings) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoffs <- cutoff
	return f.deleted, nil
}

func TestMaybePurgeDeletesAtHorizon(t *testing.T) {
	readings := &fakeReadings{deleted: 5, cutoffs: make(chan time.Time, 1)}
	svc := New(readings, config.RetentionConfig{Horizon: 720 * time.Hour, MinInterval: time.Hour})

	purged := make(chan int64, 1)
	svc.OnPurge(func(deleted int64) { purged <- deleted })

	before := time.Now().Add(-720 * time.Hour)
	svc.MaybePurge()

	select {
	case cutoff := <-readings.cutoffs:
		// The cutoff tracks now-horizon; allow scheduling slack.
		if cutoff.Before(before.Add(-time.Minute)) || cutoff.After(time.Now()) {
			t.Errorf("cutoff %v not near the retention horizon", cutoff)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("purge never reached the store")
	}

	select {
	case deleted := <-purged:
		if deleted != 5 {
			t.Errorf("expected purge event with 5 deleted, got %d", deleted)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("purge event never fired")
	}
}

func TestMaybePurgeIntervalGate(t *testing.T) {
	readings := &fakeReadings{cutoffs: make(chan time.Time, 2)}
	svc := New(readings, config.RetentionConfig{Horizon: time.Hour, MinInterval: time.Hour})

	svc.MaybePurge()
	select {
	case <-readings.cutoffs:
	case <-time.After(2 * time.Second):
		t.Fatal("first purge never ran")
	}

	// A second request inside MinInterval is dropped, not queued.
	svc.MaybePurge()
	select {
	case <-readings.cutoffs:
		t.Error("expected second purge to be gated")
	case <-time.After(100 * time.Millisecond):
	}
}
