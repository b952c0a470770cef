// FilePath: internal/analytics/scope_test.go
package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/agrimesh/irrihub/internal/database"
	"github.com/agrimesh/irrihub/internal/errors"
	"github.com/agrimesh/irrihub/internal/models"
)

// fakeDeviceRepo serves a fixed ownership table.
type fakeDeviceRepo struct {
	byUser map[string][]*models.Device
}

func (f *fakeDeviceRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return nil, nil
}

func (f *fakeDeviceRepo) Create(ctx context.Context, device *models.Device) error { return nil }

func (f *fakeDeviceRepo) Get(ctx context.Context, id string) (*models.Device, error) {
	return nil, errors.NewNotFoundError("device not found", nil)
}

func (f *fakeDeviceRepo) GetByExternalID(ctx context.Context, externalID string) (*models.Device, error) {
	return nil, errors.NewNotFoundError("device not found", nil)
}

func (f *fakeDeviceRepo) ListByUser(ctx context.Context, userID string) ([]*models.Device, error) {
	return f.byUser[userID], nil
}

func (f *fakeDeviceRepo) UpdateLastSeen(ctx context.Context, id string, lastSeen time.Time) error {
	return nil
}

func (f *fakeDeviceRepo) UpdatePumpState(ctx context.Context, id string, pumpOn bool) error {
	return nil
}

func scopeFixture() *fakeDeviceRepo {
	return &fakeDeviceRepo{byUser: map[string][]*models.Device{
		"alice": {
			{ID: "dev_aaaaaaaaaaaa", ExternalID: "esp-001", UserID: "alice", Name: "Greenhouse"},
			{ID: "dev_bbbbbbbbbbbb", ExternalID: "esp-002", UserID: "alice"},
		},
		"bob": {
			{ID: "dev_cccccccccccc", ExternalID: "esp-003", UserID: "bob", Name: "Orchard"},
		},
	}}
}

func TestResolveScopeAllOwned(t *testing.T) {
	scope, err := ResolveScope(context.Background(), scopeFixture(), "alice", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scope.NoDevices {
		t.Fatal("expected devices in scope")
	}
	if len(scope.DeviceIDs) != 2 {
		t.Errorf("expected 2 device ids, got %d", len(scope.DeviceIDs))
	}
}

func TestResolveScopeNoDevices(t *testing.T) {
	scope, err := ResolveScope(context.Background(), scopeFixture(), "mallory", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !scope.NoDevices {
		t.Error("expected NoDevices for a user with no registered devices")
	}
}

func TestResolveScopeSingleDevice(t *testing.T) {
	scope, err := ResolveScope(context.Background(), scopeFixture(), "alice", "dev_bbbbbbbbbbbb")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scope.DeviceIDs) != 1 || scope.DeviceIDs[0] != "dev_bbbbbbbbbbbb" {
		t.Errorf("expected scope narrowed to requested device, got %v", scope.DeviceIDs)
	}
}

func TestResolveScopeMalformedID(t *testing.T) {
	_, err := ResolveScope(context.Background(), scopeFixture(), "alice", "DROP TABLE readings")
	if !errors.IsValidation(err) {
		t.Errorf("expected validation error for malformed id, got %v", err)
	}
}

func TestResolveScopeNotOwned(t *testing.T) {
	// Bob's device exists but is outside alice's scope. The answer must be
	// indistinguishable from a device that does not exist at all.
	_, err := ResolveScope(context.Background(), scopeFixture(), "alice", "dev_cccccccccccc")
	if !errors.IsNotFound(err) {
		t.Errorf("expected not-found for foreign device, got %v", err)
	}

	_, err = ResolveScope(context.Background(), scopeFixture(), "alice", "dev_zzzzzzzzzzzz")
	if !errors.IsNotFound(err) {
		t.Errorf("expected not-found for nonexistent device, got %v", err)
	}
}

func TestValidDeviceID(t *testing.T) {
	cases := map[string]bool{
		"dev_aaaaaaaaaaaa":    true,
		"dev_AB12-_cd34EF":    true,
		"dev_short":           false,
		"sensor_aaaaaaaaaaaa": false,
		"dev_aaaaaaaaaaaaa":   false,
		"":                    false,
	}
	for id, want := range cases {
		if got := ValidDeviceID(id); got != want {
			t.Errorf("ValidDeviceID(%q) = %v, want %v", id, got, want)
		}
	}
}

func TestDeviceNamesFallback(t *testing.T) {
	scope, err := ResolveScope(context.Background(), scopeFixture(), "alice", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := scope.DeviceNames()
	if names["dev_aaaaaaaaaaaa"] != "Greenhouse" {
		t.Errorf("expected display name, got %q", names["dev_aaaaaaaaaaaa"])
	}
	// Unnamed devices fall back to the external hardware id.
	if names["dev_bbbbbbbbbbbb"] != "esp-002" {
		t.Errorf("expected external id fallback, got %q", names["dev_bbbbbbbbbbbb"])
	}
}
