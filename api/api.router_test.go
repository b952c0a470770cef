// FilePath: api/api.router_test.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agrimesh/irrihub/internal/database"
	"github.com/agrimesh/irrihub/internal/errors"
	"github.com/agrimesh/irrihub/internal/hubservice"
	"github.com/agrimesh/irrihub/internal/models"
	"github.com/agrimesh/irrihub/internal/repository"
)

type fakeDevices struct {
	byUser map[string][]*models.Device
}

func (f *fakeDevices) BeginTx(ctx context.Context) (database.Transaction, error) { return nil, nil }

func (f *fakeDevices) Create(ctx context.Context, device *models.Device) error { return nil }

func (f *fakeDevices) Get(ctx context.Context, id string) (*models.Device, error) {
	return nil, errors.NewNotFoundError("device not found", nil)
}

func (f *fakeDevices) GetByExternalID(ctx context.Context, externalID string) (*models.Device, error) {
	return nil, errors.NewNotFoundError("device not found", nil)
}

func (f *fakeDevices) ListByUser(ctx context.Context, userID string) ([]*models.Device, error) {
	return f.byUser[userID], nil
}

func (f *fakeDevices) UpdateLastSeen(ctx context.Context, id string, lastSeen time.Time) error {
	return nil
}

func (f *fakeDevices) UpdatePumpState(ctx context.Context, id string, pumpOn bool) error {
	return nil
}

type fakeReadings struct {
	readings []models.Reading
}

func (f *fakeReadings) BeginTx(ctx context.Context) (database.Transaction, error) { return nil, nil }

func (f *fakeReadings) Insert(ctx context.Context, reading *models.Reading) error { return nil }

func (f *fakeReadings) List(ctx context.Context, filter repository.ReadingFilter) ([]models.Reading, error) {
	allowed := make(map[string]bool, len(filter.DeviceIDs))
	for _, id := range filter.DeviceIDs {
		allowed[id] = true
	}
	var out []models.Reading
	for _, r := range f.readings {
		if allowed[r.DeviceID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReadings) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func testRouter(t *testing.T, readings []models.Reading) *Router {
	t.Helper()

	devices := &fakeDevices{byUser: map[string][]*models.Device{
		"alice": {
			{ID: "dev_aaaaaaaaaaaa", ExternalID: "esp-001", UserID: "alice", Name: "Greenhouse", LastSeen: time.Now()},
		},
	}}
	svc := hubservice.New(devices, &fakeReadings{readings: readings}, nil, nil, time.UTC, 100)

	router := NewRouter(svc)
	router.SetHealthCheck(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return router
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Message string          `json:"message"`
}

func get(t *testing.T, router *Router, path, userID string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func sampleReadings() []models.Reading {
	temp := 21.0
	weather := models.WeatherRain
	return []models.Reading{
		{
			ID:          "rd_aaaaaaaaaaaa",
			DeviceID:    "dev_aaaaaaaaaaaa",
			Temperature: &temp,
			Weather:     &weather,
			Timestamp:   time.Now().Add(-time.Hour),
		},
	}
}

func TestHealthIsPublic(t *testing.T) {
	router := testRouter(t, nil)
	rec, _ := get(t, router, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected health without auth header, got %d", rec.Code)
	}
}

func TestMissingIdentityRejected(t *testing.T) {
	router := testRouter(t, nil)
	for _, path := range []string{
		"/api/v1/devices",
		"/api/v1/analytics/history",
		"/api/v1/analytics/statistics",
		"/api/v1/analytics/hourly",
		"/api/v1/analytics/daily",
	} {
		rec, _ := get(t, router, path, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401 without identity header, got %d", path, rec.Code)
		}
	}
}

func TestListDevicesEnvelope(t *testing.T) {
	router := testRouter(t, nil)
	rec, env := get(t, router, "/api/v1/devices", "alice")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !env.Success {
		t.Error("expected success envelope")
	}
	if env.Count == nil || *env.Count != 1 {
		t.Errorf("expected count 1, got %v", env.Count)
	}
}

func TestHistoryEnvelope(t *testing.T) {
	router := testRouter(t, sampleReadings())
	rec, env := get(t, router, "/api/v1/analytics/history?timeRange=24h", "alice")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.Count == nil || *env.Count != 1 {
		t.Errorf("expected count 1, got %v", env.Count)
	}

	var entries []models.HistoryEntry
	if err := json.Unmarshal(env.Data, &entries); err != nil {
		t.Fatalf("invalid history data: %v", err)
	}
	if entries[0].DeviceName != "Greenhouse" {
		t.Errorf("expected device name enrichment, got %q", entries[0].DeviceName)
	}
}

func TestStatisticsWithData(t *testing.T) {
	router := testRouter(t, sampleReadings())
	rec, env := get(t, router, "/api/v1/analytics/statistics", "alice")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !env.Success || env.Data == nil {
		t.Fatalf("expected stats payload, got %s", rec.Body.String())
	}

	var stats struct {
		RainCount    int `json:"rainCount"`
		TotalRecords int `json:"totalRecords"`
	}
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("invalid stats data: %v", err)
	}
	if stats.TotalRecords != 1 || stats.RainCount != 1 {
		t.Errorf("expected 1 record and 1 rain observation, got %+v", stats)
	}
}

func TestStatisticsNoDevices(t *testing.T) {
	router := testRouter(t, nil)
	rec, env := get(t, router, "/api/v1/analytics/statistics", "mallory")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty fleet, got %d", rec.Code)
	}
	if !env.Success || env.Message == "" {
		t.Errorf("expected explanatory message for empty fleet, got %s", rec.Body.String())
	}
}

func TestStatisticsEmptyWindow(t *testing.T) {
	router := testRouter(t, nil)
	rec, env := get(t, router, "/api/v1/analytics/statistics", "alice")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty window, got %d", rec.Code)
	}
	if !env.Success || env.Message == "" {
		t.Errorf("expected explanatory message for empty window, got %s", rec.Body.String())
	}
}

func TestMalformedDeviceIDRejected(t *testing.T) {
	router := testRouter(t, nil)
	rec, env := get(t, router, "/api/v1/analytics/history?deviceId=not-an-id", "alice")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed device id, got %d", rec.Code)
	}
	if env.Success {
		t.Error("expected failure envelope")
	}
}

func TestForeignDeviceNotFound(t *testing.T) {
	router := testRouter(t, nil)
	rec, env := get(t, router, "/api/v1/analytics/history?deviceId=dev_zzzzzzzzzzzz", "alice")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for device outside scope, got %d", rec.Code)
	}
	if env.Success {
		t.Error("expected failure envelope")
	}
}

func TestHourlySeriesEndpoint(t *testing.T) {
	router := testRouter(t, sampleReadings())
	rec, env := get(t, router, "/api/v1/analytics/hourly", "alice")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.Count == nil || *env.Count != 1 {
		t.Errorf("expected one hourly bucket, got %v", env.Count)
	}
}
