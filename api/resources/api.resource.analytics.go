// FilePath: api/resources/api.resource.analytics.go
package resources

import (
	"net/http"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/agrimesh/irrihub/api/middleware"
	"github.com/agrimesh/irrihub/internal/errors"
	"github.com/agrimesh/irrihub/internal/hubservice"
	"github.com/agrimesh/irrihub/internal/monitoring"
)

// AnalyticsHandlers encapsulates the analytics HTTP handlers
type AnalyticsHandlers struct {
	hubservice *hubservice.HubService
}

// historyQuery is decoded from the query string. deviceId narrows the scope
// to one owned device; startDate/endDate and timeRange are alternative time
// filters, with the explicit range taking precedence.
type historyQuery struct {
	DeviceID  string `schema:"deviceId"`
	StartDate string `schema:"startDate"`
	EndDate   string `schema:"endDate"`
	TimeRange string `schema:"timeRange"`
	Limit     int    `schema:"limit"`
}

type seriesQuery struct {
	DeviceID string `schema:"deviceId"`
	Hours    int    `schema:"hours"`
	Days     int    `schema:"days"`
}

// @Summary Reading history
// @Description Raw readings newest-first for the caller's devices, with optional device and time filters
// @Tags analytics
// @Produce json
// @Param deviceId query string false "Restrict to one device"
// @Param startDate query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param endDate query string false "Window end (RFC3339 or YYYY-MM-DD)"
// @Param timeRange query string false "Relative window (12h, 24h, 7, 30 or a day count)"
// @Param limit query int false "Maximum rows (default 100)"
// @Success 200 {array} models.HistoryEntry
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /analytics/history [get]
// @Security GatewayAuth
func (h *AnalyticsHandlers) History(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	start := time.Now()
	defer func() {
		monitoring.QueryDuration.WithLabelValues("history").Observe(time.Since(start).Seconds())
	}()

	userID := middleware.UserID(r.Context())
	var q historyQuery
	if err := queryDecoder.Decode(&q, r.URL.Query()); err != nil {
		respondWithError(w, requestID, errors.NewValidationError("invalid query parameters", err))
		return
	}

	entries, err := h.hubservice.History(r.Context(), userID, hubservice.AnalyticsQuery{
		DeviceID:  q.DeviceID,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		TimeRange: q.TimeRange,
		Limit:     q.Limit,
	})
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}

	respondWithList(w, http.StatusOK, entries, len(entries))
}

// @Summary Overview statistics
// @Description Per-field averages, minima and maxima plus weather tallies for a time window
// @Tags analytics
// @Produce json
// @Param deviceId query string false "Restrict to one device"
// @Param startDate query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param endDate query string false "Window end (RFC3339 or YYYY-MM-DD)"
// @Param timeRange query string false "Relative window (12h, 24h, 7, 30 or a day count)"
// @Success 200 {object} analytics.OverviewStats
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /analytics/statistics [get]
// @Security GatewayAuth
func (h *AnalyticsHandlers) Statistics(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	start := time.Now()
	defer func() {
		monitoring.QueryDuration.WithLabelValues("statistics").Observe(time.Since(start).Seconds())
	}()

	userID := middleware.UserID(r.Context())
	var q historyQuery
	if err := queryDecoder.Decode(&q, r.URL.Query()); err != nil {
		respondWithError(w, requestID, errors.NewValidationError("invalid query parameters", err))
		return
	}

	result, err := h.hubservice.Statistics(r.Context(), userID, hubservice.AnalyticsQuery{
		DeviceID:  q.DeviceID,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		TimeRange: q.TimeRange,
	})
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}

	// Keep the empty-fleet and empty-window cases distinguishable for the
	// dashboard without turning either into an error.
	if result.NoDevices {
		respondWithMessage(w, http.StatusOK, "no devices registered")
		return
	}
	if result.Stats == nil {
		respondWithMessage(w, http.StatusOK, "no readings in the requested window")
		return
	}

	respondWithData(w, http.StatusOK, result.Stats)
}

// @Summary Hourly series
// @Description Per-hour averages over the last N hours (default 24)
// @Tags analytics
// @Produce json
// @Param deviceId query string false "Restrict to one device"
// @Param hours query int false "Span in hours (default 24)"
// @Success 200 {array} analytics.SeriesPoint
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /analytics/hourly [get]
// @Security GatewayAuth
func (h *AnalyticsHandlers) Hourly(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	start := time.Now()
	defer func() {
		monitoring.QueryDuration.WithLabelValues("hourly").Observe(time.Since(start).Seconds())
	}()

	userID := middleware.UserID(r.Context())
	var q seriesQuery
	if err := queryDecoder.Decode(&q, r.URL.Query()); err != nil {
		respondWithError(w, requestID, errors.NewValidationError("invalid query parameters", err))
		return
	}

	points, err := h.hubservice.HourlySeries(r.Context(), userID, q.DeviceID, q.Hours)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}

	respondWithList(w, http.StatusOK, points, len(points))
}

// @Summary Daily series
// @Description Per-day averages with temperature extremes over the last N days (default 7)
// @Tags analytics
// @Produce json
// @Param deviceId query string false "Restrict to one device"
// @Param days query int false "Span in days (default 7)"
// @Success 200 {array} analytics.SeriesPoint
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /analytics/daily [get]
// @Security GatewayAuth
func (h *AnalyticsHandlers) Daily(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	start := time.Now()
	defer func() {
		monitoring.QueryDuration.WithLabelValues("daily").Observe(time.Since(start).Seconds())
	}()

	userID := middleware.UserID(r.Context())
	var q seriesQuery
	if err := queryDecoder.Decode(&q, r.URL.Query()); err != nil {
		respondWithError(w, requestID, errors.NewValidationError("invalid query parameters", err))
		return
	}

	points, err := h.hubservice.DailySeries(r.Context(), userID, q.DeviceID, q.Days)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}

	respondWithList(w, http.StatusOK, points, len(points))
}
