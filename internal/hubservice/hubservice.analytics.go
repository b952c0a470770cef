// FilePath: internal/hubservice/hubservice.analytics.go
package hubservice

import (
	"context"
	"time"

	"github.com/agrimesh/irrihub/internal/analytics"
	"github.com/agrimesh/irrihub/internal/models"
	"github.com/agrimesh/irrihub/internal/repository"
)

// AnalyticsQuery carries the common inputs of every dashboard query:
// an optional device restriction plus at most one time filter.
type AnalyticsQuery struct {
	DeviceID  string
	StartDate string
	EndDate   string
	TimeRange string
	Limit     int
}

// StatisticsResult distinguishes the three terminal states of a statistics
// query: the caller owns no devices, owns devices but the window is empty,
// or there is data to summarize.
type StatisticsResult struct {
	NoDevices bool
	Stats     *analytics.OverviewStats
}

// History returns raw readings newest-first for the caller's scope,
// enriched with device display names.
func (s *HubService) History(ctx context.Context, userID string, q AnalyticsQuery) ([]models.HistoryEntry, error) {
	scope, err := analytics.ResolveScope(ctx, s.Devices, userID, q.DeviceID)
	if err != nil {
		return nil, err
	}
	entries := []models.HistoryEntry{}
	if scope.NoDevices {
		return entries, nil
	}

	window := analytics.ResolveWindow(analytics.WindowRequest{
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		TimeRange: q.TimeRange,
	}, time.Now())

	limit := q.Limit
	if limit <= 0 {
		limit = s.historyLimit
	}

	readings, err := s.Readings.List(ctx, repository.ReadingFilter{
		DeviceIDs: scope.DeviceIDs,
		Start:     window.Start,
		End:       window.End,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	names := scope.DeviceNames()
	for _, reading := range readings {
		entries = append(entries, models.HistoryEntry{
			Reading:    reading,
			DeviceName: names[reading.DeviceID],
		})
	}
	return entries, nil
}

// Statistics computes the overview aggregate for the caller's scope. The
// retention purge piggybacks here as a fully detached side task.
func (s *HubService) Statistics(ctx context.Context, userID string, q AnalyticsQuery) (*StatisticsResult, error) {
	scope, err := analytics.ResolveScope(ctx, s.Devices, userID, q.DeviceID)
	if err != nil {
		return nil, err
	}
	if scope.NoDevices {
		return &StatisticsResult{NoDevices: true}, nil
	}

	if s.Retention != nil {
		s.Retention.MaybePurge()
	}

	window := analytics.ResolveWindow(analytics.WindowRequest{
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		TimeRange: q.TimeRange,
	}, time.Now())

	readings, err := s.Readings.List(ctx, repository.ReadingFilter{
		DeviceIDs: scope.DeviceIDs,
		Start:     window.Start,
		End:       window.End,
	})
	if err != nil {
		return nil, err
	}

	return &StatisticsResult{Stats: analytics.Overview(readings)}, nil
}

// HourlySeries returns hour buckets over the last N hours (default 24).
func (s *HubService) HourlySeries(ctx context.Context, userID, deviceID string, hours int) ([]analytics.SeriesPoint, error) {
	if hours <= 0 {
		hours = 24
	}
	return s.series(ctx, userID, deviceID, time.Duration(hours)*time.Hour, analytics.ByHour)
}

// DailySeries returns day buckets over the last N days (default 7).
func (s *HubService) DailySeries(ctx context.Context, userID, deviceID string, days int) ([]analytics.SeriesPoint, error) {
	if days <= 0 {
		days = 7
	}
	return s.series(ctx, userID, deviceID, time.Duration(days)*24*time.Hour, analytics.ByDay)
}

func (s *HubService) series(ctx context.Context, userID, deviceID string, span time.Duration, interval analytics.Interval) ([]analytics.SeriesPoint, error) {
	scope, err := analytics.ResolveScope(ctx, s.Devices, userID, deviceID)
	if err != nil {
		return nil, err
	}
	if scope.NoDevices {
		return []analytics.SeriesPoint{}, nil
	}

	window := analytics.RelativeWindow(span, time.Now())
	readings, err := s.Readings.List(ctx, repository.ReadingFilter{
		DeviceIDs: scope.DeviceIDs,
		Start:     window.Start,
		End:       window.End,
	})
	if err != nil {
		return nil, err
	}

	return analytics.Series(readings, interval, s.location), nil
}
