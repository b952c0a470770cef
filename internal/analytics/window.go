// FilePath: internal/analytics/window.go
package analytics

import (
	"strconv"
	"strings"
	"time"
)

// WindowRequest carries the raw time-filter inputs from a query. Callers
// may send an explicit date range, a relative token, or nothing.
type WindowRequest struct {
	StartDate string
	EndDate   string
	TimeRange string
}

// Window is the single effective [Start, End] pair applied to a scan.
// Nil bounds mean unbounded on that side.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// Recognized relative-window tokens. Bare numbers fall back to "days ago".
var relativeWindows = map[string]time.Duration{
	"12h": 12 * time.Hour,
	"24h": 24 * time.Hour,
	"7":   7 * 24 * time.Hour,
	"30":  30 * 24 * time.Hour,
}

// ResolveWindow collapses the request into exactly one effective window.
// An explicit range always wins over a relative token; an explicit range
// with an open end is closed at "now". A request with neither stays
// unbounded.
func ResolveWindow(req WindowRequest, now time.Time) Window {
	if req.StartDate != "" || req.EndDate != "" {
		window := Window{}
		if t, ok := parseDate(req.StartDate); ok {
			window.Start = &t
		}
		if t, ok := parseDate(req.EndDate); ok {
			window.End = &t
		} else {
			window.End = &now
		}
		return window
	}

	if token := strings.TrimSpace(req.TimeRange); token != "" {
		if d, ok := relativeWindows[token]; ok {
			start := now.Add(-d)
			return Window{Start: &start, End: &now}
		}
		if days, err := strconv.Atoi(token); err == nil && days > 0 {
			start := now.AddDate(0, 0, -days)
			return Window{Start: &start, End: &now}
		}
	}

	return Window{}
}

// RelativeWindow builds a closed window reaching back the given duration.
// Used by the hourly/daily chart endpoints.
func RelativeWindow(span time.Duration, now time.Time) Window {
	start := now.Add(-span)
	return Window{Start: &start, End: &now}
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
