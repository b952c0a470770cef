// FilePath: internal/monitoring/monitoring.go

// Package monitoring exposes the hub's Prometheus metrics.
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ReadingsIngested counts sensor-data messages by outcome:
	// stored, dropped_unknown_device, store_failed.
	ReadingsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "irrihub_readings_ingested_total",
		Help: "Sensor data messages processed, by outcome.",
	}, []string{"result"})

	// Heartbeats counts device heartbeat messages received.
	Heartbeats = promauto.NewCounter(prometheus.CounterOpts{
		Name: "irrihub_heartbeats_total",
		Help: "Device heartbeat messages received.",
	})

	// PurgeRuns counts retention purge executions by outcome.
	PurgeRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "irrihub_purge_runs_total",
		Help: "Retention purge executions, by outcome.",
	}, []string{"result"})

	// PurgedReadings counts readings removed by retention purges.
	PurgedReadings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "irrihub_purged_readings_total",
		Help: "Readings removed by retention purges.",
	})

	// QueryDuration observes analytics query latency per endpoint.
	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "irrihub_query_duration_seconds",
		Help:    "Analytics query latency by endpoint.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
