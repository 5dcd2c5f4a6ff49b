// Package monitoring provides Prometheus-based metrics for the storage core.
//
// There is no exposition endpoint: the core is local-device-only. Metrics
// live on a private registry and are read through Gather, which the CLI
// stats command and tests consume directly.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all storage-core metrics.
type Metrics struct {
	registry *prometheus.Registry

	// Index metrics
	IndexBuilds     prometheus.Counter
	IndexedEntries  prometheus.Gauge
	IndexBuildTime  prometheus.Histogram
	IndexWalkErrors prometheus.Counter

	// Search metrics
	Searches       *prometheus.CounterVec
	SearchDuration prometheus.Histogram

	// Recycle metrics
	RecycleOps *prometheus.CounterVec

	startTime time.Time
}

// NewMetrics creates a metrics collector on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry:  reg,
		startTime: time.Now(),

		IndexBuilds: factory.NewCounter(prometheus.CounterOpts{
			Name: "core_index_builds_total",
			Help: "Total number of index builds and refreshes",
		}),
		IndexedEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "core_index_entries",
			Help: "Number of entries in the current index snapshot",
		}),
		IndexBuildTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "core_index_build_duration_seconds",
			Help:    "Index build duration in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		IndexWalkErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "core_index_walk_errors_total",
			Help: "Subtrees skipped during index walks",
		}),

		Searches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "core_searches_total",
			Help: "Total number of searches by mode",
		}, []string{"mode"}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "core_search_duration_seconds",
			Help:    "Search duration in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
		}),

		RecycleOps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "core_recycle_ops_total",
			Help: "Recycle bin operations by kind and status",
		}, []string{"op", "status"}),
	}
}

// RecordBuild records one index build.
func (m *Metrics) RecordBuild(entries int, duration time.Duration, walkErrors int) {
	if m == nil {
		return
	}
	m.IndexBuilds.Inc()
	m.IndexedEntries.Set(float64(entries))
	m.IndexBuildTime.Observe(duration.Seconds())
	m.IndexWalkErrors.Add(float64(walkErrors))
}

// RecordSearch records one search; mode is "indexed" or "live".
func (m *Metrics) RecordSearch(mode string, duration time.Duration) {
	if m == nil {
		return
	}
	m.Searches.WithLabelValues(mode).Inc()
	m.SearchDuration.Observe(duration.Seconds())
}

// RecordRecycleOp records a recycle bin operation outcome.
func (m *Metrics) RecordRecycleOp(op string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.RecycleOps.WithLabelValues(op, status).Inc()
}

// Uptime returns the collector lifetime.
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}

// Gather returns the current metric families.
func (m *Metrics) Gather() ([]*dto.MetricFamily, error) {
	return m.registry.Gather()
}
