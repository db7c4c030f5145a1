// Package metrics exposes Prometheus metrics for TernDB. All metrics
// live on a Registry so tests can create isolated instances.
package metrics

import (
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every TernDB metric
type Registry struct {
	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Query
	QueriesTotal   *prometheus.CounterVec
	QueryDuration  *prometheus.HistogramVec
	SlowQueries    prometheus.Counter
	QueryRowsTotal prometheus.Counter

	// Storage
	StorageNodesTotal      prometheus.Gauge
	StorageEdgesTotal      prometheus.Gauge
	StorageOperationsTotal *prometheus.CounterVec
	SnapshotDuration       prometheus.Histogram
	SnapshotsTotal         *prometheus.CounterVec

	// System
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry *prometheus.Registry
	started  time.Time
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		started:  time.Now(),
	}
	r.initHTTPMetrics()
	r.initQueryMetrics()
	r.initStorageMetrics()
	r.initSystemMetrics()
	return r
}

// PrometheusRegistry exposes the underlying registry for the /metrics
// HTTP handler
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// RecordHTTPRequest records one served request
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordQuery records one query execution. Queries over a second
// count as slow.
func (r *Registry) RecordQuery(status string, duration time.Duration, rows int) {
	r.QueriesTotal.WithLabelValues(status).Inc()
	r.QueryDuration.WithLabelValues(status).Observe(duration.Seconds())
	r.QueryRowsTotal.Add(float64(rows))
	if duration > time.Second {
		r.SlowQueries.Inc()
	}
}

// RecordSnapshot records one snapshot attempt
func (r *Registry) RecordSnapshot(status string, duration time.Duration) {
	r.SnapshotsTotal.WithLabelValues(status).Inc()
	r.SnapshotDuration.Observe(duration.Seconds())
}

// SetGraphSize updates the node and edge gauges
func (r *Registry) SetGraphSize(nodes, edges uint64) {
	r.StorageNodesTotal.Set(float64(nodes))
	r.StorageEdgesTotal.Set(float64(edges))
}

// UpdateSystemMetrics refreshes uptime and runtime gauges
func (r *Registry) UpdateSystemMetrics() {
	r.UptimeSeconds.Set(time.Since(r.started).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	r.MemoryAllocBytes.Set(float64(mem.Alloc))
}
