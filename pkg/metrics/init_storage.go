package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initStorageMetrics() {
	r.StorageNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "terndb_storage_nodes_total",
			Help: "Number of nodes in the graph",
		},
	)

	r.StorageEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "terndb_storage_edges_total",
			Help: "Number of edges in the graph",
		},
	)

	r.StorageOperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "terndb_storage_operations_total",
			Help: "Total number of storage operations",
		},
		[]string{"operation", "status"},
	)

	r.SnapshotDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "terndb_snapshot_duration_seconds",
			Help:    "Snapshot write duration in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)

	r.SnapshotsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "terndb_snapshots_total",
			Help: "Total number of snapshot attempts",
		},
		[]string{"status"},
	)
}
