package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initQueryMetrics() {
	r.QueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "terndb_queries_total",
			Help: "Total number of queries executed",
		},
		[]string{"status"},
	)

	r.QueryDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "terndb_query_duration_seconds",
			Help:    "Query execution duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
		},
		[]string{"status"},
	)

	r.SlowQueries = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "terndb_slow_queries_total",
			Help: "Total number of queries slower than one second",
		},
	)

	r.QueryRowsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "terndb_query_rows_total",
			Help: "Total number of result rows returned",
		},
	)
}
