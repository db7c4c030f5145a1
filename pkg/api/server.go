// Package api exposes TernDB over HTTP: a query endpoint plus
// health, stats and Prometheus metrics.
package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/terndb/terndb/pkg/logging"
	"github.com/terndb/terndb/pkg/metrics"
	"github.com/terndb/terndb/pkg/query"
	"github.com/terndb/terndb/pkg/storage"
)

// Server holds the handler dependencies
type Server struct {
	storage      *storage.GraphStorage
	executor     *query.Executor
	metrics      *metrics.Registry
	logger       logging.Logger
	queryTimeout time.Duration
}

// NewServer creates an API server over the given storage
func NewServer(store *storage.GraphStorage, registry *metrics.Registry, queryTimeout time.Duration) *Server {
	return &Server{
		storage:      store,
		executor:     query.NewExecutor(store),
		metrics:      registry,
		logger:       logging.DefaultLogger().With(logging.Component("api")),
		queryTimeout: queryTimeout,
	}
}

// Handler builds the full route table with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/query", s.handleQuery)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)
	mux.Handle("/metrics", promhttp.HandlerFor(
		s.metrics.PrometheusRegistry(),
		promhttp.HandlerOpts{},
	))

	return s.withRequestID(s.withMetrics(s.withLogging(mux)))
}
