package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/terndb/terndb/pkg/logging"
	"github.com/terndb/terndb/pkg/query"
)

const maxQueryBody = 1 << 20

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req QueryRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQueryBody))
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query must not be empty")
		return
	}

	start := time.Now()
	result, err := s.executeWithTimeout(r.Context(), req)
	elapsed := time.Since(start)

	if err != nil {
		status := "error"
		code := http.StatusBadRequest
		if err == context.DeadlineExceeded {
			status = "timeout"
			code = http.StatusGatewayTimeout
		}
		s.metrics.RecordQuery(status, elapsed, 0)
		s.logger.Warn("query failed",
			logging.QueryText(req.Query),
			logging.Error(err),
			logging.Latency(elapsed))
		writeError(w, code, err.Error())
		return
	}

	s.metrics.RecordQuery("ok", elapsed, result.Count)
	s.logger.Debug("query executed",
		logging.QueryText(req.Query),
		logging.Count(result.Count),
		logging.Latency(elapsed))

	writeJSON(w, http.StatusOK, fromResultSet(result, float64(elapsed.Microseconds())/1000))
}

// executeWithTimeout runs the query with the configured deadline. The
// executor is synchronous, so the result is collected on a channel.
func (s *Server) executeWithTimeout(ctx context.Context, req QueryRequest) (*query.ResultSet, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	type outcome struct {
		result *query.ResultSet
		err    error
	}
	ch := make(chan outcome, 1)
	go func() {
		result, err := s.executor.ExecuteWithParams(req.Query, req.Params)
		ch <- outcome{result, err}
	}()

	select {
	case out := <-ch:
		// a result that arrives after the deadline still counts as
		// a timeout
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return out.result, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.storage.GetStatistics()
	s.metrics.SetGraphSize(stats.NodeCount, stats.EdgeCount)

	resp := StatsResponse{
		Nodes:        stats.NodeCount,
		Edges:        stats.EdgeCount,
		TotalQueries: stats.TotalQueries,
	}
	if !stats.LastSnapshot.IsZero() {
		resp.LastSnapshot = stats.LastSnapshot.Unix()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg})
}
