package api

import "github.com/terndb/terndb/pkg/query"

// QueryRequest is the body of POST /query
type QueryRequest struct {
	Query  string         `json:"query"`
	Params map[string]any `json:"params,omitempty"`
}

// QueryResponse wraps a result set with timing information
type QueryResponse struct {
	Columns    []string `json:"columns"`
	Rows       [][]any  `json:"rows"`
	Count      int      `json:"count"`
	DurationMs float64  `json:"duration_ms"`
}

// ErrorResponse is returned for any failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is returned by GET /stats
type StatsResponse struct {
	Nodes        uint64 `json:"nodes"`
	Edges        uint64 `json:"edges"`
	TotalQueries uint64 `json:"total_queries"`
	LastSnapshot int64  `json:"last_snapshot,omitempty"`
}

func fromResultSet(rs *query.ResultSet, durationMs float64) QueryResponse {
	rows := rs.Rows
	if rows == nil {
		rows = [][]any{}
	}
	columns := rs.Columns
	if columns == nil {
		columns = []string{}
	}
	return QueryResponse{
		Columns:    columns,
		Rows:       rows,
		Count:      rs.Count,
		DurationMs: durationMs,
	}
}
