package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terndb/terndb/pkg/metrics"
	"github.com/terndb/terndb/pkg/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := storage.NewGraphStorage("")
	require.NoError(t, err)
	return NewServer(store, metrics.NewRegistry(), 5*time.Second)
}

func postQuery(t *testing.T, handler http.Handler, body QueryRequest) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestQueryEndpoint(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	rec := postQuery(t, handler, QueryRequest{Query: `CREATE (:Person {name: 'Ada', age: 36})`})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postQuery(t, handler, QueryRequest{Query: `MATCH (n:Person) RETURN n.name AS name`})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"name"}, resp.Columns)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Ada", resp.Rows[0][0])
}

func TestQueryWithParams(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	postQuery(t, handler, QueryRequest{Query: `CREATE (:Person {name: 'Ada', age: 36})`})
	postQuery(t, handler, QueryRequest{Query: `CREATE (:Person {name: 'Grace', age: 45})`})

	rec := postQuery(t, handler, QueryRequest{
		Query:  `MATCH (n:Person) WHERE n.age > $min RETURN n.name`,
		Params: map[string]any{"min": 40},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Grace", resp.Rows[0][0])
}

func TestQueryRejectsBadInput(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	// empty query
	rec := postQuery(t, handler, QueryRequest{Query: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// malformed JSON
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader("{not json"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// syntax error
	rec = postQuery(t, handler, QueryRequest{Query: "FROBNICATE EVERYTHING"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.NotEmpty(t, errResp.Error)
}

func TestQueryRequiresPost(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/query", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestStatsEndpoint(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	postQuery(t, handler, QueryRequest{Query: `CREATE (:Person {name: 'Ada'})-[:KNOWS]->(:Person {name: 'Grace'})`})

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(2), resp.Nodes)
	assert.Equal(t, uint64(1), resp.Edges)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	postQuery(t, handler, QueryRequest{Query: `CREATE (:Person {name: 'Ada'})`})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "terndb_queries_total")
	assert.Contains(t, body, "terndb_http_requests_total")
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	// a caller-supplied ID is echoed back
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "my-trace-id")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "my-trace-id", rec.Header().Get("X-Request-ID"))
}

func TestQueryTimeout(t *testing.T) {
	store, err := storage.NewGraphStorage("")
	require.NoError(t, err)
	s := NewServer(store, metrics.NewRegistry(), time.Nanosecond)
	handler := s.Handler()

	rec := postQuery(t, handler, QueryRequest{Query: `MATCH (n) RETURN n`})
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}
