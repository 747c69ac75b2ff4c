package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/agentscan/internal/procs"
	"github.com/blackwell-systems/agentscan/internal/scanner"
	"github.com/blackwell-systems/agentscan/internal/session"
)

func testScanner(processes []procs.Process, cwds map[int]string) *scanner.Scanner {
	return &scanner.Scanner{
		Find:       func(ctx context.Context) []procs.Process { return processes },
		ResolveCwd: func(ctx context.Context, pid int) string { return cwds[pid] },
		LocateLog:  func(cwd string) string { return "" },
		ParseLog: func(path string) session.Snapshot {
			return session.Snapshot{Activity: session.ActivityUnknown}
		},
		Parallelism: 2,
		ActiveCPU:   5.0,
	}
}

func TestAgentsEndpoint(t *testing.T) {
	sc := testScanner(
		[]procs.Process{{PID: 10, CPUPercent: 20.0, MemoryKB: 1024}},
		map[int]string{10: "/srv/demo"},
	)
	srv := New(sc)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/external-agents", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var body struct {
		Agents []struct {
			PID      int     `json:"pid"`
			Project  string  `json:"project"`
			Activity string  `json:"activity"`
			CPU      float64 `json:"cpuPercent"`
		} `json:"agents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Agents, 1)
	assert.Equal(t, 10, body.Agents[0].PID)
	assert.Equal(t, "demo", body.Agents[0].Project)
	assert.Equal(t, "unknown", body.Agents[0].Activity)
}

func TestAgentsEndpoint_EmptyScanIsEmptyArray(t *testing.T) {
	srv := New(testScanner(nil, nil))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/external-agents", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"agents":[]}`, rec.Body.String())
}

func TestSummaryEndpoint(t *testing.T) {
	sc := testScanner(
		[]procs.Process{
			{PID: 1, CPUPercent: 10.0},
			{PID: 2, CPUPercent: 50.0},
			{PID: 3, CPUPercent: 5.0},
		},
		map[int]string{1: "/a", 2: "/b", 3: "/c"},
	)
	srv := New(sc)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/external-agents/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var summary scanner.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, 2, summary.Active)
	require.Len(t, summary.Agents, 3)
	// Same deterministic CPU-descending order as the full scan.
	assert.Equal(t, 2, summary.Agents[0].PID)
	assert.Equal(t, 1, summary.Agents[1].PID)
	assert.Equal(t, 3, summary.Agents[2].PID)
}

func TestPreflight(t *testing.T) {
	srv := New(testScanner(nil, nil))

	for _, path := range []string{"/api/external-agents", "/api/external-agents/summary"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, path, nil))

		assert.Equal(t, http.StatusNoContent, rec.Code, path)
		assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"), path)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), path)
		assert.Empty(t, rec.Body.String(), path)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := New(testScanner(nil, nil))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/external-agents", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Allow"))
}

func TestInternalFaultBecomes500(t *testing.T) {
	sc := testScanner([]procs.Process{{PID: 1}}, map[int]string{1: "/x"})
	sc.LocateLog = func(cwd string) string { panic("unexpected fault") }
	srv := New(sc)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/external-agents", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal_error", body["error"])
	assert.Contains(t, body["message"], "unexpected fault")
}

func TestHealth(t *testing.T) {
	srv := New(testScanner(nil, nil))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
