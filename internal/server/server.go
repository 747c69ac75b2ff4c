// Package server exposes scan results over a small read-only HTTP API with
// permissive CORS, intended for dashboards polling agent activity.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/blackwell-systems/agentscan/internal/scanner"
)

// Server hosts the external-agents API over plain HTTP.
type Server struct {
	scanner *scanner.Scanner
	http    *http.Server
}

// New creates a Server around the given scanner.
func New(sc *scanner.Scanner) *Server {
	return &Server{scanner: sc}
}

// Handler returns the routed handler, exported so tests can drive it with
// httptest without binding a socket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/external-agents", s.guard(s.handleAgents))
	mux.HandleFunc("/api/external-agents/summary", s.guard(s.handleSummary))
	return mux
}

// ListenAndServe starts the server on addr and blocks until it stops.
func (s *Server) ListenAndServe(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// agentsResponse wraps the full scan result.
type agentsResponse struct {
	Agents []scanner.Agent `json:"agents"`
}

// errorResponse is the body of a 500 reply.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// guard applies CORS, answers preflight, restricts to GET, and converts
// panics below this boundary into a 500. The scanner resolves expected
// absences internally, so the 500 path is reserved for genuine faults.
func (s *Server) guard(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")

		switch r.Method {
		case http.MethodOptions:
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.WriteHeader(http.StatusNoContent)
			return
		case http.MethodGet:
		default:
			w.Header().Set("Allow", "GET, OPTIONS")
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
				Error:   "method_not_allowed",
				Message: fmt.Sprintf("%s is not supported", r.Method),
			})
			return
		}

		defer func() {
			if rec := recover(); rec != nil {
				writeJSON(w, http.StatusInternalServerError, errorResponse{
					Error:   "internal_error",
					Message: fmt.Sprintf("%v", rec),
				})
			}
		}()
		h(w, r)
	}
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	agents := s.scanner.Scan(r.Context())
	if agents == nil {
		agents = []scanner.Agent{}
	}
	writeJSON(w, http.StatusOK, agentsResponse{Agents: agents})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.scanner.Summarize(r.Context()))
}

// writeJSON marshals before writing headers so a serialization failure can
// still be reported as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		body, _ = json.Marshal(errorResponse{
			Error:   "serialization_error",
			Message: err.Error(),
		})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
