// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/calibra/internal/domain/machine"
	"github.com/okian/calibra/internal/domain/session"
)

// Service is the application surface the handlers depend on. An interface
// bundle keeps the handler layer loosely coupled to the app package.
type Service interface {
	// Dispatch applies one event and returns the updated session or a
	// coded error. Errors cross this boundary as values, never panics.
	Dispatch(ctx context.Context, ev session.Event) (*session.Session, *machine.Error)

	// GetSession returns the stored session for id.
	GetSession(ctx context.Context, id string) (*session.Session, error)
}

// Server wires HTTP routes for the calibration API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	dispatchHandler *DispatchHandler
	sessionsHandler *SessionsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(svc Service, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		dispatchHandler: NewDispatchHandler(svc),
		sessionsHandler: NewSessionsHandler(svc),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/dispatch", MetricsMiddleware(s.dispatchHandler.HandleDispatch, "dispatch"))
	mux.HandleFunc("/sessions/", MetricsMiddleware(s.sessionsHandler.HandleGetSession, "sessions"))
}

// dispatchResponse is the wire shape for every dispatch outcome:
// {ok:true, session} on success, {ok:false, error:{code,message}} otherwise.
type dispatchResponse struct {
	OK      bool             `json:"ok"`
	Session *session.Session `json:"session,omitempty"`
	Error   *machine.Error   `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSession(w http.ResponseWriter, sess *session.Session) {
	writeJSON(w, http.StatusOK, dispatchResponse{OK: true, Session: sess})
}

func writeCoded(w http.ResponseWriter, derr *machine.Error) {
	writeJSON(w, statusForCode(derr.Code), dispatchResponse{OK: false, Error: derr})
}

// statusForCode maps coded dispatch errors onto HTTP statuses. The body
// carries the authoritative code; the status is advisory for generic clients.
func statusForCode(code string) int {
	switch code {
	case machine.CodeSessionNotFound:
		return http.StatusNotFound
	case machine.CodeInternal:
		return http.StatusInternalServerError
	case machine.CodeInvalidEventForState,
		machine.CodeRitualNotReady,
		machine.CodePromptFrozen,
		machine.CodeJobRequired,
		machine.CodeJobEncodingIncomplete:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
