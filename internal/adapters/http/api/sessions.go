// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/calibra/internal/adapters/repository"
	"github.com/okian/calibra/internal/domain/machine"
)

// SessionsHandler handles session read requests.
type SessionsHandler struct {
	svc Service
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(svc Service) *SessionsHandler {
	return &SessionsHandler{svc: svc}
}

// HandleGetSession handles GET /sessions/{id} requests.
func (h *SessionsHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if id == "" || strings.Contains(id, "/") {
		writeCoded(w, &machine.Error{Code: machine.CodeBadRequest, Message: "missing session id"})
		return
	}

	sess, err := h.svc.GetSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeCoded(w, &machine.Error{Code: machine.CodeSessionNotFound, Message: "session " + id + " not found"})
			return
		}
		writeCoded(w, &machine.Error{Code: machine.CodeInternal, Message: "session lookup failed"})
		return
	}
	writeSession(w, sess)
}
