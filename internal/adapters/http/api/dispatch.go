// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/okian/calibra/internal/domain/machine"
	"github.com/okian/calibra/internal/domain/session"
)

// maxDispatchBody bounds the request body; resumes and job descriptions are
// plain text and comfortably fit.
const maxDispatchBody = 1 << 20

// DispatchHandler handles event dispatch requests.
type DispatchHandler struct {
	svc Service
}

// NewDispatchHandler creates a new dispatch handler.
func NewDispatchHandler(svc Service) *DispatchHandler {
	return &DispatchHandler{svc: svc}
}

// HandleDispatch handles POST /dispatch requests. The body is the event
// envelope {event: {type, sessionId?, ...fields}}.
func (h *DispatchHandler) HandleDispatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDispatchBody))
	if err != nil {
		writeCoded(w, &machine.Error{Code: machine.CodeBadRequest, Message: "unreadable request body"})
		return
	}

	ev, err := session.DecodeEnvelope(body)
	if err != nil {
		code := machine.CodeBadRequest
		if errors.Is(err, session.ErrMissingRequiredField) {
			code = machine.CodeMissingRequiredField
		}
		writeCoded(w, &machine.Error{Code: code, Message: err.Error()})
		return
	}

	sess, derr := h.svc.Dispatch(r.Context(), ev)
	if derr != nil {
		writeCoded(w, derr)
		return
	}
	writeSession(w, sess)
}
