package session

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Event type names as they appear on the wire.
const (
	TypeCreateSession               = "CREATE_SESSION"
	TypeSubmitResume                = "SUBMIT_RESUME"
	TypeAdvance                     = "ADVANCE"
	TypeSubmitPromptAnswer          = "SUBMIT_PROMPT_ANSWER"
	TypeSubmitPromptClarifierAnswer = "SUBMIT_PROMPT_CLARIFIER_ANSWER"
	TypeTitleFeedback               = "TITLE_FEEDBACK"
	TypeSubmitJobText               = "SUBMIT_JOB_TEXT"
	TypeComputeAlignmentOutput      = "COMPUTE_ALIGNMENT_OUTPUT"
)

// Event is the sealed union of calibration events. One variant exists per
// wire event type; each carries exactly its required fields, so the machine
// can match exhaustively with no ad hoc field checks.
type Event interface {
	// Type returns the wire name of the event.
	Type() string
	// SessionID returns the target session, empty for CREATE_SESSION.
	SessionID() string

	sealed()
}

// CreateSession creates a fresh session.
type CreateSession struct{}

// SubmitResume stores the resume text and its derived signals.
type SubmitResume struct {
	Session string
	Text    string
}

// Advance requests the single legal forward transition for the current state.
type Advance struct {
	Session string
}

// SubmitPromptAnswer answers the current prompt.
type SubmitPromptAnswer struct {
	Session string
	Text    string
}

// SubmitPromptClarifierAnswer answers the one-shot clarifier.
type SubmitPromptClarifierAnswer struct {
	Session string
	Text    string
}

// TitleFeedback records the user's reaction to the title hypothesis.
type TitleFeedback struct {
	Session string
	Title   string
	Note    string
}

// SubmitJobText ingests a job description.
type SubmitJobText struct {
	Session string
	Text    string
}

// ComputeAlignmentOutput runs the scoring engine and finalizes the session.
type ComputeAlignmentOutput struct {
	Session string
}

func (CreateSession) Type() string               { return TypeCreateSession }
func (SubmitResume) Type() string                { return TypeSubmitResume }
func (Advance) Type() string                     { return TypeAdvance }
func (SubmitPromptAnswer) Type() string          { return TypeSubmitPromptAnswer }
func (SubmitPromptClarifierAnswer) Type() string { return TypeSubmitPromptClarifierAnswer }
func (TitleFeedback) Type() string               { return TypeTitleFeedback }
func (SubmitJobText) Type() string               { return TypeSubmitJobText }
func (ComputeAlignmentOutput) Type() string      { return TypeComputeAlignmentOutput }

func (CreateSession) SessionID() string                 { return "" }
func (e SubmitResume) SessionID() string                { return e.Session }
func (e Advance) SessionID() string                     { return e.Session }
func (e SubmitPromptAnswer) SessionID() string          { return e.Session }
func (e SubmitPromptClarifierAnswer) SessionID() string { return e.Session }
func (e TitleFeedback) SessionID() string               { return e.Session }
func (e SubmitJobText) SessionID() string               { return e.Session }
func (e ComputeAlignmentOutput) SessionID() string      { return e.Session }

func (CreateSession) sealed()               {}
func (SubmitResume) sealed()                {}
func (Advance) sealed()                     {}
func (SubmitPromptAnswer) sealed()          {}
func (SubmitPromptClarifierAnswer) sealed() {}
func (TitleFeedback) sealed()               {}
func (SubmitJobText) sealed()               {}
func (ComputeAlignmentOutput) sealed()      {}

// Envelope mirrors the wire shape {event: {type, sessionId, ...fields}}.
type Envelope struct {
	Event RawEvent `json:"event"`
}

// RawEvent is the untyped wire event before decoding into a variant.
type RawEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Text      string `json:"text,omitempty"`
	Title     string `json:"title,omitempty"`
	Note      string `json:"note,omitempty"`
}

// DecodeEvent converts a raw wire event into its typed variant, validating
// that required fields are present.
func DecodeEvent(raw RawEvent) (Event, error) {
	typ := strings.TrimSpace(raw.Type)
	if typ == "" {
		return nil, fmt.Errorf("%w: type", ErrMissingRequiredField)
	}

	needSession := func() (string, error) {
		id := strings.TrimSpace(raw.SessionID)
		if id == "" {
			return "", fmt.Errorf("%w: sessionId", ErrMissingRequiredField)
		}
		return id, nil
	}

	switch typ {
	case TypeCreateSession:
		return CreateSession{}, nil
	case TypeSubmitResume:
		id, err := needSession()
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(raw.Text) == "" {
			return nil, fmt.Errorf("%w: text", ErrMissingRequiredField)
		}
		return SubmitResume{Session: id, Text: raw.Text}, nil
	case TypeAdvance:
		id, err := needSession()
		if err != nil {
			return nil, err
		}
		return Advance{Session: id}, nil
	case TypeSubmitPromptAnswer:
		id, err := needSession()
		if err != nil {
			return nil, err
		}
		return SubmitPromptAnswer{Session: id, Text: raw.Text}, nil
	case TypeSubmitPromptClarifierAnswer:
		id, err := needSession()
		if err != nil {
			return nil, err
		}
		return SubmitPromptClarifierAnswer{Session: id, Text: raw.Text}, nil
	case TypeTitleFeedback:
		id, err := needSession()
		if err != nil {
			return nil, err
		}
		return TitleFeedback{Session: id, Title: raw.Title, Note: raw.Note}, nil
	case TypeSubmitJobText:
		id, err := needSession()
		if err != nil {
			return nil, err
		}
		return SubmitJobText{Session: id, Text: raw.Text}, nil
	case TypeComputeAlignmentOutput:
		id, err := needSession()
		if err != nil {
			return nil, err
		}
		return ComputeAlignmentOutput{Session: id}, nil
	default:
		return nil, fmt.Errorf("%w: unknown event type %q", ErrBadRequest, typ)
	}
}

// DecodeEnvelope parses a request body into a typed event.
func DecodeEnvelope(data []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return DecodeEvent(env.Event)
}
