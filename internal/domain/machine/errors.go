package machine

import "fmt"

// Error codes returned across the dispatch boundary.
const (
	CodeMissingRequiredField             = "MISSING_REQUIRED_FIELD"
	CodeBadRequest                       = "BAD_REQUEST"
	CodeInvalidEventForState             = "INVALID_EVENT_FOR_STATE"
	CodeSessionNotFound                  = "SESSION_NOT_FOUND"
	CodeRitualNotReady                   = "RITUAL_NOT_READY"
	CodePromptFrozen                     = "PROMPT_FROZEN"
	CodeJobRequired                      = "JOB_REQUIRED"
	CodeJobEncodingIncomplete            = "JOB_ENCODING_INCOMPLETE"
	CodeInsufficientSignalAfterClarifier = "INSUFFICIENT_SIGNAL_AFTER_CLARIFIER"
	CodeMissingJobText                   = "MISSING_JOB_TEXT"
	CodeUnableToExtractAnySignal         = "UNABLE_TO_EXTRACT_ANY_SIGNAL"
	CodeIncompleteDimensionCoverage      = "INCOMPLETE_DIMENSION_COVERAGE"
	CodeInternal                         = "INTERNAL"
)

// Error is a coded dispatch error. Errors cross the boundary as values,
// never as panics, so the code and message survive to the response shape.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

func newError(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsError extracts the coded error from err, wrapping anything foreign as
// INTERNAL without leaking its message.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return &Error{Code: CodeInternal, Message: "internal error"}
}
