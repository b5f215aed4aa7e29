package session

import "errors"

// Sentinel kinds for event decoding errors.
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrBadRequest           = errors.New("bad request")
)
