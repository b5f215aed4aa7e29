package repository

import "errors"

// Sentinel kinds for session store errors.
var (
	ErrNotFound   = errors.New("session not found")
	ErrNilSession = errors.New("nil session")
	ErrEmptyID    = errors.New("empty session id")
)
