// Package repository defines the session store interface and its
// implementations. The contract is deliberately small: get, set with
// last-write-wins per id, count. No transactional guarantees beyond that.
package repository

import (
	"context"

	"github.com/okian/calibra/internal/domain/session"
)

// Store provides read/write access to calibration sessions.
type Store interface {
	// Get returns the session for id. Returns ErrNotFound if unknown.
	Get(ctx context.Context, id string) (*session.Session, error)

	// Set stores the session under its id, replacing any prior value.
	Set(ctx context.Context, sess *session.Session) error

	// Count returns the number of stored sessions.
	Count(ctx context.Context) int

	// CountByState tallies stored sessions per lifecycle state.
	CountByState(ctx context.Context) map[session.State]int

	// Close releases store resources.
	Close() error
}
