package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/calibra/internal/domain/session"
	"github.com/okian/calibra/pkg/metrics"
)

// MemStore is the in-memory Store implementation. Sessions are cloned on
// both reads and writes so callers never share mutable state with the
// store.
type MemStore struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// NewMemStore creates an empty in-memory session store.
func NewMemStore() *MemStore {
	return &MemStore{
		sessions: make(map[string]*session.Session),
	}
}

// Get returns a clone of the stored session.
func (s *MemStore) Get(_ context.Context, id string) (*session.Session, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreGetLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if id == "" {
		metrics.RecordStoreError()
		return nil, ErrEmptyID
	}

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return sess.Clone(), nil
}

// Set stores a clone of the session, last write wins.
func (s *MemStore) Set(_ context.Context, sess *session.Session) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreSetLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if sess == nil {
		metrics.RecordStoreError()
		return ErrNilSession
	}
	if sess.ID == "" {
		metrics.RecordStoreError()
		return ErrEmptyID
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess.Clone()
	count := len(s.sessions)
	s.mu.Unlock()

	metrics.UpdateStoreSessions(count)
	return nil
}

// Count returns the number of stored sessions.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// CountByState tallies stored sessions per lifecycle state.
func (s *MemStore) CountByState(_ context.Context) map[session.State]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[session.State]int)
	for _, sess := range s.sessions {
		out[sess.State]++
	}
	return out
}

// Close is a no-op for the in-memory store.
func (s *MemStore) Close() error {
	return nil
}
