package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/okian/calibra/internal/domain/session"
	"github.com/okian/calibra/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	state      TEXT NOT NULL,
	payload    TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_state ON sessions(state);
`

// SQLiteStore persists sessions as JSON rows in a single-file database.
// The state column is denormalized for operational queries; the payload is
// the source of truth.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}

	// Single writer; WAL keeps readers unblocked during dispatch writes.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get loads and decodes the session for id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*session.Session, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreGetLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if id == "" {
		metrics.RecordStoreError()
		return nil, ErrEmptyID
	}

	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM sessions WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("query session: %w", err)
	}

	var sess session.Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

// Set upserts the session row, last write wins.
func (s *SQLiteStore) Set(ctx context.Context, sess *session.Session) error {
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

	payload, err := json.Marshal(sess)
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, state, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state      = excluded.state,
			payload    = excluded.payload,
			updated_at = excluded.updated_at`,
		sess.ID, string(sess.State), string(payload), sess.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("store session %s: %w", sess.ID, err)
	}

	metrics.UpdateStoreSessions(s.Count(ctx))
	return nil
}

// Count returns the number of stored sessions, zero on query failure.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&n); err != nil {
		return 0
	}
	return n
}

// CountByState tallies stored sessions per lifecycle state using the
// denormalized state column, nil on query failure.
func (s *SQLiteStore) CountByState(ctx context.Context) map[session.State]int {
	rows, err := s.db.QueryContext(ctx, "SELECT state, COUNT(*) FROM sessions GROUP BY state")
	if err != nil {
		return nil
	}
	defer func() {
		_ = rows.Close()
	}()

	out := make(map[session.State]int)
	for rows.Next() {
		var state string
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil
		}
		out[session.State(state)] = n
	}
	if err := rows.Err(); err != nil {
		return nil
	}
	return out
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
