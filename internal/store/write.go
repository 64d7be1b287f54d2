package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/glyphloop/internal/ir"
)

// ErrSessionNotFound is returned when a session ID has no row.
var ErrSessionNotFound = errors.New("session not found")

// BeginSession inserts the session row. It must precede WriteRecord for that
// session (foreign key constraint).
func (s *Store) BeginSession(ctx context.Context, id string, startedAt time.Time, seed uint64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, started_at, seed)
		VALUES (?, ?, ?)
	`, id, ir.FormatTimestamp(startedAt), int64(seed))
	if err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	return nil
}

// WriteRecord appends a chain record for a session.
// Uses ON CONFLICT(session_id, idx) DO NOTHING for idempotency - a repeated
// append of the same index is silently ignored.
func (s *Store) WriteRecord(ctx context.Context, sessionID string, rec ir.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chain_records
		(session_id, idx, category, length, hash, prev_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, idx) DO NOTHING
	`,
		sessionID,
		rec.Index,
		string(rec.Category),
		rec.Length,
		rec.Hash,
		rec.PrevHash,
		ir.FormatTimestamp(rec.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("write record %d: %w", rec.Index, err)
	}
	return nil
}

// EndSession stamps the end time and stores the stats snapshot JSON.
// Only the session row is updated; chain records are never touched.
func (s *Store) EndSession(ctx context.Context, id string, endedAt time.Time, stats []byte) error {
	var statsArg any
	if stats != nil {
		statsArg = string(stats)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET ended_at = ?, stats = ?
		WHERE id = ?
	`, ir.FormatTimestamp(endedAt), statsArg, id)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("end session %s: %w", id, ErrSessionNotFound)
	}
	return nil
}

// nullString converts sql.NullString to a string, empty if NULL.
func nullString(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}
