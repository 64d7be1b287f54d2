package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/glyphloop/internal/ir"
)

// SessionInfo summarises a stored session.
type SessionInfo struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at,omitzero"`
	Seed        uint64    `json:"seed"`
	RecordCount int       `json:"record_count"`
	Stats       string    `json:"-"`
}

// Ended reports whether the session was closed with EndSession.
func (si SessionInfo) Ended() bool {
	return !si.EndedAt.IsZero()
}

// ReadRecords returns the chain of a session ordered by index.
// Returns an empty slice (not nil) for a session with no records.
func (s *Store) ReadRecords(ctx context.Context, sessionID string) ([]ir.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, category, length, hash, prev_hash, created_at
		FROM chain_records
		WHERE session_id = ?
		ORDER BY idx ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := []ir.Record{}
	for rows.Next() {
		var (
			rec       ir.Record
			category  string
			createdAt string
		)
		if err := rows.Scan(&rec.Index, &category, &rec.Length, &rec.Hash, &rec.PrevHash, &createdAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if rec.Category, err = ir.ParseCategory(category); err != nil {
			return nil, fmt.Errorf("record %d: %w", rec.Index, err)
		}
		if rec.Timestamp, err = parseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("record %d: %w", rec.Index, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// ListSessions returns all sessions, oldest first.
func (s *Store) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx, sessionSelect+`
		ORDER BY s.started_at ASC, s.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []SessionInfo{}
	for rows.Next() {
		si, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, si)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ReadSession returns one session by ID.
func (s *Store) ReadSession(ctx context.Context, id string) (SessionInfo, error) {
	row := s.db.QueryRowContext(ctx, sessionSelect+`
		WHERE s.id = ?
	`, id)
	si, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return si, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	return si, err
}

// LatestSession returns the most recently started session.
func (s *Store) LatestSession(ctx context.Context) (SessionInfo, error) {
	row := s.db.QueryRowContext(ctx, sessionSelect+`
		ORDER BY s.started_at DESC, s.id COLLATE BINARY DESC
		LIMIT 1
	`)
	si, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return si, ErrSessionNotFound
	}
	return si, err
}

const sessionSelect = `
	SELECT s.id, s.started_at, s.ended_at, s.seed, s.stats,
		(SELECT COUNT(*) FROM chain_records r WHERE r.session_id = s.id)
	FROM sessions s
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (SessionInfo, error) {
	var (
		si        SessionInfo
		startedAt string
		endedAt   sql.NullString
		stats     sql.NullString
		seed      int64
	)
	if err := row.Scan(&si.ID, &startedAt, &endedAt, &seed, &stats, &si.RecordCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return si, err
		}
		return si, fmt.Errorf("scan session: %w", err)
	}

	var err error
	if si.StartedAt, err = parseTimestamp(startedAt); err != nil {
		return si, fmt.Errorf("session %s: %w", si.ID, err)
	}
	if endedAt.Valid {
		if si.EndedAt, err = parseTimestamp(endedAt.String); err != nil {
			return si, fmt.Errorf("session %s: %w", si.ID, err)
		}
	}
	si.Seed = uint64(seed)
	si.Stats = nullString(stats)
	return si, nil
}

// parseTimestamp reads a stored timestamp as local wall time.
// Formatting the result with ir.TimestampLayout reproduces the stored text.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(ir.TimestampLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// RecordLocation identifies one stored chain record.
type RecordLocation struct {
	SessionID string `json:"session_id"`
	Index     int    `json:"index"`
}

// FindRecordsByHash returns every stored record with the given hash, oldest
// session first. Returns an empty slice (not nil) when there is none.
func (s *Store) FindRecordsByHash(ctx context.Context, hash string) ([]RecordLocation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.session_id, r.idx
		FROM chain_records r
		JOIN sessions s ON s.id = r.session_id
		WHERE r.hash = ?
		ORDER BY s.started_at ASC, r.session_id COLLATE BINARY ASC, r.idx ASC
	`, hash)
	if err != nil {
		return nil, fmt.Errorf("query records by hash: %w", err)
	}
	defer rows.Close()

	locs := []RecordLocation{}
	for rows.Next() {
		var loc RecordLocation
		if err := rows.Scan(&loc.SessionID, &loc.Index); err != nil {
			return nil, fmt.Errorf("scan record location: %w", err)
		}
		locs = append(locs, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate record locations: %w", err)
	}
	return locs, nil
}
