package chain

import (
	"time"

	"github.com/roach88/glyphloop/internal/ir"
)

// Log is an in-memory append-only sequence of records.
//
// Not safe for concurrent use; the session loop is the single writer.
type Log struct {
	now     func() time.Time
	records []ir.Record
}

// New creates an empty log stamping records with now.
// A nil now uses time.Now.
func New(now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{now: now}
}

// Append adds a record for a frame and returns it.
func (l *Log) Append(category ir.Category, length int) ir.Record {
	prev := ir.GenesisHash
	if n := len(l.records); n > 0 {
		prev = l.records[n-1].Hash
	}

	at := l.now()
	rec := ir.Record{
		Index:     len(l.records),
		Category:  category,
		Length:    length,
		Hash:      ir.RecordHash(category, length, prev, at),
		PrevHash:  prev,
		Timestamp: at,
	}
	l.records = append(l.records, rec)
	return rec
}

// Len returns the number of records.
func (l *Log) Len() int {
	return len(l.records)
}

// Last returns the most recent record, if any.
func (l *Log) Last() (ir.Record, bool) {
	if len(l.records) == 0 {
		return ir.Record{}, false
	}
	return l.records[len(l.records)-1], true
}

// LastHash returns the most recent hash, or nil for an empty log.
func (l *Log) LastHash() *string {
	rec, ok := l.Last()
	if !ok {
		return nil
	}
	h := rec.Hash
	return &h
}

// Records returns a copy of all records in append order.
func (l *Log) Records() []ir.Record {
	out := make([]ir.Record, len(l.records))
	copy(out, l.records)
	return out
}
