package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/glyphloop/internal/chain"
	"github.com/roach88/glyphloop/internal/ir"
	"github.com/roach88/glyphloop/internal/testutil"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var testStart = time.Date(2025, 5, 4, 9, 30, 0, 123456000, time.Local)

// createTestChain builds n linked records with deterministic timestamps.
func createTestChain(n int) []ir.Record {
	clock := testutil.NewStepClock(testStart, 61*time.Millisecond)
	log := chain.New(clock.Now)
	for i := 0; i < n; i++ {
		log.Append(ir.Categories[i%len(ir.Categories)], i+1)
	}
	return log.Records()
}

// seedSession inserts a session and its records.
func seedSession(t *testing.T, s *Store, id string, start time.Time, records []ir.Record) {
	t.Helper()
	ctx := context.Background()
	if err := s.BeginSession(ctx, id, start, 7); err != nil {
		t.Fatalf("BeginSession(%s) failed: %v", id, err)
	}
	for _, rec := range records {
		if err := s.WriteRecord(ctx, id, rec); err != nil {
			t.Fatalf("WriteRecord(%d) failed: %v", rec.Index, err)
		}
	}
}
