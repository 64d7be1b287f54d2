// Package report writes the end-of-session stats snapshot.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/roach88/glyphloop/internal/ir"
)

// DefaultPath is where the snapshot is written unless configured otherwise.
const DefaultPath = "system_stats.json"

// Snapshot is the persisted session summary. Field order is the on-disk order.
type Snapshot struct {
	SessionStart   string  `json:"session_start"`
	SessionEnd     string  `json:"session_end"`
	RuntimeSeconds float64 `json:"runtime_seconds"`
	TotalCycles    int     `json:"total_cycles"`
	TotalPatterns  int     `json:"total_patterns"`
	TotalChars     int     `json:"total_chars"`
	AvgLoad        float64 `json:"avg_load"`
	ChainLength    int     `json:"chain_length"`
	LastHash       *string `json:"last_hash"`
}

// Counters is what the reporter needs from the running session.
type Counters struct {
	Start    time.Time
	Cycles   int
	Patterns int
	Chars    int
}

// Chain is the read side of the integrity log.
type Chain interface {
	Len() int
	LastHash() *string
}

// Averager reports the rolling load average.
type Averager interface {
	Average() float64
}

// Build assembles a snapshot at end.
func Build(c Counters, load Averager, chain Chain, end time.Time) Snapshot {
	return Snapshot{
		SessionStart:   ir.FormatTimestamp(c.Start),
		SessionEnd:     ir.FormatTimestamp(end),
		RuntimeSeconds: end.Sub(c.Start).Seconds(),
		TotalCycles:    c.Cycles,
		TotalPatterns:  c.Patterns,
		TotalChars:     c.Chars,
		AvgLoad:        load.Average(),
		ChainLength:    chain.Len(),
		LastHash:       chain.LastHash(),
	}
}

// Marshal renders the snapshot as indented JSON with a trailing newline.
func Marshal(s Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// Write replaces the file at path with the snapshot.
// There is no partial-write recovery; any error is returned to the caller.
func Write(path string, s Snapshot) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// Read loads a snapshot previously written by Write.
func Read(path string) (Snapshot, error) {
	var s Snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return s, nil
}
