package ir

import (
	"fmt"
	"time"
)

// Category identifies a pattern family. It selects glyph set and sizing rule.
type Category string

const (
	CategoryWave   Category = "WAVE"
	CategoryPulse  Category = "PULSE"
	CategorySpiral Category = "SPIRAL"
)

// Categories lists every category in declaration order.
// Random selection indexes into this slice, so the order is part of the
// seeded behaviour.
var Categories = []Category{CategoryWave, CategoryPulse, CategorySpiral}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryWave, CategoryPulse, CategorySpiral:
		return true
	}
	return false
}

// ParseCategory converts a stored string back into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown pattern category %q", s)
	}
	return c, nil
}

// TimestampLayout renders instants as local wall time with microseconds,
// e.g. "2025-03-01T14:05:09.004211". It is used for hashing and for every
// timestamp written to disk.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// FormatTimestamp renders t with TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Record is one link of the integrity chain. One record is appended per
// rendered frame.
type Record struct {
	Index     int       `json:"index"`
	Category  Category  `json:"pattern"`
	Length    int       `json:"length"`
	Hash      string    `json:"hash"`
	PrevHash  string    `json:"prev_hash"`
	Timestamp time.Time `json:"timestamp"`
}
