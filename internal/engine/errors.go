package engine

import (
	"errors"
	"fmt"
)

// FrameError reports a chain record that could not be persisted.
//
// The record is already in the in-memory chain and the session counters when
// this is returned, so the snapshot written at shutdown still counts it.
type FrameError struct {
	// Index is the chain index of the record.
	Index int

	// Err is the underlying sink error.
	Err error
}

// Error implements the error interface.
func (e *FrameError) Error() string {
	return fmt.Sprintf("persist record %d: %v", e.Index, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// IsFrameError returns true if the error is a persistence failure.
// Uses errors.As to handle wrapped errors.
func IsFrameError(err error) bool {
	var fe *FrameError
	return errors.As(err, &fe)
}
