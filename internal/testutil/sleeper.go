package testutil

import (
	"context"
	"sync"
	"time"
)

// RecordingSleeper records requested sleeps instead of blocking.
//
// OnSleep, if set, runs after each recorded sleep with the 1-based call
// number. Tests use it to cancel a context at a chosen frame, standing in
// for an interrupt signal.
type RecordingSleeper struct {
	mu      sync.Mutex
	sleeps  []time.Duration
	OnSleep func(call int)
}

// Sleep records d and returns ctx.Err() if the context is already done.
func (s *RecordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.sleeps = append(s.sleeps, d)
	call := len(s.sleeps)
	hook := s.OnSleep
	s.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	return ctx.Err()
}

// Durations returns a copy of all recorded sleeps.
func (s *RecordingSleeper) Durations() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, len(s.sleeps))
	copy(out, s.sleeps)
	return out
}
