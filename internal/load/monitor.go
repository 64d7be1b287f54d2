// Package load simulates a system load figure for the animation loop.
//
// The value is synthetic: half of the pattern counter modulo 100, plus up to
// 20 points of noise, capped at 100. It scales the per-frame sleep and feeds
// the dashboard health indicator.
package load

import (
	"math"
	"time"
)

const (
	// HistorySize caps the rolling window used for Average.
	HistorySize = 10

	// MaxLoad is the upper bound of any sample.
	MaxLoad = 100.0

	noiseSpan = 20.0
)

// FloatSource is the subset of *rand.Rand the monitor needs.
type FloatSource interface {
	Float64() float64
}

// Monitor keeps the rolling load history.
type Monitor struct {
	rng     FloatSource
	history []float64
}

// NewMonitor creates a monitor with an empty history.
func NewMonitor(rng FloatSource) *Monitor {
	return &Monitor{rng: rng, history: make([]float64, 0, HistorySize+1)}
}

// Sample computes the load for the given pattern count and records it.
// The oldest sample is evicted once more than HistorySize are held.
func (m *Monitor) Sample(patterns int) float64 {
	base := float64(patterns%100) / 2
	v := math.Min(base+m.rng.Float64()*noiseSpan, MaxLoad)

	m.history = append(m.history, v)
	if len(m.history) > HistorySize {
		m.history = append(m.history[:0], m.history[1:]...)
	}
	return v
}

// Average returns the mean of the current history, or 0 when empty.
func (m *Monitor) Average() float64 {
	if len(m.history) == 0 {
		return 0
	}
	var sum float64
	for _, v := range m.history {
		sum += v
	}
	return sum / float64(len(m.history))
}

// History returns a copy of the retained samples, oldest first.
func (m *Monitor) History() []float64 {
	out := make([]float64, len(m.history))
	copy(out, m.history)
	return out
}

// Health classifies the current average.
func (m *Monitor) Health() Health {
	return Classify(m.Average())
}

// Delay returns how long to sleep after a frame sampled at load:
// base plus one millisecond per load point.
func Delay(base time.Duration, load float64) time.Duration {
	return base + time.Duration(load*float64(time.Millisecond))
}
