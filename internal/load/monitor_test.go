package load

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constFloat float64

func (c constFloat) Float64() float64 { return float64(c) }

func TestMonitor_SampleFormula(t *testing.T) {
	m := NewMonitor(constFloat(0.5))

	assert.InDelta(t, 10.0, m.Sample(0), 1e-9)    // 0 + 10
	assert.InDelta(t, 30.0, m.Sample(40), 1e-9)   // 20 + 10
	assert.InDelta(t, 59.5, m.Sample(99), 1e-9)   // 49.5 + 10
	assert.InDelta(t, 10.5, m.Sample(101), 1e-9)  // wraps at 100
	assert.InDelta(t, 10.0, m.Sample(1000), 1e-9) // 1000 % 100 == 0
}

func TestMonitor_NoiseBounds(t *testing.T) {
	low := NewMonitor(constFloat(0))
	high := NewMonitor(constFloat(0.999999))

	assert.InDelta(t, 24.5, low.Sample(49), 1e-9)
	assert.Less(t, high.Sample(49), 24.5+noiseSpan)
}

func TestMonitor_HistoryCapped(t *testing.T) {
	m := NewMonitor(rand.New(rand.NewPCG(3, 4)))
	for i := 0; i < 100; i++ {
		m.Sample(i)
		require.LessOrEqual(t, len(m.History()), HistorySize)
	}
	assert.Len(t, m.History(), HistorySize)
}

func TestMonitor_FIFOEviction(t *testing.T) {
	m := NewMonitor(constFloat(0))
	for i := 0; i < HistorySize+2; i++ {
		m.Sample(i * 2) // load == i
	}
	h := m.History()
	require.Len(t, h, HistorySize)
	assert.InDelta(t, 2.0, h[0], 1e-9, "two oldest evicted")
	assert.InDelta(t, 11.0, h[len(h)-1], 1e-9)
}

func TestMonitor_AverageEmpty(t *testing.T) {
	m := NewMonitor(constFloat(0.3))
	assert.Equal(t, 0.0, m.Average())
}

func TestMonitor_AverageWithinRange(t *testing.T) {
	m := NewMonitor(rand.New(rand.NewPCG(9, 9)))
	for i := 0; i < 500; i++ {
		m.Sample(i)
		avg := m.Average()
		require.GreaterOrEqual(t, avg, 0.0)
		require.LessOrEqual(t, avg, MaxLoad)
	}
}

func TestMonitor_Average(t *testing.T) {
	m := NewMonitor(constFloat(0))
	m.Sample(20) // 10
	m.Sample(40) // 20
	m.Sample(60) // 30
	assert.InDelta(t, 20.0, m.Average(), 1e-9)
}

func TestMonitor_HealthIdempotent(t *testing.T) {
	m := NewMonitor(rand.New(rand.NewPCG(5, 6)))
	for i := 0; i < 7; i++ {
		m.Sample(i * 13)
	}
	h1 := m.Health()
	h2 := m.Health()
	assert.Equal(t, h1, h2)
	assert.Len(t, m.History(), 7, "Health must not sample")
}

func TestDelay(t *testing.T) {
	base := 50 * time.Millisecond
	assert.Equal(t, base, Delay(base, 0))
	assert.Equal(t, 75*time.Millisecond, Delay(base, 25))
	assert.Equal(t, 150*time.Millisecond, Delay(base, 100))
	assert.Equal(t, 62500*time.Microsecond, Delay(base, 12.5))
}
