package pattern

import "github.com/roach88/glyphloop/internal/ir"

// historyWindow is how many past selections the predictor inspects.
const historyWindow = 3

// IntSource is the subset of *rand.Rand the predictor needs.
type IntSource interface {
	IntN(n int) int
}

// Predictor chooses the category of the next cycle.
//
// Not safe for concurrent use; the session loop is its only caller.
type Predictor struct {
	rng     IntSource
	history []ir.Category
}

// NewPredictor creates a predictor with empty history.
func NewPredictor(rng IntSource) *Predictor {
	return &Predictor{rng: rng}
}

// Next returns the category for the next cycle without recording it.
func (p *Predictor) Next() ir.Category {
	if len(p.history) < historyWindow {
		return ir.Categories[p.rng.IntN(len(ir.Categories))]
	}

	counts := make(map[ir.Category]int, len(ir.Categories))
	for _, c := range p.history[len(p.history)-historyWindow:] {
		counts[c]++
	}

	switch {
	case counts[ir.CategoryWave] >= 2:
		return ir.CategorySpiral
	case counts[ir.CategorySpiral] >= 2:
		return ir.CategoryPulse
	default:
		return ir.CategoryWave
	}
}

// Observe records a selected category.
// Only the last historyWindow entries are retained.
func (p *Predictor) Observe(c ir.Category) {
	p.history = append(p.history, c)
	if len(p.history) > historyWindow {
		p.history = append(p.history[:0], p.history[len(p.history)-historyWindow:]...)
	}
}

// Select is Next followed by Observe.
func (p *Predictor) Select() ir.Category {
	c := p.Next()
	p.Observe(c)
	return c
}

// History returns a copy of the retained selections, oldest first.
func (p *Predictor) History() []ir.Category {
	out := make([]ir.Category, len(p.history))
	copy(out, p.history)
	return out
}
