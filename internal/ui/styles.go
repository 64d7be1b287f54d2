// Package ui renders the glyphloop console: dashboard, frames and the
// shutdown summary.
//
// Styles are bound to the output writer through a lipgloss renderer, so
// output to a pipe or buffer carries no escape codes.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/glyphloop/internal/ir"
	"github.com/roach88/glyphloop/internal/load"
	"github.com/roach88/glyphloop/internal/pattern"
)

// Palette - bright ANSI colours
var (
	ColorPurple = lipgloss.Color("13")
	ColorCyan   = lipgloss.Color("14")
	ColorBlue   = lipgloss.Color("12")
	ColorGreen  = lipgloss.Color("10")
	ColorYellow = lipgloss.Color("11")
	ColorRed    = lipgloss.Color("9")
)

// Styles holds the pre-configured styles for one renderer.
type Styles struct {
	Title   lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Accent  lipgloss.Style
	Count   lipgloss.Style
	Chars   lipgloss.Style

	Dashboard lipgloss.Style
	Rule      lipgloss.Style

	ascending  map[ir.Category]lipgloss.Style
	descending map[ir.Category]lipgloss.Style
	health     map[load.Level]lipgloss.Style
}

// NewStyles builds the style set on r.
func NewStyles(r *lipgloss.Renderer) Styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return r.NewStyle().Foreground(c) }

	return Styles{
		Title:   r.NewStyle().Bold(true),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Faint(true),
		Success: fg(ColorGreen),
		Warning: fg(ColorYellow),
		Error:   fg(ColorRed),
		Accent:  fg(ColorCyan),
		Count:   fg(ColorPurple),
		Chars:   fg(ColorBlue),

		Dashboard: r.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorCyan).
			Padding(0, 1),
		Rule: r.NewStyle().Bold(true).Foreground(ColorRed),

		ascending: map[ir.Category]lipgloss.Style{
			ir.CategoryWave:   fg(ColorCyan),
			ir.CategoryPulse:  fg(ColorPurple),
			ir.CategorySpiral: fg(ColorGreen),
		},
		descending: map[ir.Category]lipgloss.Style{
			ir.CategoryWave:   fg(ColorBlue),
			ir.CategoryPulse:  fg(ColorYellow),
			ir.CategorySpiral: fg(ColorRed),
		},
		health: map[load.Level]lipgloss.Style{
			load.LevelOptimal:  fg(ColorGreen),
			load.LevelGood:     fg(ColorYellow),
			load.LevelModerate: fg(ColorYellow),
			load.LevelHigh:     fg(ColorRed),
		},
	}
}

// Frame returns the style for a frame of category c in phase p.
func (s Styles) Frame(p pattern.Phase, c ir.Category) lipgloss.Style {
	m := s.ascending
	if p == pattern.PhaseDescending {
		m = s.descending
	}
	if st, ok := m[c]; ok {
		return st
	}
	return m[ir.CategorySpiral]
}

// Health returns the style for a health level.
func (s Styles) Health(l load.Level) lipgloss.Style {
	return s.health[l]
}
