package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/glyphloop/internal/ir"
	"github.com/roach88/glyphloop/internal/load"
	"github.com/roach88/glyphloop/internal/pattern"
)

const (
	// Title is the dashboard heading.
	Title = "ADVANCED PATTERN GENERATION SYSTEM v2.0"

	dashboardWidth = 78
	ruleWidth      = 80
	headerRule     = 60

	clearSequence = "\033[H\033[2J"
)

// Status is the dashboard content.
type Status struct {
	Runtime     time.Duration
	Cycles      int
	Patterns    int
	Chars       int
	Load        float64
	Health      load.Health
	ChainLength int
	LastHash    string // empty before the first frame
}

// Summary is printed once at shutdown.
type Summary struct {
	Runtime     time.Duration
	Cycles      int
	Patterns    int
	Chars       int
	ChainLength int
	AvgLoad     float64
	StatsPath   string
}

// Console writes the animation to w.
// Not safe for concurrent use.
type Console struct {
	w      io.Writer
	styles Styles
	tty    bool
	num    *message.Printer
}

// New creates a console on w.
// The screen is only cleared when w is a terminal.
func New(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	return &Console{
		w:      w,
		styles: NewStyles(r),
		tty:    isTerminal(w),
		num:    message.NewPrinter(language.English),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Clear wipes the screen on a terminal; a no-op otherwise.
func (c *Console) Clear() {
	if c.tty {
		fmt.Fprint(c.w, clearSequence)
	}
}

// Dashboard clears the screen and draws the status box.
func (c *Console) Dashboard(s Status) {
	c.Clear()
	st := c.styles

	lastHash := s.LastHash
	if lastHash == "" {
		lastHash = "N/A"
	}

	lines := []string{
		st.Title.Render(Title),
		strings.Repeat("═", dashboardWidth-2),
		fmt.Sprintf("Runtime: %s | Cycles: %s | Patterns: %s | Chars: %s",
			st.Success.Render(fmt.Sprintf("%.1fs", s.Runtime.Seconds())),
			st.Warning.Render(fmt.Sprint(s.Cycles)),
			st.Count.Render(fmt.Sprint(s.Patterns)),
			st.Chars.Render(fmt.Sprint(s.Chars)),
		),
		fmt.Sprintf("System Load: %.1f%% | Status: %s %s",
			s.Load,
			st.Health(s.Health.Level).Render(s.Health.Level.String()),
			s.Health.Bar,
		),
		fmt.Sprintf("Chain Length: %s blocks | Last Hash: %s",
			st.Success.Render(fmt.Sprint(s.ChainLength)),
			st.Muted.Render(fmt.Sprintf("%-16s", lastHash)),
		),
	}
	fmt.Fprintln(c.w, st.Dashboard.Width(dashboardWidth).Render(strings.Join(lines, "\n")))
	fmt.Fprintln(c.w)
}

// Starting prints the init banner line.
func (c *Console) Starting() {
	fmt.Fprintln(c.w, c.styles.Warning.Render("[INIT] Starting AI Pattern Generator..."))
}

// Ready prints the ready banner line.
func (c *Console) Ready() {
	fmt.Fprintln(c.w, c.styles.Success.Render("[READY] System online. Press Ctrl+C to stop"))
	fmt.Fprintln(c.w)
}

// CycleHeader announces the category chosen for a cycle.
func (c *Console) CycleHeader(cycle int, cat ir.Category) {
	fmt.Fprintln(c.w)
	fmt.Fprintf(c.w, "%s %s\n",
		c.styles.Bold.Render(fmt.Sprintf("[CYCLE %03d] AI Selected:", cycle)),
		c.styles.Accent.Bold(true).Render(string(cat)),
	)
	fmt.Fprintln(c.w, c.styles.Muted.Render(strings.Repeat("─", headerRule)))
}

// Frame prints one rendered pattern.
func (c *Console) Frame(phase pattern.Phase, cat ir.Category, text string) {
	fmt.Fprintln(c.w, c.styles.Frame(phase, cat).Render(text))
}

// Shutdown prints the line shown before the snapshot is saved.
func (c *Console) Shutdown() {
	fmt.Fprintln(c.w)
	fmt.Fprintln(c.w)
	fmt.Fprintln(c.w, c.styles.Rule.Render(strings.Repeat("═", ruleWidth)))
	fmt.Fprintln(c.w, c.styles.Bold.Render("[SHUTDOWN] Saving session data..."))
}

// Summary prints the end-of-session totals.
func (c *Console) Summary(s Summary) {
	st := c.styles
	row := func(label, value string) {
		fmt.Fprintf(c.w, "%s %s\n", st.Success.Render(fmt.Sprintf("%-18s", label+":")), st.Bold.Render(value))
	}

	fmt.Fprintln(c.w, st.Rule.Render(strings.Repeat("═", ruleWidth)))
	row("Total Runtime", fmt.Sprintf("%.2fs", s.Runtime.Seconds()))
	row("Total Cycles", fmt.Sprint(s.Cycles))
	row("Total Patterns", fmt.Sprint(s.Patterns))
	row("Total Characters", c.num.Sprintf("%d", s.Chars))
	row("Blockchain Length", fmt.Sprintf("%d blocks", s.ChainLength))
	row("Average Load", fmt.Sprintf("%.1f%%", s.AvgLoad))
	row("Stats Saved", s.StatsPath)
	fmt.Fprintln(c.w, st.Rule.Render(strings.Repeat("═", ruleWidth)))
	fmt.Fprintln(c.w)
}
