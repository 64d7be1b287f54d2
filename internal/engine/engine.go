package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/glyphloop/internal/chain"
	"github.com/roach88/glyphloop/internal/ir"
	"github.com/roach88/glyphloop/internal/load"
	"github.com/roach88/glyphloop/internal/pattern"
	"github.com/roach88/glyphloop/internal/report"
	"github.com/roach88/glyphloop/internal/ui"
)

// Display is where the loop draws. Implemented by *ui.Console.
type Display interface {
	Dashboard(ui.Status)
	Starting()
	Ready()
	CycleHeader(cycle int, c ir.Category)
	Frame(phase pattern.Phase, c ir.Category, text string)
}

// RecordSink persists chain records as they are appended.
// Implemented by *store.Store.
type RecordSink interface {
	WriteRecord(ctx context.Context, sessionID string, rec ir.Record) error
}

// Sleeper suspends the loop between frames.
// It returns ctx.Err() if the context ends first.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

const (
	DefaultFrameDelay     = 50 * time.Millisecond
	DefaultDashboardEvery = 3
	DefaultStartupPause   = time.Second
)

// Engine runs one animation session.
//
// Run must be called from exactly one goroutine, once.
type Engine struct {
	predictor *pattern.Predictor
	monitor   *load.Monitor
	log       *chain.Log
	display   Display
	sink      RecordSink
	sleeper   Sleeper
	now       func() time.Time

	frameDelay     time.Duration
	dashboardEvery int
	startupPause   time.Duration
	maxFrames      int

	session Session
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithSink persists every record to s.
func WithSink(s RecordSink) EngineOption {
	return func(e *Engine) { e.sink = s }
}

// WithSleeper replaces the timer-based sleeper.
func WithSleeper(s Sleeper) EngineOption {
	return func(e *Engine) { e.sleeper = s }
}

// WithClock replaces time.Now for session timing.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithFrameDelay sets the base sleep per frame (default 50ms).
func WithFrameDelay(d time.Duration) EngineOption {
	return func(e *Engine) { e.frameDelay = d }
}

// WithDashboardEvery redraws the dashboard every n cycles (default 3).
func WithDashboardEvery(n int) EngineOption {
	return func(e *Engine) { e.dashboardEvery = n }
}

// WithStartupPause sets the pause after each startup banner (default 1s).
func WithStartupPause(d time.Duration) EngineOption {
	return func(e *Engine) { e.startupPause = d }
}

// WithMaxFrames stops Run after n frames. 0 means run until cancelled.
func WithMaxFrames(n int) EngineOption {
	return func(e *Engine) { e.maxFrames = n }
}

// New creates an Engine for a session.
//
// The chain log should share the engine's clock so record timestamps and
// session timing agree; the CLI builds both from the same source.
func New(
	sessionID string,
	predictor *pattern.Predictor,
	monitor *load.Monitor,
	log *chain.Log,
	display Display,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		predictor:      predictor,
		monitor:        monitor,
		log:            log,
		display:        display,
		sleeper:        TimerSleeper{},
		now:            time.Now,
		frameDelay:     DefaultFrameDelay,
		dashboardEvery: DefaultDashboardEvery,
		startupPause:   DefaultStartupPause,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.dashboardEvery < 1 {
		e.dashboardEvery = DefaultDashboardEvery
	}

	e.session = Session{ID: sessionID, Start: e.now()}
	return e
}

// Session returns a copy of the current counters.
func (e *Engine) Session() Session {
	return e.session
}

// Snapshot builds the stats snapshot for the session ending at end.
func (e *Engine) Snapshot(end time.Time) report.Snapshot {
	return report.Build(e.session.Counters(), e.monitor, e.log, end)
}

// Run draws the startup screen and loops over cycles until ctx is cancelled
// or the frame limit is reached. Both end with a nil error. A failing sink
// write ends the run with a *FrameError.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("session starting", "session", e.session.ID)

	e.drawDashboard()
	e.display.Starting()
	if e.pause(ctx, e.startupPause) {
		return e.stopped("cancelled during startup")
	}
	e.display.Ready()
	if e.pause(ctx, e.startupPause) {
		return e.stopped("cancelled during startup")
	}

	for {
		if ctx.Err() != nil {
			return e.stopped("context cancelled")
		}

		e.session.Cycles++
		if e.session.Cycles%e.dashboardEvery == 0 {
			e.drawDashboard()
		}

		category := e.predictor.Select()
		e.display.CycleHeader(e.session.Cycles, category)
		slog.Debug("cycle started", "cycle", e.session.Cycles, "category", category)

		for _, step := range pattern.Sequence() {
			done, err := e.frame(ctx, category, step)
			if err != nil {
				return err
			}
			if done {
				return e.stopped("frame limit reached")
			}
		}
	}
}

// frame renders and records one step. It reports done when the loop should
// stop after this frame.
func (e *Engine) frame(ctx context.Context, category ir.Category, step pattern.Step) (bool, error) {
	text := pattern.Render(category, step.Size)
	e.display.Frame(step.Phase, category, text)

	length := pattern.Length(text)
	rec := e.log.Append(category, length)
	// Counters track the chain, so they move with Append even if the
	// sink write below fails.
	e.session.Patterns++
	e.session.Chars += length
	if e.sink != nil {
		// A started frame always completes; cancellation is observed at the sleep.
		if err := e.sink.WriteRecord(context.WithoutCancel(ctx), e.session.ID, rec); err != nil {
			return false, &FrameError{Index: rec.Index, Err: err}
		}
	}
	slog.Debug("record appended", "index", rec.Index, "category", category, "length", length, "hash", rec.Hash)

	current := e.monitor.Sample(e.session.Patterns)
	if e.maxFrames > 0 && e.session.Patterns >= e.maxFrames {
		return true, nil
	}
	if e.pause(ctx, load.Delay(e.frameDelay, current)) {
		return true, nil
	}
	return false, nil
}

// pause sleeps for d and reports whether the loop was interrupted.
func (e *Engine) pause(ctx context.Context, d time.Duration) bool {
	if err := e.sleeper.Sleep(ctx, d); err != nil {
		return true
	}
	return ctx.Err() != nil
}

// drawDashboard samples the load, as every redraw does, and shows the status.
func (e *Engine) drawDashboard() {
	current := e.monitor.Sample(e.session.Patterns)
	st := ui.Status{
		Runtime:     e.now().Sub(e.session.Start),
		Cycles:      e.session.Cycles,
		Patterns:    e.session.Patterns,
		Chars:       e.session.Chars,
		Load:        current,
		Health:      e.monitor.Health(),
		ChainLength: e.log.Len(),
	}
	if rec, ok := e.log.Last(); ok {
		st.LastHash = rec.Hash
	}
	e.display.Dashboard(st)
}

func (e *Engine) stopped(reason string) error {
	slog.Info("session stopped", "session", e.session.ID, "reason", reason,
		"cycles", e.session.Cycles, "patterns", e.session.Patterns)
	return nil
}
