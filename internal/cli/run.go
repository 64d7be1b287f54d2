package cli

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/glyphloop/internal/chain"
	"github.com/roach88/glyphloop/internal/config"
	"github.com/roach88/glyphloop/internal/engine"
	"github.com/roach88/glyphloop/internal/load"
	"github.com/roach88/glyphloop/internal/pattern"
	"github.com/roach88/glyphloop/internal/report"
	"github.com/roach88/glyphloop/internal/store"
	"github.com/roach88/glyphloop/internal/ui"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	ConfigPath string
	StatsFile  string
	Database   string
	Frames     int
	Seed       uint64

	// IDGenerator allows overriding the session ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator engine.SessionIDGenerator

	// Sleeper replaces real sleeping (for testing). Startup pauses go
	// through it too.
	Sleeper engine.Sleeper

	// Clock replaces time.Now (for testing).
	Clock func() time.Time
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the pattern animation",
		Long: `Start the glyph pattern animation.

The loop runs until interrupted with Ctrl-C (or until --frames frames have
been drawn). On shutdown a stats snapshot is written to the stats file. With
--db every chain record is also persisted to SQLite for later verification.

Settings are read from defaults, then the config file (--config, or
./glyphloop.yaml if present), then GLYPHLOOP_* environment variables, then
flags.

With --format json the animation is drawn on stderr and stdout receives
only the final stats snapshot as a JSON response.

Example:
  glyphloop run
  glyphloop run --db ./glyphloop.db --seed 42
  glyphloop run --frames 48 --stats /tmp/stats.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.Flags().StringVar(&opts.StatsFile, "stats", report.DefaultPath, "path of the JSON stats file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "persist the chain to this SQLite database")
	cmd.Flags().IntVar(&opts.Frames, "frames", 0, "stop after N frames (0 runs until interrupted)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (0 picks one from the clock)")

	return cmd
}

// resolveConfig loads the layered config and applies explicitly set flags.
func resolveConfig(opts *RunOptions, cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("stats") {
		cfg.StatsFile = opts.StatsFile
	}
	if flags.Changed("db") {
		cfg.DBPath = opts.Database
	}
	if flags.Changed("frames") {
		cfg.MaxFrames = opts.Frames
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.Seed
	}
	if opts.Verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging(level string) {
	logLevel := slog.LevelInfo
	if level == "debug" {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

func runSession(opts *RunOptions, cmd *cobra.Command) error {
	cfg, err := resolveConfig(opts, cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	setupLogging(cfg.Logging.Level)

	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>32|0x5eed))

	idGen := opts.IDGenerator
	if idGen == nil {
		idGen = engine.UUIDv7Generator{}
	}
	sessionID := idGen.Generate()

	// With --format json stdout carries only the final response.
	screen := cmd.OutOrStdout()
	if opts.Format == "json" {
		screen = cmd.ErrOrStderr()
	}
	console := ui.New(screen)
	log := chain.New(now)
	engineOpts := []engine.EngineOption{
		engine.WithClock(now),
		engine.WithFrameDelay(cfg.FrameDelay),
		engine.WithDashboardEvery(cfg.DashboardEvery),
		engine.WithMaxFrames(cfg.MaxFrames),
	}
	if opts.Sleeper != nil {
		engineOpts = append(engineOpts, engine.WithSleeper(opts.Sleeper))
	}

	var st *store.Store
	if cfg.DBPath != "" {
		slog.Info("opening database", "path", cfg.DBPath)
		st, err = store.Open(cfg.DBPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		engineOpts = append(engineOpts, engine.WithSink(st))
	}

	eng := engine.New(sessionID, pattern.NewPredictor(rng), load.NewMonitor(rng), log, console, engineOpts...)

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	if st != nil {
		if err := st.BeginSession(ctx, sessionID, eng.Session().Start, seed); err != nil {
			return WrapExitError(ExitCommandError, "failed to record session", err)
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	slog.Info("session configured", "session", sessionID, "seed", seed,
		"stats", cfg.StatsFile, "db", cfg.DBPath, "max_frames", cfg.MaxFrames)
	runErr := eng.Run(ctx)

	return shutdown(opts, cmd, cfg, eng, console, st, now(), runErr)
}

// shutdown writes the snapshot, closes the stored session and prints the
// summary. It runs once, after the loop has returned for any reason.
func shutdown(
	opts *RunOptions,
	cmd *cobra.Command,
	cfg *config.Config,
	eng *engine.Engine,
	console *ui.Console,
	st *store.Store,
	end time.Time,
	runErr error,
) error {
	console.Shutdown()

	snap := eng.Snapshot(end)
	if err := report.Write(cfg.StatsFile, snap); err != nil {
		return WrapExitError(ExitCommandError, "failed to save stats", err)
	}
	slog.Info("stats saved", "path", cfg.StatsFile)

	session := eng.Session()
	if st != nil {
		data, err := report.Marshal(snap)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to encode stats", err)
		}
		if err := st.EndSession(context.Background(), session.ID, end, data); err != nil {
			return WrapExitError(ExitCommandError, "failed to close session", err)
		}
	}

	if opts.Format == "json" {
		f := newFormatter(opts.RootOptions, cmd)
		if err := f.Success(snap); err != nil {
			return err
		}
	} else {
		console.Summary(ui.Summary{
			Runtime:     end.Sub(session.Start),
			Cycles:      session.Cycles,
			Patterns:    session.Patterns,
			Chars:       session.Chars,
			ChainLength: snap.ChainLength,
			AvgLoad:     snap.AvgLoad,
			StatsPath:   cfg.StatsFile,
		})
	}

	if runErr != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("session %s aborted", session.ID), runErr)
	}
	return nil
}
