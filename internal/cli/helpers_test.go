package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/glyphloop/internal/engine"
	"github.com/roach88/glyphloop/internal/store"
	"github.com/roach88/glyphloop/internal/testutil"
)

var testStart = time.Date(2025, 3, 1, 14, 5, 9, 4211000, time.Local)

// runHarness runs the run command with fake time and sleeping.
type runHarness struct {
	out     *bytes.Buffer
	errOut  *bytes.Buffer
	sleeper *testutil.RecordingSleeper
	opts    *RunOptions
}

// newRunHarness isolates the working directory so no glyphloop.yaml or
// default stats file leaks between tests.
func newRunHarness(t *testing.T, format string, ids ...string) *runHarness {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range []string{"GLYPHLOOP_STATS_FILE", "GLYPHLOOP_DB", "GLYPHLOOP_SEED", "GLYPHLOOP_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	if len(ids) == 0 {
		ids = []string{"sess-1"}
	}

	h := &runHarness{
		out:     &bytes.Buffer{},
		errOut:  &bytes.Buffer{},
		sleeper: &testutil.RecordingSleeper{},
	}
	h.opts = &RunOptions{
		RootOptions: &RootOptions{Format: format},
		IDGenerator: engine.NewFixedGenerator(ids...),
		Sleeper:     h.sleeper,
		Clock:       testutil.NewStepClock(testStart, 90*time.Millisecond).Now,
	}
	return h
}

func (h *runHarness) execute(ctx context.Context, args ...string) error {
	cmd := newRunCommand(h.opts)
	cmd.SetOut(h.out)
	cmd.SetErr(h.errOut)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// executeRoot runs a command line through the root command.
func executeRoot(args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// recordedDB runs a bounded session into a fresh database and returns its path.
func recordedDB(t *testing.T, frames string, ids ...string) string {
	t.Helper()
	h := newRunHarness(t, "text", ids...)
	dbPath := filepath.Join(t.TempDir(), "chain.db")
	for range max(1, len(ids)) {
		require.NoError(t, h.execute(context.Background(), "--db", dbPath, "--frames", frames, "--seed", "42"))
	}
	return dbPath
}

func openStore(t *testing.T, path string) *store.Store {
	t.Helper()
	st, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}
