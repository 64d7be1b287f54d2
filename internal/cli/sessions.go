package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/glyphloop/internal/ir"
	"github.com/roach88/glyphloop/internal/store"
)

// SessionsOptions holds flags for the sessions command.
type SessionsOptions struct {
	*RootOptions
	Database string
}

// NewSessionsCommand creates the sessions command.
func NewSessionsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List stored sessions",
		Long: `List the sessions recorded in a chain database, oldest first.

Examples:
  glyphloop sessions --db ./glyphloop.db
  glyphloop sessions --db ./glyphloop.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessions(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runSessions(opts *SessionsOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	sessions, err := st.ListSessions(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list sessions", err)
	}

	if opts.Format == "json" {
		return newFormatter(opts.RootOptions, cmd).Success(sessions)
	}

	w := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions found in database.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-26s  %-26s  %7s\n", "SESSION", "STARTED", "ENDED", "RECORDS")
	for _, s := range sessions {
		fmt.Fprintf(w, "%-36s  %-26s  %-26s  %7d\n", s.ID, ir.FormatTimestamp(s.StartedAt), endedColumn(s), s.RecordCount)
	}
	return nil
}

func endedColumn(s store.SessionInfo) string {
	if !s.Ended() {
		return "(running)"
	}
	return ir.FormatTimestamp(s.EndedAt)
}
