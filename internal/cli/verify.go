package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/glyphloop/internal/chain"
	"github.com/roach88/glyphloop/internal/report"
	"github.com/roach88/glyphloop/internal/store"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Database string
	Session  string // optional - latest session when empty
	Stats    string // optional - stats file to cross-check
}

// VerifyResult is the outcome of verifying one stored chain.
type VerifyResult struct {
	Session  string `json:"session"`
	Records  int    `json:"records"`
	Valid    bool   `json:"valid"`
	LastHash string `json:"last_hash,omitempty"`
	Failure  string `json:"failure,omitempty"`
	FailedAt *int   `json:"failed_at,omitempty"`
	Stats    string `json:"stats,omitempty"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a persisted hash chain",
		Long: `Re-read a session's chain records and check every link.

Each record's hash is recomputed from its category, length, previous hash and
timestamp, and each prev_hash must equal the hash of the record before it.

With --stats the snapshot's chain_length and last_hash must also match the
stored chain. Without --session the session is then located by last_hash.

Exit codes:
  0 - Chain is intact
  1 - Chain verification failed
  2 - Command error (database not found, unknown session, etc.)

Examples:
  glyphloop verify --db ./glyphloop.db
  glyphloop verify --db ./glyphloop.db --session 0190d6f2-...
  glyphloop verify --db ./glyphloop.db --stats system_stats.json
  glyphloop verify --db ./glyphloop.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "verify this session (default: latest)")
	cmd.Flags().StringVar(&opts.Stats, "stats", "", "cross-check this stats file against the chain")

	return cmd
}

// openExisting opens a database that must already exist. store.Open would
// otherwise create an empty one.
func openExisting(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func runVerify(opts *VerifyOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd)

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	var snap *report.Snapshot
	if opts.Stats != "" {
		s, err := report.Read(opts.Stats)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read stats", err)
		}
		snap = &s
	}

	info, err := selectSession(ctx, st, opts.Session, snap)
	if errors.Is(err, store.ErrSessionNotFound) {
		if opts.Format == "json" {
			_ = f.Error(ErrCodeNoSessions, "no matching session in database", opts.Session)
		}
		return WrapExitError(ExitCommandError, "session not found", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}
	f.VerboseLog("verifying session %s (%d records)", info.ID, info.RecordCount)

	records, err := st.ReadRecords(ctx, info.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read records", err)
	}

	result := VerifyResult{Session: info.ID, Records: len(records), Valid: true}
	if n := len(records); n > 0 {
		result.LastHash = records[n-1].Hash
	}

	verr := chain.Verify(records)
	if verr != nil {
		result.Valid = false
		result.Failure = verr.Error()
		var ve *chain.VerificationError
		if errors.As(verr, &ve) {
			result.FailedAt = &ve.Index
		}
	} else if snap != nil {
		result.Stats = opts.Stats
		if msg := statsMismatch(*snap, result); msg != "" {
			result.Valid = false
			result.Failure = msg
		}
	}

	if opts.Format == "json" {
		return outputVerifyJSON(f, result)
	}
	return outputVerifyText(cmd, result)
}

// selectSession picks the session to verify: the named one, else the one
// holding the snapshot's last hash, else the latest.
func selectSession(ctx context.Context, st *store.Store, id string, snap *report.Snapshot) (store.SessionInfo, error) {
	if id != "" {
		return st.ReadSession(ctx, id)
	}
	if snap != nil && snap.LastHash != nil {
		locs, err := st.FindRecordsByHash(ctx, *snap.LastHash)
		if err != nil {
			return store.SessionInfo{}, err
		}
		if len(locs) == 0 {
			return store.SessionInfo{}, fmt.Errorf("last_hash %s: %w", *snap.LastHash, store.ErrSessionNotFound)
		}
		return st.ReadSession(ctx, locs[len(locs)-1].SessionID)
	}
	return st.LatestSession(ctx)
}

// statsMismatch describes how a snapshot disagrees with a verified chain, or
// returns "" when it matches.
func statsMismatch(snap report.Snapshot, result VerifyResult) string {
	if snap.ChainLength != result.Records {
		return fmt.Sprintf("stats chain_length %d does not match %d stored records", snap.ChainLength, result.Records)
	}
	last := ""
	if snap.LastHash != nil {
		last = *snap.LastHash
	}
	if last != result.LastHash {
		return fmt.Sprintf("stats last_hash %q does not match stored chain head %q", last, result.LastHash)
	}
	return ""
}

func outputVerifyJSON(f *OutputFormatter, result VerifyResult) error {
	response := CLIResponse{
		Status:  "ok",
		Data:    result,
		Session: result.Session,
	}
	if !result.Valid {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeChainBroken,
			Message: result.Failure,
		}
	}
	if err := f.encode(response); err != nil {
		return err
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "chain verification failed")
	}
	return nil
}

func outputVerifyText(cmd *cobra.Command, result VerifyResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Session: %s\n", result.Session)
	fmt.Fprintf(w, "Records: %d\n", result.Records)
	if result.LastHash != "" {
		fmt.Fprintf(w, "Last hash: %s\n", result.LastHash)
	}
	if result.Stats != "" {
		fmt.Fprintf(w, "Stats: %s\n", result.Stats)
	}
	fmt.Fprintln(w)

	if result.Valid {
		fmt.Fprintln(w, "✓ Chain verified")
		return nil
	}

	fmt.Fprintf(w, "✗ %s\n", result.Failure)
	return NewExitError(ExitFailure, "chain verification failed")
}
