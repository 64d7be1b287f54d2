package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/glyphloop/internal/report"
)

func TestVerifyIntactChain(t *testing.T) {
	dbPath := recordedDB(t, "48")

	out, err := executeRoot("verify", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Session: sess-1")
	assert.Contains(t, out, "Records: 48")
	assert.Contains(t, out, "✓ Chain verified")
}

func TestVerifyDefaultsToLatestSession(t *testing.T) {
	dbPath := recordedDB(t, "10", "sess-1", "sess-2")

	out, err := executeRoot("verify", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Session: sess-2")

	out, err = executeRoot("verify", "--db", dbPath, "--session", "sess-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Session: sess-1")
}

func TestVerifyTamperedChain(t *testing.T) {
	dbPath := recordedDB(t, "20")

	st := openStore(t, dbPath)
	_, err := st.DB().ExecContext(context.Background(),
		`UPDATE chain_records SET length = length + 1 WHERE session_id = ? AND idx = 3`, "sess-1")
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := executeRoot("verify", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ chain broken at record 3: hash does not match record content")
}

func TestVerifyBrokenLinkJSON(t *testing.T) {
	dbPath := recordedDB(t, "20")

	st := openStore(t, dbPath)
	_, err := st.DB().ExecContext(context.Background(),
		`UPDATE chain_records SET prev_hash = '0000000000000000' WHERE session_id = ? AND idx = 7`, "sess-1")
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := executeRoot("--format", "json", "verify", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status  string       `json:"status"`
		Session string       `json:"session"`
		Data    VerifyResult `json:"data"`
		Error   *CLIError    `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "sess-1", resp.Session)
	assert.False(t, resp.Data.Valid)
	require.NotNil(t, resp.Data.FailedAt)
	assert.Equal(t, 7, *resp.Data.FailedAt)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeChainBroken, resp.Error.Code)
}

func TestVerifyJSONSuccess(t *testing.T) {
	dbPath := recordedDB(t, "14")

	out, err := executeRoot("--format", "json", "verify", "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   VerifyResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 14, resp.Data.Records)
	assert.Len(t, resp.Data.LastHash, 16)
	assert.Nil(t, resp.Data.FailedAt)
}

func TestVerifyMissingDatabase(t *testing.T) {
	_, err := executeRoot("verify", "--db", filepath.Join(t.TempDir(), "absent.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
}

func TestVerifyMissingDatabaseFlag(t *testing.T) {
	_, err := executeRoot("verify")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestVerifyUnknownSession(t *testing.T) {
	dbPath := recordedDB(t, "5")

	_, err := executeRoot("verify", "--db", dbPath, "--session", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "session not found")
}

func TestVerifyEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	openStore(t, dbPath)

	_, err := executeRoot("verify", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestVerifyStatsLocatesSession(t *testing.T) {
	h := newRunHarness(t, "text", "sess-1", "sess-2")
	dbPath := filepath.Join(t.TempDir(), "chain.db")
	ctx := context.Background()
	require.NoError(t, h.execute(ctx, "--db", dbPath, "--frames", "16", "--stats", "first.json"))
	require.NoError(t, h.execute(ctx, "--db", dbPath, "--frames", "9", "--stats", "second.json"))

	out, err := executeRoot("verify", "--db", dbPath, "--stats", "first.json")
	require.NoError(t, err)
	assert.Contains(t, out, "Session: sess-1")
	assert.Contains(t, out, "Records: 16")
	assert.Contains(t, out, "Stats: first.json")
	assert.Contains(t, out, "✓ Chain verified")
}

func TestVerifyStatsMismatch(t *testing.T) {
	dbPath := recordedDB(t, "16")

	snap, err := report.Read(report.DefaultPath)
	require.NoError(t, err)
	snap.ChainLength = 15
	require.NoError(t, report.Write("edited.json", snap))

	out, err := executeRoot("verify", "--db", dbPath, "--stats", "edited.json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "stats chain_length 15 does not match 16 stored records")
}

func TestVerifyStatsUnknownHash(t *testing.T) {
	dbPath := recordedDB(t, "4")

	snap, err := report.Read(report.DefaultPath)
	require.NoError(t, err)
	unknown := "ffffffffffffffff"
	snap.LastHash = &unknown
	require.NoError(t, report.Write("foreign.json", snap))

	_, err = executeRoot("verify", "--db", dbPath, "--stats", "foreign.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestVerifyStatsMissingFile(t *testing.T) {
	dbPath := recordedDB(t, "4")

	_, err := executeRoot("verify", "--db", dbPath, "--stats", "absent.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to read stats")
}
