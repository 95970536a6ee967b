package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/meditimer/internal/engine"
	"github.com/roach88/meditimer/internal/journal"
)

func seedJournal(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	j, err := journal.Open(path)
	require.NoError(t, err)
	defer j.Close()

	at := time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)
	entries := []engine.Entry{
		{Seq: 1, SessionID: "s-1", Command: "set", Input: "2", Remaining: 2, Phase: "idle", At: at},
		{Seq: 2, SessionID: "s-1", Command: "start", Remaining: 2, Phase: "running", At: at.Add(time.Second)},
		{Seq: 3, SessionID: "s-1", Command: "tick", Remaining: 1, Phase: "running", At: at.Add(2 * time.Second)},
		{Seq: 4, SessionID: "s-1", Command: "tick", Remaining: 0, Phase: "finished", At: at.Add(3 * time.Second)},
		{Seq: 5, SessionID: "s-2", Command: "set", Input: "600", Remaining: 600, Phase: "idle", At: at.Add(time.Minute)},
	}
	for _, e := range entries {
		require.NoError(t, j.Record(context.Background(), e))
	}
	return path
}

func TestHistoryCommand_JSON(t *testing.T) {
	db := seedJournal(t)

	out, err := executeRoot(t, "history", "--db", db, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   []SessionView `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)

	assert.Equal(t, "s-1", resp.Data[0].ID)
	assert.Equal(t, "00:02", resp.Data[0].Display)
	assert.Equal(t, 4, resp.Data[0].Commands)
	assert.True(t, resp.Data[0].Finished)

	assert.Equal(t, "s-2", resp.Data[1].ID)
	assert.Equal(t, "10:00", resp.Data[1].Display)
	assert.False(t, resp.Data[1].Finished)
}

func TestHistoryCommand_Text(t *testing.T) {
	db := seedJournal(t)

	out, err := executeRoot(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "STARTED")
	assert.Contains(t, out, "s-1")
	assert.Contains(t, out, "yes")
}

func TestHistoryCommand_Empty(t *testing.T) {
	out, err := executeRoot(t, "history", "--db", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions recorded.")
}

func TestHistoryCommand_NoJournalConfigured(t *testing.T) {
	cfg := writeConfig(t, "title: quiet\n")

	_, err := executeRoot(t, "history", "--config", cfg)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no journal configured")
}

func TestHistoryCommand_NoJournalConfiguredJSON(t *testing.T) {
	cfg := writeConfig(t, "title: quiet\n")

	out, err := executeRoot(t, "history", "--config", cfg, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeJournal, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "no journal configured")
}

func TestHistoryCommand_BadConfigJSON(t *testing.T) {
	cfg := writeConfig(t, "titel: typo\n")

	out, err := executeRoot(t, "history", "--config", cfg, "--format", "json")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeConfig, resp.Error.Code)
}

func TestHistoryCommand_TextFailurePrintsNothing(t *testing.T) {
	cfg := writeConfig(t, "title: quiet\n")

	out, err := executeRoot(t, "history", "--config", cfg)
	require.Error(t, err)
	assert.Empty(t, out)
}
