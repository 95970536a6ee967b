package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestFormatCommand_Text(t *testing.T) {
	out, err := executeRoot(t, "format", "300", "59", "3661", "2.9")
	require.NoError(t, err)
	assert.Equal(t, "05:00\n00:59\n61:01\n00:02\n", out)
}

func TestFormatCommand_JSON(t *testing.T) {
	out, err := executeRoot(t, "format", "90", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string              `json:"status"`
		Data   []FormattedDuration `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, FormattedDuration{Input: "90", Seconds: 90, Display: "01:30"}, resp.Data[0])
}

func TestFormatCommand_Invalid(t *testing.T) {
	tests := []string{"0", "-1", "abc", ""}

	for _, arg := range tests {
		t.Run(arg, func(t *testing.T) {
			out, err := executeRoot(t, "format", arg)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), "invalid duration")
			// main prints the error; the command itself stays quiet.
			assert.Empty(t, out)
		})
	}
}

func TestFormatCommand_InvalidJSON(t *testing.T) {
	out, err := executeRoot(t, "format", "90", "abc", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidDuration, resp.Error.Code)
	assert.Equal(t, map[string]any{"input": "abc"}, resp.Error.Details)
}

func TestFormatCommand_SubSecondRoundsUp(t *testing.T) {
	out, err := executeRoot(t, "format", "0.5")
	require.NoError(t, err)
	assert.Equal(t, "00:01\n", out)
}

func TestFormatCommand_RequiresArgument(t *testing.T) {
	_, err := executeRoot(t, "format")
	require.Error(t, err)
}
