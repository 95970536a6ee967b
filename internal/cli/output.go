package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/meditimer/internal/countdown"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Scenario failure or runtime error
	ExitCommandError = 2 // Command error (bad arguments, unreadable config, missing journal)
)

// Error codes carried in the JSON envelope.
const (
	CodeInvalidDuration = "E_" + string(countdown.ErrCodeInvalidDuration)
	CodeConfig          = "E_CONFIG"
	CodeJournal         = "E_JOURNAL"
	CodeScenarios       = "E_SCENARIOS"
	CodeTestFailed      = "E_TEST_FAILED"
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the JSON envelope every non-interactive command prints
// with --format json.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // payload, also kept on failure when partial
	Error  *CLIError `json:"error,omitempty"` // set when Status is "error"
}

// CLIError is the error half of CLIResponse.
type CLIError struct {
	Code    string `json:"code"` // one of the Code* constants
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// reply writes a command's outcome to stdout. In text mode failures are
// left to main, which prints them once on stderr.
type reply struct {
	json bool
	w    io.Writer
}

func newReply(opts *RootOptions, cmd *cobra.Command) reply {
	return reply{json: opts.Format == "json", w: cmd.OutOrStdout()}
}

// ok prints data as an "ok" envelope, or calls text in text mode.
func (r reply) ok(data any, text func(w io.Writer) error) error {
	if r.json {
		return r.encode(CLIResponse{Status: "ok", Data: data})
	}
	return text(r.w)
}

// fail returns err after printing an "error" envelope in JSON mode.
// details and data may be nil.
func (r reply) fail(code string, err *ExitError, details, data any) error {
	if r.json {
		if encErr := r.encode(CLIResponse{
			Status: "error",
			Data:   data,
			Error:  &CLIError{Code: code, Message: err.Error(), Details: details},
		}); encErr != nil {
			return encErr
		}
	}
	return err
}

func (r reply) encode(resp CLIResponse) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
