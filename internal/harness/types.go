package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/meditimer/internal/engine"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when no step or expectation failed.
	Pass bool `json:"pass"`

	// Trace holds one render.Line per applied command.
	Trace []string `json:"trace"`

	// Errors lists every failure.
	Errors []string `json:"errors,omitempty"`

	Final         engine.Snapshot `json:"-"`
	CuePlays      int             `json:"cue_plays"`
	CueStops      int             `json:"cue_stops"`
	Notifications int             `json:"notifications"`
}

// AddError records a failure.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// TraceText joins the trace into golden-file content.
func (r *Result) TraceText() []byte {
	if len(r.Trace) == 0 {
		return nil
	}
	return []byte(strings.Join(r.Trace, "\n") + "\n")
}

