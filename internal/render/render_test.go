package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/meditimer/internal/countdown"
	"github.com/roach88/meditimer/internal/engine"
)

func snapshot(cmd engine.CommandKind, seq int64, s countdown.State) engine.Snapshot {
	return engine.Snapshot{Seq: seq, Command: cmd, State: s}
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestTerminal_Golden(t *testing.T) {
	var buf bytes.Buffer
	term := &Terminal{
		W:        &buf,
		Title:    "SUFI GUIDANCE™ TIMED MEDITATION",
		Image:    "sufi-guidance.jpg",
		Link:     "https://example.com/channel",
		LinkText: "Visit our YouTube channel:",
		NoColor:  true,
	}

	term.Render(snapshot(engine.CmdSetDuration, 1, countdown.State{Configured: 300, HasConfigured: true, Remaining: 300}))
	term.Render(snapshot(engine.CmdTick, 2, countdown.State{Configured: 300, HasConfigured: true, Remaining: 299, Running: true, Alert: true}))

	newGoldie(t).Assert(t, "terminal", buf.Bytes())
}

func TestTerminal_ClearAndColor(t *testing.T) {
	var buf bytes.Buffer
	term := &Terminal{W: &buf, Clear: true}

	s := snapshot(engine.CmdStart, 1, countdown.State{HasConfigured: true, Configured: 5, Remaining: 5, Running: true, Alert: true})
	term.Render(s)
	assert.True(t, strings.HasPrefix(buf.String(), clearScreen))
	assert.Contains(t, buf.String(), "\x1b[", "colors are forced on")

	bold := buf.String()
	buf.Reset()
	s.Pulse = 1
	term.Render(s)
	assert.NotEqual(t, bold, buf.String(), "odd pulses use a different treatment")
}

func TestTerminal_NoColorHasNoEscapes(t *testing.T) {
	var buf bytes.Buffer
	term := &Terminal{W: &buf, NoColor: true, Link: "https://example.com", LinkText: "More sits:"}
	term.Render(snapshot(engine.CmdTick, 1, countdown.State{HasConfigured: true, Configured: 5}))

	assert.NotContains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "    finished\n")
	assert.Contains(t, buf.String(), "More sits: https://example.com")
}

func TestLine(t *testing.T) {
	tests := []struct {
		name string
		snap engine.Snapshot
		want string
	}{
		{
			name: "initial",
			snap: engine.Snapshot{},
			want: "000 init  idle      00:00",
		},
		{
			name: "running with alert",
			snap: snapshot(engine.CmdTick, 3, countdown.State{HasConfigured: true, Configured: 300, Remaining: 298, Running: true, Alert: true}),
			want: "003 tick  running*  04:58",
		},
		{
			name: "rejected",
			snap: engine.Snapshot{Seq: 2, Command: engine.CmdSetDuration, Err: &countdown.ValidationError{Code: countdown.ErrCodeInvalidDuration, Message: "nope"}},
			want: "002 set   idle      00:00 ! nope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Line(tt.snap))
		})
	}
}

func TestPlain(t *testing.T) {
	var buf bytes.Buffer
	p := &Plain{W: &buf}
	p.Render(snapshot(engine.CmdPause, 7, countdown.State{HasConfigured: true, Configured: 60, Remaining: 42, Paused: true, Alert: true}))
	assert.Equal(t, "007 pause paused*   00:42\n", buf.String())
}

func TestNotice(t *testing.T) {
	var buf bytes.Buffer
	n := Notice{W: &buf}
	n.Notify(nil)
	n.Notify(&countdown.ValidationError{Code: countdown.ErrCodeInvalidDuration, Message: "duration must be positive"})
	n.Notify(errors.New("other"))
	assert.Equal(t, "\a! duration must be positive\n\a! other\n", buf.String())
}
