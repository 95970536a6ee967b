// Package render draws countdown snapshots to a terminal.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/roach88/meditimer/internal/countdown"
	"github.com/roach88/meditimer/internal/engine"
)

// clearScreen homes the cursor and erases the screen.
const clearScreen = "\033[H\033[2J"

// Hints lists the commands accepted by the interactive session.
const Hints = "set <seconds> | start | pause | reset | quit"

// Terminal renders the full timer card on every snapshot.
//
// While the alert flag is up the display pulses: even and odd ticks
// alternate between a bold and a faint treatment.
type Terminal struct {
	W        io.Writer
	Title    string
	Image    string
	Link     string
	LinkText string // label printed before Link

	// Clear redraws in place instead of scrolling.
	Clear bool
	// NoColor disables all color and emphasis.
	NoColor bool

	mu sync.Mutex
}

// Render implements engine.Renderer.
func (t *Terminal) Render(s engine.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	if t.Clear {
		b.WriteString(clearScreen)
	}
	if t.Title != "" {
		fmt.Fprintln(&b, t.paint(color.Bold).Sprint(t.Title))
	}
	if t.Image != "" {
		fmt.Fprintf(&b, "(%s)\n", t.Image)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "    %s\n", t.display(s))
	fmt.Fprintf(&b, "    %s\n", s.Phase())
	b.WriteString("\n")
	fmt.Fprintln(&b, Hints)
	if t.Link != "" {
		fmt.Fprintf(&b, "%s %s\n", t.LinkText, t.paint(color.Underline).Sprint(t.Link))
	}
	b.WriteString("\n")

	io.WriteString(t.W, b.String())
}

func (t *Terminal) display(s engine.Snapshot) string {
	text := s.Display()
	switch {
	case s.State.Alert && s.Pulse%2 == 0:
		return t.paint(color.FgMagenta, color.Bold).Sprint(text)
	case s.State.Alert:
		return t.paint(color.FgMagenta, color.Faint).Sprint(text)
	case s.Phase() == countdown.PhaseFinished:
		return t.paint(color.FgGreen, color.Bold).Sprint(text)
	default:
		return t.paint(color.Bold).Sprint(text)
	}
}

func (t *Terminal) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if t.NoColor {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c
}

// Plain writes one line per snapshot. It suits pipes and log files.
type Plain struct {
	W io.Writer

	mu sync.Mutex
}

// Render implements engine.Renderer.
func (p *Plain) Render(s engine.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.W, Line(s))
}

// Line formats a snapshot as a single trace line:
//
//	003 tick  running* 04:58
//
// The asterisk marks the alert flag. Rejected input appends "! message".
func Line(s engine.Snapshot) string {
	cmd := "init"
	if s.Command != 0 {
		cmd = s.Command.String()
	}
	phase := s.Phase().String()
	if s.State.Alert {
		phase += "*"
	}
	line := fmt.Sprintf("%03d %-5s %-9s %s", s.Seq, cmd, phase, s.Display())
	if s.Err != nil {
		line += " ! " + Message(s.Err)
	}
	return line
}

// Message extracts the user-facing text from a rejection.
func Message(err error) string {
	var ve *countdown.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}

// Notice is an engine.Notifier that prints rejections prominently and rings
// the bell.
type Notice struct {
	W io.Writer
}

// Notify implements engine.Notifier.
func (n Notice) Notify(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(n.W, "\a! %s\n", Message(err))
}
