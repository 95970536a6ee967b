// Package cue plays the audio alert that marks the end of a countdown.
//
// The cue is an exclusively owned handle: the engine plays it once when the
// countdown reaches zero and stops/rewinds it on reset. Nothing else writes
// to it.
package cue

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/roach88/meditimer/internal/engine"
)

// ErrUnsupportedFormat is returned for clips that are neither mp3 nor wav.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Player is a decoded clip played through the system speaker.
//
// The clip is fully buffered at load time. The speaker is initialized on the
// first Play so loading never needs an audio device.
type Player struct {
	path   string
	buffer *beep.Buffer

	initOnce sync.Once
	initErr  error
	ready    atomic.Bool

	mu      sync.Mutex
	current beep.StreamSeeker
}

// Load decodes the clip at path into memory.
func Load(path string) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cue: %w", err)
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		// mp3.Decode takes ownership of f and closes it with the stream.
		stream, format, err = mp3.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("load cue %s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode cue %s: %w", path, err)
	}
	defer stream.Close()
	defer f.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(stream)
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("read cue %s: %w", path, err)
	}

	return &Player{path: path, buffer: buffer}, nil
}

// Len returns the clip length in samples.
func (p *Player) Len() int {
	return p.buffer.Len()
}

// Duration returns the clip length.
func (p *Player) Duration() time.Duration {
	return p.buffer.Format().SampleRate.D(p.buffer.Len())
}

// Play starts the clip from the beginning, replacing anything still playing.
func (p *Player) Play() error {
	p.initOnce.Do(func() {
		sr := p.buffer.Format().SampleRate
		p.initErr = speaker.Init(sr, sr.N(time.Second/10))
		if p.initErr == nil {
			p.ready.Store(true)
		}
	})
	if p.initErr != nil {
		return fmt.Errorf("init speaker: %w", p.initErr)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	speaker.Clear()
	p.current = p.buffer.Streamer(0, p.buffer.Len())
	speaker.Play(p.current)
	return nil
}

// Stop silences the clip and rewinds it to the first sample.
func (p *Player) Stop() error {
	if !p.ready.Load() {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	speaker.Clear()
	if p.current == nil {
		return nil
	}
	speaker.Lock()
	err := p.current.Seek(0)
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("rewind cue: %w", err)
	}
	return nil
}

// Bell rings the terminal bell. It is the fallback when no clip is
// configured or the clip cannot be decoded.
type Bell struct {
	W io.Writer
}

// Play writes BEL to the terminal.
func (b Bell) Play() error {
	_, err := io.WriteString(b.W, "\a")
	return err
}

// Stop is a no-op; a bell cannot be interrupted.
func (b Bell) Stop() error { return nil }

// Silent never makes a sound. It backs --dry-run and logs what would have
// played instead.
type Silent struct {
	Logger *slog.Logger
}

// Play logs the suppressed cue.
func (s Silent) Play() error {
	if s.Logger != nil {
		s.Logger.Info("cue suppressed (dry run)")
	}
	return nil
}

// Stop is a no-op.
func (s Silent) Stop() error { return nil }

// Open returns a Player for path, or a Bell on w when path is empty or the
// clip cannot be loaded. Load failures are logged, not returned, since a
// missing sound must not prevent meditating.
func Open(path string, w io.Writer, logger *slog.Logger) engine.Cue {
	if path == "" {
		return Bell{W: w}
	}
	p, err := Load(path)
	if err != nil {
		logger.Warn("alarm clip unavailable, using terminal bell", "path", path, "error", err)
		return Bell{W: w}
	}
	logger.Debug("alarm clip loaded", "path", path, "duration", p.Duration())
	return p
}
