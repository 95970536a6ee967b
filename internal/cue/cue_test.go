package cue

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWAV writes a mono 16-bit PCM clip of n silent samples.
func writeWAV(t *testing.T, path string, sampleRate, n int) {
	t.Helper()
	const channels, bits = 1, 16
	blockAlign := channels * bits / 8
	dataSize := n * blockAlign

	var buf bytes.Buffer
	w := func(v any) { require.NoError(t, binary.Write(&buf, binary.LittleEndian, v)) }
	buf.WriteString("RIFF")
	w(int32(36 + dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	w(int32(16))
	w(int16(1)) // PCM
	w(int16(channels))
	w(int32(sampleRate))
	w(int32(sampleRate * blockAlign))
	w(int16(blockAlign))
	w(int16(bits))
	buf.WriteString("data")
	w(int32(dataSize))
	buf.Write(make([]byte, dataSize))

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad_WAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bell.wav")
	writeWAV(t, path, 8000, 800)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 800, p.Len())
	assert.Equal(t, 100*time.Millisecond, p.Duration())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.mp3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open cue")
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.ogg")
	require.NoError(t, os.WriteFile(path, []byte("OggS"), 0644))

	_, err := Load(path)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestLoad_CorruptWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a riff file"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode cue")
}

func TestPlayer_StopBeforePlayIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bell.wav")
	writeWAV(t, path, 8000, 80)

	p, err := Load(path)
	require.NoError(t, err)
	assert.NoError(t, p.Stop())
}

func TestBell(t *testing.T) {
	var buf bytes.Buffer
	b := Bell{W: &buf}
	require.NoError(t, b.Play())
	require.NoError(t, b.Stop())
	assert.Equal(t, "\a", buf.String())
}

func TestSilent_LogsInsteadOfPlaying(t *testing.T) {
	var logs bytes.Buffer
	s := Silent{Logger: slog.New(slog.NewTextHandler(&logs, nil))}

	require.NoError(t, s.Play())
	require.NoError(t, s.Stop())
	assert.Contains(t, logs.String(), "cue suppressed")

	require.NoError(t, Silent{}.Play())
}

func TestOpen_FallsBackToBell(t *testing.T) {
	var buf bytes.Buffer

	c := Open("", &buf, discardLogger())
	assert.IsType(t, Bell{}, c)

	c = Open(filepath.Join(t.TempDir(), "gone.mp3"), &buf, discardLogger())
	assert.IsType(t, Bell{}, c)
}

func TestOpen_LoadsClip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bell.wav")
	writeWAV(t, path, 8000, 80)

	c := Open(path, io.Discard, discardLogger())
	assert.IsType(t, &Player{}, c)
}
