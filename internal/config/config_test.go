package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/meditimer/internal/countdown"
)

func TestLoad_MissingImplicitFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_OverridesAndResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
title: Evening sit
alarm: sounds/gong.wav
journal: /var/tmp/sits.db
log_level: DEBUG
default_duration: 600
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "Evening sit", cfg.Title)
	assert.Equal(t, filepath.Join(dir, "sounds/gong.wav"), cfg.Alarm)
	assert.Equal(t, "/var/tmp/sits.db", cfg.Journal)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, 600, cfg.DefaultDuration)
	assert.Equal(t, DefaultLink, cfg.Link, "unset keys keep defaults")
	assert.Equal(t, DefaultLinkText, cfg.LinkText)
}

func TestDecode_LinkText(t *testing.T) {
	cfg := Default()
	require.NoError(t, Decode(strings.NewReader("link_text: \"Listen to more talks:\"\n"), &cfg))
	assert.Equal(t, "Listen to more talks:", cfg.LinkText)

	cfg = Default()
	require.NoError(t, Decode(strings.NewReader("link_text: \"  \"\n"), &cfg))
	assert.Equal(t, DefaultLinkText, cfg.LinkText, "blank falls back to the default")
}

func TestDecode_RejectsUnknownKeys(t *testing.T) {
	cfg := Default()
	err := Decode(strings.NewReader("titel: typo\n"), &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestDecode_EmptyDocument(t *testing.T) {
	cfg := Default()
	require.NoError(t, Decode(strings.NewReader(""), &cfg))
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"bad level", Config{LogLevel: "trace"}, "invalid log_level"},
		{"negative duration", Config{DefaultDuration: -1}, "invalid default_duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_FillsBlankMessage(t *testing.T) {
	cfg := Config{ValidationMessage: "  "}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, countdown.DefaultValidationMessage, cfg.ValidationMessage)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestDefaultPath_HonorsEnv(t *testing.T) {
	t.Setenv("MEDITIMER_CONFIG", "/tmp/custom.yaml")
	assert.Equal(t, "/tmp/custom.yaml", DefaultPath())
}
