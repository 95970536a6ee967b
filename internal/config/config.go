// Package config loads meditimer settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/meditimer/internal/countdown"
)

// Default values for the timer card.
const (
	DefaultTitle    = "SUFI GUIDANCE™ TIMED MEDITATION"
	DefaultImage    = "sufi-guidance.jpg"
	DefaultLink     = "https://youtu.be/_1Yc-uhNItA?si=RJ7bi5pIpvqMlsRI"
	DefaultLinkText = "Visit our YouTube channel:"
	DefaultAlarm    = "twirling-intime-lenovo-k8-note-alarm-tone-41440.mp3"
)

// ValidLogLevels are the accepted log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Config holds the complete application configuration.
type Config struct {
	Title             string `yaml:"title"`
	Image             string `yaml:"image"`
	Link              string `yaml:"link"`
	LinkText          string `yaml:"link_text"`
	Alarm             string `yaml:"alarm"`
	Journal           string `yaml:"journal"`
	ValidationMessage string `yaml:"validation_message"`
	LogLevel          string `yaml:"log_level"`
	DefaultDuration   int    `yaml:"default_duration"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Title:             DefaultTitle,
		Image:             DefaultImage,
		Link:              DefaultLink,
		LinkText:          DefaultLinkText,
		Alarm:             DefaultAlarm,
		ValidationMessage: countdown.DefaultValidationMessage,
		LogLevel:          "info",
	}
}

// DefaultPath returns ~/.config/meditimer/config.yaml, honoring
// MEDITIMER_CONFIG when set.
func DefaultPath() string {
	if env := os.Getenv("MEDITIMER_CONFIG"); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "meditimer.yaml"
	}
	return filepath.Join(dir, "meditimer", "config.yaml")
}

// Load reads the file at path over the defaults.
//
// When explicit is false a missing file is not an error and the defaults
// are returned. Unknown keys are rejected to catch typos.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := Decode(bytes.NewReader(data), &cfg); err != nil {
		return cfg, err
	}

	// Relative asset paths resolve against the config file's directory.
	base := filepath.Dir(path)
	cfg.Alarm = resolve(base, cfg.Alarm)
	cfg.Journal = resolve(base, cfg.Journal)

	return cfg, nil
}

// Decode parses YAML from r into cfg and validates the result.
func Decode(r io.Reader, cfg *Config) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q: must be one of %v", c.LogLevel, ValidLogLevels)
	}
	if c.DefaultDuration < 0 || c.DefaultDuration > countdown.MaxDuration {
		return fmt.Errorf("invalid default_duration %d: must be between 0 and %d", c.DefaultDuration, countdown.MaxDuration)
	}
	if strings.TrimSpace(c.LinkText) == "" {
		c.LinkText = DefaultLinkText
	}
	if strings.TrimSpace(c.ValidationMessage) == "" {
		c.ValidationMessage = countdown.DefaultValidationMessage
	}
	return nil
}

// SlogLevel maps LogLevel to a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isValidLogLevel(level string) bool {
	for _, l := range ValidLogLevels {
		if l == level {
			return true
		}
	}
	return false
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
