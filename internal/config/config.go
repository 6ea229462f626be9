// Package config provides configuration types and defaults for lookout.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds all configuration options for lookout.
type Config struct {
	// Command is the agent binary to look for in pane process trees and to
	// launch when opening a new agent window.
	Command string `mapstructure:"command"`

	// SessionNameFormatter is an optional executable. When set, each pane
	// title is piped through it to produce the display name shown in the
	// session list.
	SessionNameFormatter string `mapstructure:"session_name_formatter"`

	// ExitOnSwitch quits the dashboard after switching to a pane.
	ExitOnSwitch bool `mapstructure:"exit_on_switch"`

	Poll  PollConfig  `mapstructure:"poll"`
	Theme ThemeConfig `mapstructure:"theme"`
}

// PollConfig holds timing knobs for the background tasks.
type PollConfig struct {
	// Interval between session discovery polls, in milliseconds.
	IntervalMS int `mapstructure:"interval_ms"`
	// DebounceMS is how long the preview watcher waits after pipe output
	// before capturing, in milliseconds.
	DebounceMS int `mapstructure:"debounce_ms"`
	// FallbackMS is the preview safety-net poll interval, in milliseconds.
	FallbackMS int `mapstructure:"fallback_ms"`
}

// ThemeConfig holds color overrides.
type ThemeConfig struct {
	// Mode forces light or dark mode. If empty, uses terminal detection.
	Mode string `mapstructure:"mode"`
	// Highlight is the selection highlight color.
	Highlight string `mapstructure:"highlight"`
	// Accent is the accent color used for active markers.
	Accent string `mapstructure:"accent"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Command:      "claude",
		ExitOnSwitch: false,
		Poll: PollConfig{
			IntervalMS: 2000,
			DebounceMS: 50,
			FallbackMS: 2000,
		},
		Theme: ThemeConfig{},
	}
}

// PollInterval returns the poll interval as a duration, falling back to the
// default when unset or nonsense.
func (c Config) PollInterval() time.Duration {
	return msOrDefault(c.Poll.IntervalMS, 2000)
}

// PreviewDebounce returns the preview debounce duration.
func (c Config) PreviewDebounce() time.Duration {
	return msOrDefault(c.Poll.DebounceMS, 50)
}

// PreviewFallback returns the preview fallback poll duration.
func (c Config) PreviewFallback() time.Duration {
	return msOrDefault(c.Poll.FallbackMS, 2000)
}

func msOrDefault(ms, def int) time.Duration {
	if ms <= 0 {
		return time.Duration(def) * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}

// FormatterPath returns the session name formatter with ~ expanded, or ""
// when no formatter is configured.
func (c Config) FormatterPath() string {
	return ExpandTilde(c.SessionNameFormatter)
}

// ExpandTilde replaces a leading ~/ with the user's home directory.
func ExpandTilde(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// DefaultDir returns ~/.config/lookout.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/tmp"
	}
	return filepath.Join(home, ".config", "lookout")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Validate checks the configuration for errors.
func Validate(cfg Config) error {
	if cfg.Command == "" {
		return fmt.Errorf("command must not be empty")
	}
	if cfg.Theme.Mode != "" && cfg.Theme.Mode != "light" && cfg.Theme.Mode != "dark" {
		return fmt.Errorf("theme.mode must be \"light\", \"dark\", or empty, got %q", cfg.Theme.Mode)
	}
	if cfg.Poll.IntervalMS < 0 || cfg.Poll.DebounceMS < 0 || cfg.Poll.FallbackMS < 0 {
		return fmt.Errorf("poll intervals must not be negative")
	}
	return nil
}
