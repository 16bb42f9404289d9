// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for relay.
//
// Supports TOML configuration with sensible defaults, environment variable
// overrides, and validation.
//
// Configuration file location: ~/.relay/config.toml, falling back to
// built-in defaults when absent.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/morganforge/relay-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// LayoutCompact and LayoutBubble are the two message layout variants.
const (
	LayoutCompact = "compact"
	LayoutBubble  = "bubble"
)

// Config represents the complete relay configuration.
type Config struct {
	// UI configuration
	UI UIConfig `toml:"ui"`

	// Timeline configuration
	Timeline TimelineConfig `toml:"timeline"`

	// Logging configuration
	Log LogConfig `toml:"log"`
}

// UIConfig contains visual settings.
type UIConfig struct {
	// Layout selects the message layout variant: "compact" or "bubble".
	Layout string `toml:"layout"`
	// TimeFormat is the Go time layout used for in-row timestamps.
	TimeFormat string `toml:"time_format"`
	// ShowAvatars toggles the author initials block in compact layout.
	ShowAvatars bool `toml:"show_avatars"`
}

// TimelineConfig tunes the scroll and grouping behavior of the message list.
type TimelineConfig struct {
	// GroupWindowMs is the maximum gap between two same-author messages
	// that still renders as one visual group.
	GroupWindowMs int64 `toml:"group_window_ms"`
	// BottomThresholdLines is how close to the bottom (in lines) still
	// counts as anchored; the terminal analog of a pixel threshold.
	BottomThresholdLines int `toml:"bottom_threshold_lines"`
	// GrowthDebounceMs is the debounce window for the content growth
	// observer that re-anchors the viewport.
	GrowthDebounceMs int64 `toml:"growth_debounce_ms"`
	// RemoteSearchMinChars is the minimum query length that triggers a
	// remote search when the local window has no matches.
	RemoteSearchMinChars int `toml:"remote_search_min_chars"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		UI: UIConfig{
			Layout:      LayoutCompact,
			TimeFormat:  "15:04",
			ShowAvatars: true,
		},
		Timeline: TimelineConfig{
			GroupWindowMs:        60000,
			BottomThresholdLines: 4,
			GrowthDebounceMs:     30,
			RemoteSearchMinChars: 3,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Dir returns the relay configuration directory (~/.relay).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".relay"
	}
	return filepath.Join(home, ".relay")
}

// Path returns the configuration file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the configuration from the default path, applying defaults,
// file values, and environment overrides in that order. A missing file is
// not an error; a malformed one is.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults only
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies RELAY_* environment variables on top of the
// file values. Only a handful of settings are override-worthy.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RELAY_LAYOUT"); v != "" {
		cfg.UI.Layout = v
	}
	if v := os.Getenv("RELAY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("RELAY_GROUP_WINDOW_MS"); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Timeline.GroupWindowMs = ms
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for values the UI cannot work with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.UI.Layout) {
	case LayoutCompact, LayoutBubble:
		c.UI.Layout = strings.ToLower(c.UI.Layout)
	default:
		return fmt.Errorf("ui.layout must be %q or %q, got %q",
			LayoutCompact, LayoutBubble, c.UI.Layout)
	}

	if c.Timeline.GroupWindowMs <= 0 {
		return fmt.Errorf("timeline.group_window_ms must be positive, got %d",
			c.Timeline.GroupWindowMs)
	}
	if c.Timeline.BottomThresholdLines < 1 {
		return fmt.Errorf("timeline.bottom_threshold_lines must be at least 1, got %d",
			c.Timeline.BottomThresholdLines)
	}
	if c.Timeline.GrowthDebounceMs < 0 {
		return fmt.Errorf("timeline.growth_debounce_ms must not be negative, got %d",
			c.Timeline.GrowthDebounceMs)
	}
	if c.Timeline.RemoteSearchMinChars < 0 {
		return fmt.Errorf("timeline.remote_search_min_chars must not be negative, got %d",
			c.Timeline.RemoteSearchMinChars)
	}
	return nil
}

// Save writes the configuration to the default path in TOML format.
// The write is atomic so a crash mid-save never corrupts the config.
func (c *Config) Save() error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return util.AtomicWriteFile(Path(), buf.Bytes(), 0o644)
}
