// Package config handles loading and saving jm configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/javamaster/config.yaml
//   - State:   ~/.local/state/javamaster/ (state.db with progress and chat history)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appDir = "javamaster"

// Views that may be configured as the initial view.
var knownViews = []string{"dashboard", "challenges", "mentor", "progress", "resources"}

// LearnerConfig identifies the person using the app.
type LearnerConfig struct {
	Name string `yaml:"name,omitempty"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	DefaultView string `yaml:"default_view,omitempty"` // dashboard, challenges, mentor, progress, resources
	WordWrap    int    `yaml:"word_wrap,omitempty"`    // Markdown wrap width, 0 = follow terminal
	NoColor     bool   `yaml:"no_color,omitempty"`
}

// TimingConfig holds the simulated latencies.
type TimingConfig struct {
	GradingDelay  time.Duration `yaml:"grading_delay,omitempty"`
	ThinkingDelay time.Duration `yaml:"thinking_delay,omitempty"`
}

// ContentConfig points at an optional catalog file replacing the built-in one.
type ContentConfig struct {
	Path  string `yaml:"path,omitempty"`
	Watch *bool  `yaml:"watch,omitempty"`
}

// PersistenceConfig controls the SQLite state store.
type PersistenceConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"` // Defaults to StateDir()/state.db
}

// Config is the top-level configuration for jm.
type Config struct {
	Learner     LearnerConfig     `yaml:"learner,omitempty"`
	UI          UIConfig          `yaml:"ui,omitempty"`
	Timing      TimingConfig      `yaml:"timing,omitempty"`
	Content     ContentConfig     `yaml:"content,omitempty"`
	Persistence PersistenceConfig `yaml:"persistence,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Learner: LearnerConfig{Name: "Java Learner"},
		UI: UIConfig{
			DefaultView: "dashboard",
		},
		Timing: TimingConfig{
			GradingDelay:  2 * time.Second,
			ThinkingDelay: 1500 * time.Millisecond,
		},
	}
}

// PersistenceEnabled reports whether state should be stored. Defaults to true.
func (c Config) PersistenceEnabled() bool {
	return c.Persistence.Enabled == nil || *c.Persistence.Enabled
}

// WatchContent reports whether a content override file should be watched.
// Defaults to true.
func (c Config) WatchContent() bool {
	return c.Content.Watch == nil || *c.Content.Watch
}

// StatePath returns the SQLite file used for persistence.
func (c Config) StatePath() string {
	if c.Persistence.Path != "" {
		return c.Persistence.Path
	}
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "state.db")
}

// Validate checks values that would otherwise fail later at runtime.
func (c Config) Validate() error {
	var errs []error
	if c.UI.DefaultView != "" && !IsKnownView(c.UI.DefaultView) {
		errs = append(errs, fmt.Errorf("ui.default_view: unknown view %q (want one of %s)",
			c.UI.DefaultView, strings.Join(knownViews, ", ")))
	}
	if c.UI.WordWrap < 0 {
		errs = append(errs, fmt.Errorf("ui.word_wrap: must not be negative, got %d", c.UI.WordWrap))
	}
	if c.Timing.GradingDelay < 0 {
		errs = append(errs, fmt.Errorf("timing.grading_delay: must not be negative, got %s", c.Timing.GradingDelay))
	}
	if c.Timing.ThinkingDelay < 0 {
		errs = append(errs, fmt.Errorf("timing.thinking_delay: must not be negative, got %s", c.Timing.ThinkingDelay))
	}
	return errors.Join(errs...)
}

// IsKnownView reports whether name is one of the top-level views.
func IsKnownView(name string) bool {
	for _, v := range knownViews {
		if v == name {
			return true
		}
	}
	return false
}

// ConfigDir returns the XDG config directory for jm.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDir)
}

// StateDir returns the XDG state directory for jm.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appDir)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Content.Path = expandHome(cfg.Content.Path)
	cfg.Persistence.Path = expandHome(cfg.Persistence.Path)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Bool returns a pointer to b, for the optional toggles.
func Bool(b bool) *bool {
	return &b
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
