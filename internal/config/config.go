// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete rulemate configuration.
type Config struct {
	Version string `toml:"version"`

	// Backend configuration
	Backend BackendConfig `toml:"backend"`

	// Search configuration
	Search SearchConfig `toml:"search"`

	// Storage configuration
	Storage StorageConfig `toml:"storage"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Logging configuration
	Logging LoggingConfig `toml:"logging"`
}

// BackendConfig points the client at the answering service.
type BackendConfig struct {
	// BaseURL is the root of the rules backend.
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxRetries is the retry budget for transient chat failures.
	MaxRetries int `toml:"max_retries"`
}

// SearchConfig tunes incremental game search.
type SearchConfig struct {
	// DebounceMs is how long to wait after the last keystroke before
	// querying the backend.
	DebounceMs int `toml:"debounce_ms"`
	// MaxCandidates caps the candidate list shown on the landing screen.
	MaxCandidates int `toml:"max_candidates"`
}

// StorageConfig controls on-disk state.
type StorageConfig struct {
	// DataDir is the root data directory (default ~/.rulemate).
	DataDir string `toml:"data_dir"`
	// MaxTranscripts caps saved transcripts (0 = unlimited).
	MaxTranscripts int `toml:"max_transcripts"`
	// SaveTranscripts enables transcript persistence.
	SaveTranscripts bool `toml:"save_transcripts"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// CompactMode uses a more compact layout
	CompactMode bool `toml:"compact_mode"`
	// RenderMarkdown renders assistant answers through the markdown
	// renderer instead of plain text.
	RenderMarkdown bool `toml:"render_markdown"`
	// QuickPicks is how many recent games to offer on the landing screen.
	QuickPicks int `toml:"quick_picks"`
}

// LoggingConfig controls the debug log.
type LoggingConfig struct {
	// Enabled turns file logging on.
	Enabled bool `toml:"enabled"`
	// Path is the log file location (empty = <data_dir>/rulemate.log).
	Path string `toml:"path"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Backend: BackendConfig{
			BaseURL:     "http://localhost:8000",
			TimeoutSecs: 30,
			MaxRetries:  3,
		},

		Search: SearchConfig{
			DebounceMs:    150,
			MaxCandidates: 8,
		},

		Storage: StorageConfig{
			DataDir:         "", // resolved to ~/.rulemate by SetDefaults
			MaxTranscripts:  100,
			SaveTranscripts: true,
		},

		UI: UIConfig{
			Theme:          "dark",
			CompactMode:    false,
			RenderMarkdown: true,
			QuickPicks:     5,
		},

		Logging: LoggingConfig{
			Enabled: false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the rulemate configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".rulemate"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file, falling back to defaults
// when the file does not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := decodeTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file with validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := decodeTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decodeTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to path with owner-only permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# rulemate configuration file")
	fmt.Fprintln(file, "# Generated by rulemate - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies RULEMATE_* environment variables over the
// loaded values.
//
//	RULEMATE_BACKEND_URL    backend.base_url
//	RULEMATE_DATA_DIR       storage.data_dir
//	RULEMATE_THEME          ui.theme
//	RULEMATE_DEBOUNCE_MS    search.debounce_ms
//	RULEMATE_LOG            logging.enabled ("1"/"true")
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("RULEMATE_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("RULEMATE_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("RULEMATE_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("RULEMATE_DEBOUNCE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			c.Search.DebounceMs = ms
		}
	}
	if v := os.Getenv("RULEMATE_LOG"); v != "" {
		c.Logging.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
}

// =============================================================================
// DEFAULTS AND VALIDATION
// =============================================================================

// SetDefaults fills any zero values left after loading.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = defaults.Backend.BaseURL
	}
	if c.Backend.TimeoutSecs <= 0 {
		c.Backend.TimeoutSecs = defaults.Backend.TimeoutSecs
	}
	if c.Backend.MaxRetries <= 0 {
		c.Backend.MaxRetries = defaults.Backend.MaxRetries
	}
	if c.Search.DebounceMs <= 0 {
		c.Search.DebounceMs = defaults.Search.DebounceMs
	}
	if c.Search.MaxCandidates <= 0 {
		c.Search.MaxCandidates = defaults.Search.MaxCandidates
	}
	if c.Storage.DataDir == "" {
		if dir, err := ConfigDir(); err == nil {
			c.Storage.DataDir = dir
		}
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.QuickPicks <= 0 {
		c.UI.QuickPicks = defaults.UI.QuickPicks
	}
	if c.Logging.Path == "" && c.Storage.DataDir != "" {
		c.Logging.Path = filepath.Join(c.Storage.DataDir, "rulemate.log")
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "backend.base_url",
			Message: fmt.Sprintf("must be an absolute URL, got %q", c.Backend.BaseURL),
		})
	}

	if c.Backend.TimeoutSecs < 1 || c.Backend.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "backend.timeout_secs",
			Message: fmt.Sprintf("must be between 1 and 600, got %d", c.Backend.TimeoutSecs),
		})
	}

	if c.Search.DebounceMs > 5000 {
		errs = append(errs, ValidationError{
			Field:   "search.debounce_ms",
			Message: fmt.Sprintf("must be at most 5000, got %d", c.Search.DebounceMs),
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("must be one of dark, light, auto; got %q", c.UI.Theme),
		})
	}

	if c.Storage.MaxTranscripts < 0 {
		errs = append(errs, ValidationError{
			Field:   "storage.max_transcripts",
			Message: "must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
