// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
version = "1.0.0"

[backend]
base_url = "http://rules.example.com:9000"
timeout_secs = 10

[ui]
theme = "light"
quick_picks = 3
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.Backend.BaseURL != "http://rules.example.com:9000" {
		t.Errorf("base_url = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.TimeoutSecs != 10 {
		t.Errorf("timeout_secs = %d", cfg.Backend.TimeoutSecs)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q", cfg.UI.Theme)
	}
	// Unset values come from defaults.
	if cfg.Search.DebounceMs != 150 {
		t.Errorf("debounce_ms = %d, want default 150", cfg.Search.DebounceMs)
	}
	if cfg.Backend.MaxRetries != 3 {
		t.Errorf("max_retries = %d, want default 3", cfg.Backend.MaxRetries)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RULEMATE_BACKEND_URL", "http://127.0.0.1:9999")
	t.Setenv("RULEMATE_THEME", "light")
	t.Setenv("RULEMATE_DEBOUNCE_MS", "300")
	t.Setenv("RULEMATE_LOG", "true")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Backend.BaseURL != "http://127.0.0.1:9999" {
		t.Errorf("base_url = %q", cfg.Backend.BaseURL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q", cfg.UI.Theme)
	}
	if cfg.Search.DebounceMs != 300 {
		t.Errorf("debounce_ms = %d", cfg.Search.DebounceMs)
	}
	if !cfg.Logging.Enabled {
		t.Error("logging should be enabled")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"relative url", func(c *Config) { c.Backend.BaseURL = "localhost:8000" }, "backend.base_url"},
		{"zero timeout", func(c *Config) { c.Backend.TimeoutSecs = 0 }, "backend.timeout_secs"},
		{"huge debounce", func(c *Config) { c.Search.DebounceMs = 10000 }, "search.debounce_ms"},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }, "ui.theme"},
		{"negative cap", func(c *Config) { c.Storage.MaxTranscripts = -1 }, "storage.max_transcripts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.SetDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not mention %s", err, tt.field)
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.SetDefaults()
	cfg.UI.Theme = "light"
	cfg.Search.DebounceMs = 200

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode = %o, want 0600", perm)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.UI.Theme != "light" || loaded.Search.DebounceMs != 200 {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.SetDefaults()
	if err := SaveTOML(cfg, path); err != nil {
		t.Fatal(err)
	}

	changed := make(chan *Config, 1)
	w, err := Watch(path, func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	}, nil)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	cfg.UI.Theme = "light"
	if err := SaveTOML(cfg, path); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		if got.UI.Theme != "light" {
			t.Errorf("reloaded theme = %q", got.UI.Theme)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never delivered the reload")
	}
}
