// rulemate - A terminal assistant for board game rules questions.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rulemate-tui/internal/backend"
	"github.com/jeranaias/rulemate-tui/internal/config"
	"github.com/jeranaias/rulemate-tui/internal/highlight"
	"github.com/jeranaias/rulemate-tui/internal/history"
	"github.com/jeranaias/rulemate-tui/internal/search"
	"github.com/jeranaias/rulemate-tui/internal/server"
	"github.com/jeranaias/rulemate-tui/internal/session"
	"github.com/jeranaias/rulemate-tui/internal/storage"
	"github.com/jeranaias/rulemate-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = chat.Version
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		backendURL  = flag.String("backend", "", "backend base URL (overrides config)")
		configPath  = flag.String("config", "", "path to config file")
		devServer   = flag.Bool("dev-server", false, "run the bundled dev backend instead of the TUI")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("rulemate %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if *devServer {
		runDevServer()
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *backendURL != "" {
		cfg.Backend.BaseURL = *backendURL
	}

	setupLogging(cfg)
	runTUI(cfg, *configPath)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// setupLogging routes the standard logger to the configured log file. The
// TUI owns the terminal, so nothing may log to stderr while it runs.
func setupLogging(cfg *config.Config) {
	if !cfg.Logging.Enabled || cfg.Logging.Path == "" {
		log.SetOutput(io.Discard)
		return
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Logging.Path), 0700); err != nil {
		log.SetOutput(io.Discard)
		return
	}
	f, err := os.OpenFile(cfg.Logging.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(f)
	log.Printf("STARTUP | version=%s commit=%s", Version, GitCommit)
}

// runDevServer starts the bundled canned-answer backend on localhost.
func runDevServer() {
	srv := server.NewServer(server.DefaultPort)
	fmt.Printf("rulemate dev server listening on http://localhost:%d\n", srv.Port())
	if err := srv.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI wires the dependency graph and runs the Bubble Tea program.
func runTUI(cfg *config.Config, configPath string) {
	backendClient := backend.NewClient(cfg.Backend.BaseURL).
		WithMaxRetries(cfg.Backend.MaxRetries)

	transcripts, err := storage.NewTranscriptStoreWithDir(
		filepath.Join(cfg.Storage.DataDir, "transcripts"))
	if err != nil {
		log.Printf("TRANSCRIPTS_UNAVAILABLE | err=%v", err)
		transcripts = nil
	} else {
		transcripts.MaxTranscripts = cfg.Storage.MaxTranscripts
	}

	hist, err := history.Open(filepath.Join(cfg.Storage.DataDir, "history.db"))
	if err != nil {
		log.Printf("HISTORY_UNAVAILABLE | err=%v", err)
		hist = nil
	} else {
		defer hist.Close()
	}

	m := chat.New(chat.Deps{
		Config:      cfg,
		Backend:     backendClient,
		Search:      search.NewClient(backendClient),
		Session:     session.NewStore(cfg.Storage.DataDir),
		Coordinator: highlight.NewCoordinator(),
		Transcripts: transcripts,
		History:     hist,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	m.BindProgram(p)

	// Config edits take effect on the next restart; the watcher just logs
	// them so a tail of the log confirms the file parsed.
	if watchPath := resolveConfigPath(configPath); watchPath != "" {
		watcher, err := config.Watch(watchPath,
			func(updated *config.Config) {
				log.Printf("CONFIG_RELOADED | path=%s", watchPath)
			},
			func(err error) {
				log.Printf("CONFIG_WATCH_ERROR | err=%v", err)
			})
		if err == nil {
			defer watcher.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running rulemate: %v\n", err)
		os.Exit(1)
	}
}

func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	path, err := config.ConfigPath()
	if err != nil {
		return ""
	}
	return path
}
