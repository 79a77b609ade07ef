// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rulemate-tui/internal/backend"
	"github.com/jeranaias/rulemate-tui/internal/model"
	"github.com/jeranaias/rulemate-tui/internal/search"
	"github.com/jeranaias/rulemate-tui/internal/storage"
)

// =============================================================================
// ASYNC MESSAGES
// =============================================================================

// searchDebouncedMsg fires after the debounce interval. Stale generations
// are dropped in Update.
type searchDebouncedMsg struct {
	gen   int
	query string
}

// searchResultMsg carries game search results.
type searchResultMsg struct {
	query string
	games []model.Game
	err   error
}

// quickPicksMsg carries recently used games for the landing screen.
type quickPicksMsg struct {
	games []model.Game
}

// gameSelectedMsg reports the outcome of attaching a game to the session.
type gameSelectedMsg struct {
	game model.Game
	err  error
}

// chatReplyMsg carries the backend's answer to a question.
type chatReplyMsg struct {
	answer string
	err    error
}

// transcriptSavedMsg reports a background transcript save.
type transcriptSavedMsg struct {
	err error
}

// exportDoneMsg reports an export to file.
type exportDoneMsg struct {
	path string
	err  error
}

// =============================================================================
// COMMANDS
// =============================================================================

// debounceCmd schedules a trailing-edge search after the debounce interval.
func (m *Model) debounceCmd(gen int, query string) tea.Cmd {
	return tea.Tick(m.debounceInterval(), func(time.Time) tea.Msg {
		return searchDebouncedMsg{gen: gen, query: query}
	})
}

// searchCmd runs the game search. Superseded searches report nothing.
func (m *Model) searchCmd(query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		games, err := m.search.Search(ctx, query)
		if errors.Is(err, search.ErrSuperseded) {
			return nil
		}
		return searchResultMsg{query: query, games: games, err: err}
	}
}

// loadQuickPicksCmd loads recently used games from history.
func (m *Model) loadQuickPicksCmd() tea.Cmd {
	return func() tea.Msg {
		if m.history == nil {
			return quickPicksMsg{}
		}
		selections, err := m.history.RecentGames(m.cfg.UI.QuickPicks)
		if err != nil {
			return quickPicksMsg{}
		}
		games := make([]model.Game, 0, len(selections))
		for _, sel := range selections {
			games = append(games, sel.Game)
		}
		return quickPicksMsg{games: games}
	}
}

// selectGameCmd attaches the game to the backend session. The backend call
// is fire-and-forget by contract, so failures surface as a toast but the
// conversation proceeds.
func (m *Model) selectGameCmd(game model.Game) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := m.backend.AddGameToContext(ctx, game.Name, m.sessionID)
		return gameSelectedMsg{game: game, err: err}
	}
}

// askCmd sends a question to the backend.
func (m *Model) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		timeout := time.Duration(m.cfg.Backend.TimeoutSecs) * time.Second
		if timeout <= 0 {
			timeout = backend.DefaultTimeout
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		answer, err := m.backend.Chat(ctx, question, m.sessionID)
		return chatReplyMsg{answer: answer, err: err}
	}
}

// saveTranscriptCmd persists the conversation in the background.
func (m *Model) saveTranscriptCmd() tea.Cmd {
	if m.transcripts == nil || !m.cfg.Storage.SaveTranscripts {
		return nil
	}
	if m.conversation == nil || m.conversation.IsEmpty() {
		return nil
	}

	stored := storage.FromConversation(m.conversation, m.sessionID)
	return func() tea.Msg {
		_, err := m.transcripts.Save(stored)
		return transcriptSavedMsg{err: err}
	}
}

// recordSelectionCmd updates game usage history.
func (m *Model) recordSelectionCmd(game model.Game, intent string) tea.Cmd {
	if m.history == nil {
		return nil
	}
	return func() tea.Msg {
		// History failures never interrupt the session.
		_ = m.history.RecordSelection(game, intent)
		return nil
	}
}

// exportCmd writes the conversation to a file in the data directory.
func (m *Model) exportCmd(format string) tea.Cmd {
	conv := m.conversation
	sessionID := m.sessionID
	dataDir := m.cfg.Storage.DataDir

	return func() tea.Msg {
		if conv == nil || conv.IsEmpty() {
			return exportDoneMsg{err: errors.New("nothing to export")}
		}

		stored := storage.FromConversation(conv, sessionID)
		name := "rulemate-" + time.Now().Format("20060102-150405")

		var path string
		var data []byte
		switch format {
		case "json":
			path = filepath.Join(dataDir, name+".json")
			var err error
			data, err = json.MarshalIndent(stored, "", "  ")
			if err != nil {
				return exportDoneMsg{err: err}
			}
		default:
			path = filepath.Join(dataDir, name+".md")
			data = []byte(stored.ExportMarkdown())
		}

		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return exportDoneMsg{err: err}
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path}
	}
}
