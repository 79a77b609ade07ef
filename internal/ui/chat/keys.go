// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rulemate-tui/internal/commands"
	"github.com/jeranaias/rulemate-tui/internal/search"
	"github.com/jeranaias/rulemate-tui/internal/ui/components"
)

// handleKey routes key presses by phase.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help overlay swallows everything until dismissed.
	if m.helpVisible {
		m.helpVisible = false
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	}

	if m.phase == PhaseLanding {
		return m.handleLandingKey(msg)
	}
	return m.handleChatKey(msg)
}

// =============================================================================
// LANDING SCREEN
// =============================================================================

func (m *Model) handleLandingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up":
		m.candidates.MoveUp()
		return m, nil

	case "down":
		m.candidates.MoveDown()
		return m, nil

	case "left":
		m.intents.Prev()
		return m, nil

	case "right":
		m.intents.Next()
		return m, nil

	case "enter":
		if game, ok := m.candidates.Selected(); ok {
			return m, m.selectGameCmd(game)
		}
		return m, nil

	case "esc":
		m.searchInput.Reset()
		m.candidates.Clear()
		m.search.CancelInflight()
		return m, nil
	}

	// Digit shortcuts pick a recent game while the search box is empty.
	if m.searchInput.Value() == "" && len(msg.Runes) == 1 {
		if d := msg.Runes[0]; d >= '1' && d <= '9' {
			if game, ok := m.quickPicks.Pick(int(d - '0')); ok {
				return m, m.selectGameCmd(game)
			}
		}
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	after := m.searchInput.Value()

	if before == after {
		return m, cmd
	}

	// Each edit restarts the trailing-edge debounce.
	query := strings.TrimSpace(after)
	m.searchGen++
	if len([]rune(query)) < search.MinQueryLength {
		m.candidates.Clear()
		m.search.CancelInflight()
		return m, cmd
	}
	return m, tea.Batch(cmd, m.debounceCmd(m.searchGen, query))
}

// =============================================================================
// CHAT SCREEN
// =============================================================================

func (m *Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.cycleCitation(1)
		m.refreshTranscript()
		return m, nil

	case "shift+tab":
		m.cycleCitation(-1)
		m.refreshTranscript()
		return m, nil

	case "esc":
		// Esc clears citation focus first, then the section highlight.
		if m.citationIdx >= 0 {
			m.citationIdx = -1
			m.refreshTranscript()
			return m, nil
		}
		m.rulebook.ClearHighlight()
		return m, nil

	case "ctrl+r":
		m.rulebook.Toggle()
		m.resize(m.width, m.height)
		return m, nil

	case "enter":
		// A focused citation activates when the input is empty.
		if m.citationIdx >= 0 && strings.TrimSpace(m.chatInput.Value()) == "" {
			return m, m.activateCitation()
		}
		return m.submitInput()

	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.chatViewport, cmd = m.chatViewport.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	cmds = append(cmds, cmd)

	if m.rulebook.Expanded() {
		cmds = append(cmds, m.rulebook.Update(msg))
	}
	return m, tea.Batch(cmds...)
}

// cycleCitation moves citation focus by delta, wrapping. With no citations
// it is a no-op.
func (m *Model) cycleCitation(delta int) {
	n := len(m.citations)
	if n == 0 {
		return
	}
	if m.citationIdx < 0 {
		if delta > 0 {
			m.citationIdx = 0
		} else {
			m.citationIdx = n - 1
		}
		return
	}
	m.citationIdx = (m.citationIdx + delta + n) % n
}

// activateCitation highlights the focused citation's section.
func (m *Model) activateCitation() tea.Cmd {
	seg := m.citations[m.citationIdx]
	// The coordinator notifies subscribers, which loops back into the UI as
	// a HighlightChangedMsg driving the rulebook pane.
	m.coordinator.Set(seg.SourceID)
	return nil
}

// submitInput sends the typed line: slash commands dispatch through the
// registry, anything else goes to the backend.
func (m *Model) submitInput() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.chatInput.Value())
	if input == "" {
		return m, nil
	}
	m.chatInput.Reset()

	if commands.IsCommand(input) {
		return m.dispatchCommand(input)
	}

	if m.waiting {
		m.toasts.AddWarning("still waiting on the previous answer")
		return m, components.ToastTickCmd()
	}

	m.conversation.AddUserMessage(input)
	m.setCitations("")
	m.refreshTranscript()
	m.waiting = true
	return m, tea.Batch(m.spinner.Start(), m.askCmd(input))
}

// dispatchCommand parses and runs a slash command.
func (m *Model) dispatchCommand(input string) (tea.Model, tea.Cmd) {
	result := m.parser.Parse(input)
	if result.Command == nil {
		m.toasts.AddError("unknown command " + result.CommandName + " (try /help)")
		return m, components.ToastTickCmd()
	}
	if err := commands.ValidateArgs(result.Command, result.Args); err != nil {
		m.toasts.AddError(err.Error())
		return m, components.ToastTickCmd()
	}
	return m, result.Command.Handler(m.cmdCtx, result.Args)
}
