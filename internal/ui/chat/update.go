// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rulemate-tui/internal/backend"
	"github.com/jeranaias/rulemate-tui/internal/citation"
	"github.com/jeranaias/rulemate-tui/internal/commands"
	"github.com/jeranaias/rulemate-tui/internal/model"
	"github.com/jeranaias/rulemate-tui/internal/search"
	"github.com/jeranaias/rulemate-tui/internal/ui/components"
	"github.com/jeranaias/rulemate-tui/internal/ui/styles"
)

// Update is the root message handler.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	// -------------------------------------------------------------------------
	// Search flow
	// -------------------------------------------------------------------------

	case searchDebouncedMsg:
		// Only the latest debounce generation for the current input fires.
		if msg.gen != m.searchGen || msg.query != strings.TrimSpace(m.searchInput.Value()) {
			return m, nil
		}
		m.searching = true
		return m, m.searchCmd(msg.query)

	case searchResultMsg:
		m.searching = false
		if msg.query != strings.TrimSpace(m.searchInput.Value()) {
			return m, nil
		}
		if msg.err != nil {
			m.candidates.Clear()
			return m, m.reportError("Search failed", msg.err)
		}
		m.candidates.SetCandidates(msg.games)
		return m, nil

	case quickPicksMsg:
		m.quickPicks.SetGames(msg.games)
		return m, nil

	case gameSelectedMsg:
		return m.enterChat(msg)

	// -------------------------------------------------------------------------
	// Chat flow
	// -------------------------------------------------------------------------

	case chatReplyMsg:
		m.waiting = false
		m.spinner.Stop()
		if msg.err != nil {
			return m, m.reportError("Request failed", msg.err)
		}
		m.conversation.AddAssistantMessage(msg.answer)
		m.setCitations(msg.answer)
		m.refreshTranscript()
		return m, m.saveTranscriptCmd()

	case transcriptSavedMsg:
		if msg.err != nil {
			m.toasts.AddWarning("could not save transcript")
			return m, components.ToastTickCmd()
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			return m, m.reportError("Export failed", msg.err)
		}
		m.toasts.AddStatus("exported to " + msg.path)
		return m, components.ToastTickCmd()

	// -------------------------------------------------------------------------
	// Highlight and rulebook
	// -------------------------------------------------------------------------

	case components.HighlightChangedMsg:
		return m, m.rulebook.ApplyHighlight(msg.SectionID)

	case components.RulebookSettledMsg:
		m.rulebook.Settle(msg)
		return m, nil

	// -------------------------------------------------------------------------
	// Command results
	// -------------------------------------------------------------------------

	case commands.ShowHelpMsg:
		m.helpVisible = true
		return m, nil

	case commands.NewConversationMsg:
		return m.startNewConversation()

	case commands.SwitchGameMsg:
		if msg.Name == "" {
			return m.reopenSearch()
		}
		return m, m.selectGameCmd(model.NewGame(msg.Name))

	case commands.ListSessionsMsg:
		if msg.Error != nil {
			return m, m.reportError("Could not list sessions", msg.Error)
		}
		m.addSystemNotice(msg.Listing)
		return m, nil

	case commands.LoadTranscriptMsg:
		return m.loadTranscript(msg)

	case commands.ClearConversationMsg:
		if m.conversation != nil {
			game := m.conversation.Game
			intent := m.conversation.Intent
			m.conversation = model.NewConversation(game, intent)
		}
		m.setCitations("")
		m.refreshTranscript()
		return m, nil

	case commands.ExportConversationMsg:
		return m, m.exportCmd(msg.Format)

	case commands.ErrorMsg:
		m.toasts.AddError(msg.Title + ": " + msg.Message)
		return m, components.ToastTickCmd()

	case commands.SystemMessageMsg:
		m.addSystemNotice(msg.Content)
		return m, nil

	// -------------------------------------------------------------------------
	// Ticks
	// -------------------------------------------------------------------------

	case components.ToastTickMsg:
		m.toasts.Tick()
		if m.toasts.HasToasts() {
			return m, components.ToastTickCmd()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// resize propagates new dimensions to every component.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.welcome.SetSize(width, height)

	chatWidth := width
	if m.rulebookVisible() {
		chatWidth = width * 3 / 5
		m.rulebook.SetSize(width-chatWidth, height-6)
	}
	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = height - 8
	if m.chatViewport.Height < 3 {
		m.chatViewport.Height = 3
	}
	m.refreshTranscript()
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// enterChat completes the game selection handshake and switches phases.
func (m *Model) enterChat(msg gameSelectedMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if msg.err != nil {
		// The backend could not attach the game. The chat still opens; the
		// backend will answer without game context until it recovers.
		cmds = append(cmds, m.reportError("Could not set game context", msg.err))
	}

	intent := m.intents.Selected()
	if m.conversation == nil || m.conversation.Game.ID != msg.game.ID {
		m.conversation = model.NewConversation(msg.game, intent)
	}

	m.phase = PhaseChat
	m.searchInput.Blur()
	m.chatInput.Focus()
	m.header.SetGame(msg.game.Name, intent)
	m.rulebook.SetGame(msg.game.ID, msg.game.Name)
	m.setCitations("")
	m.addSystemNotice("Now answering questions about " + msg.game.Name + ".")
	m.resize(m.width, m.height)

	cmds = append(cmds,
		m.recordSelectionCmd(msg.game, intent),
		textinput.Blink,
	)
	return m, tea.Batch(cmds...)
}

// reopenSearch returns to the landing screen without rotating the
// session. The current conversation survives until a new game is picked.
func (m *Model) reopenSearch() (tea.Model, tea.Cmd) {
	m.phase = PhaseLanding
	m.chatInput.Blur()
	m.searchInput.Reset()
	m.searchInput.Focus()
	m.candidates.Clear()
	return m, tea.Batch(m.loadQuickPicksCmd(), textinput.Blink)
}

// startNewConversation rotates the session and returns to the landing screen.
func (m *Model) startNewConversation() (tea.Model, tea.Cmd) {
	m.sessionID = m.session.StartNew()
	m.statusBar.SetSession(m.sessionID, false)
	m.conversation = nil
	m.setCitations("")
	m.coordinator.Clear()

	m.phase = PhaseLanding
	m.chatInput.Blur()
	m.chatInput.Reset()
	m.searchInput.Reset()
	m.searchInput.Focus()
	m.candidates.Clear()

	return m, tea.Batch(m.loadQuickPicksCmd(), textinput.Blink)
}

// loadTranscript restores a saved conversation.
func (m *Model) loadTranscript(msg commands.LoadTranscriptMsg) (tea.Model, tea.Cmd) {
	if msg.Error != nil {
		return m, m.reportError("Could not load transcript", msg.Error)
	}

	m.conversation = msg.Transcript.ToConversation()
	game := m.conversation.Game
	m.phase = PhaseChat
	m.searchInput.Blur()
	m.chatInput.Focus()
	m.header.SetGame(game.Name, m.conversation.Intent)
	m.rulebook.SetGame(game.ID, game.Name)

	if last := m.conversation.GetLastAssistantMessage(); last != nil {
		m.setCitations(last.Content)
	} else {
		m.setCitations("")
	}
	m.resize(m.width, m.height)
	m.toasts.AddStatus("loaded " + msg.Transcript.ID)
	return m, tea.Batch(components.ToastTickCmd(), textinput.Blink)
}

// =============================================================================
// HELPERS
// =============================================================================

// setCitations recomputes the focusable citations of the latest reply.
func (m *Model) setCitations(content string) {
	m.citations = citation.Citations(content)
	m.citationIdx = -1
}

// addSystemNotice appends a system message to the transcript view.
func (m *Model) addSystemNotice(content string) {
	if m.conversation == nil {
		return
	}
	m.conversation.AddSystemMessage(content)
	m.refreshTranscript()
}

// reportError maps backend errors to a user-facing toast.
func (m *Model) reportError(title string, err error) tea.Cmd {
	var apiErr *backend.APIError

	switch {
	case errors.Is(err, backend.ErrUnavailable):
		m.toasts.AddError(title + ": backend unreachable. Is the server running?")
	case errors.Is(err, backend.ErrRateLimited):
		m.toasts.AddWarning(title + ": rate limited, try again shortly")
	case errors.Is(err, search.ErrSuperseded):
		return nil
	case errors.As(err, &apiErr):
		m.toasts.AddError(title + ": " + apiErr.Error())
	default:
		m.toasts.AddError(title + ": " + err.Error())
	}
	return components.ToastTickCmd()
}

// rulebookVisible reports whether the pane participates in layout.
func (m *Model) rulebookVisible() bool {
	return m.phase == PhaseChat &&
		m.rulebook.Expanded() &&
		m.theme.GetLayoutMode() == styles.LayoutWide
}
