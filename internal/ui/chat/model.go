// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/rulemate-tui/internal/backend"
	"github.com/jeranaias/rulemate-tui/internal/citation"
	"github.com/jeranaias/rulemate-tui/internal/commands"
	"github.com/jeranaias/rulemate-tui/internal/config"
	"github.com/jeranaias/rulemate-tui/internal/highlight"
	"github.com/jeranaias/rulemate-tui/internal/history"
	"github.com/jeranaias/rulemate-tui/internal/model"
	"github.com/jeranaias/rulemate-tui/internal/search"
	"github.com/jeranaias/rulemate-tui/internal/session"
	"github.com/jeranaias/rulemate-tui/internal/storage"
	"github.com/jeranaias/rulemate-tui/internal/ui/components"
	"github.com/jeranaias/rulemate-tui/internal/ui/styles"
)

// Version is the application version shown in the UI.
const Version = "0.1.0"

// Phase identifies which screen the model is showing.
type Phase int

const (
	// PhaseLanding is the game search screen.
	PhaseLanding Phase = iota
	// PhaseChat is the conversation screen.
	PhaseChat
)

// Deps bundles the injected collaborators. Everything the model talks to
// comes in through here; the model owns no globals.
type Deps struct {
	Config      *config.Config
	Backend     *backend.Client
	Search      *search.Client
	Session     *session.Store
	Coordinator *highlight.Coordinator
	Transcripts *storage.TranscriptStore
	History     *history.Store
}

// Model is the root Bubble Tea model.
type Model struct {
	theme *styles.Theme
	cfg   *config.Config

	// Injected dependencies.
	backend     *backend.Client
	search      *search.Client
	session     *session.Store
	coordinator *highlight.Coordinator
	transcripts *storage.TranscriptStore
	history     *history.Store

	// Slash commands.
	registry *commands.Registry
	parser   *commands.Parser
	cmdCtx   *commands.Context

	phase  Phase
	width  int
	height int

	// Landing screen state.
	searchInput textinput.Model
	candidates  *components.CandidateList
	quickPicks  *components.QuickPicks
	intents     *components.IntentPicker
	searchGen   int
	searching   bool

	// Chat state.
	conversation *model.Conversation
	chatViewport viewport.Model
	chatInput    textinput.Model
	spinner      components.Spinner
	waiting      bool
	sessionID    string

	// Citation focus on the latest assistant reply. -1 means none focused.
	citations   []citation.Segment
	citationIdx int

	// Components.
	header    *components.Header
	statusBar *components.StatusBar
	rulebook  *components.RulebookViewer
	toasts    *components.ToastManager
	welcome   *components.Welcome

	renderer *glamour.TermRenderer

	helpVisible bool
}

// New builds the root model from its dependencies.
func New(deps Deps) *Model {
	theme := styles.NewThemeForMode(deps.Config.UI.Theme)

	searchInput := textinput.New()
	searchInput.Placeholder = "Search for a game..."
	searchInput.CharLimit = 100
	searchInput.Focus()

	chatInput := textinput.New()
	chatInput.Placeholder = "Ask about the rules... (/help for commands)"
	chatInput.CharLimit = 2000

	m := &Model{
		theme:       theme,
		cfg:         deps.Config,
		backend:     deps.Backend,
		search:      deps.Search,
		session:     deps.Session,
		coordinator: deps.Coordinator,
		transcripts: deps.Transcripts,
		history:     deps.History,

		registry: commands.NewRegistry(),

		phase:       PhaseLanding,
		searchInput: searchInput,
		chatInput:   chatInput,
		chatViewport: viewport.New(80, 20),
		spinner:     components.NewSpinner(),
		citationIdx: -1,

		candidates: components.NewCandidateList(theme),
		quickPicks: components.NewQuickPicks(theme),
		intents:    components.NewIntentPicker(theme),
		header:     components.NewHeader(theme),
		statusBar:  components.NewStatusBar(theme),
		rulebook:   components.NewRulebookViewer(theme, deps.Coordinator),
		toasts:     components.NewToastManager(),
		welcome:    components.NewWelcome(theme, Version),
	}

	m.parser = commands.NewParser(m.registry)
	m.cmdCtx = commands.NewContext(deps.Config, deps.Transcripts, deps.Session, deps.History)
	m.candidates.SetMaxVisible(deps.Config.Search.MaxCandidates)

	if deps.Config.UI.RenderMarkdown {
		style := "dark"
		if deps.Config.UI.Theme == "light" {
			style = "light"
		}
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(76),
		)
		if err == nil {
			m.renderer = renderer
		}
	}

	m.sessionID = deps.Session.GetOrCreateID()
	m.statusBar.SetSession(m.sessionID, false)

	return m
}

// BindProgram subscribes the model to highlight coordinator changes,
// forwarding them into the Bubble Tea event loop. Call after tea.NewProgram.
func (m *Model) BindProgram(p *tea.Program) {
	m.coordinator.Subscribe(func(sectionID string) {
		p.Send(components.HighlightChangedMsg{SectionID: sectionID})
	})
}

// Init starts the landing screen.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.loadQuickPicksCmd(),
	)
}

// debounceInterval returns the configured search debounce.
func (m *Model) debounceInterval() time.Duration {
	if m.cfg.Search.DebounceMs > 0 {
		return time.Duration(m.cfg.Search.DebounceMs) * time.Millisecond
	}
	return search.DebounceInterval
}
