// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rulemate-tui/internal/highlight"
	"github.com/jeranaias/rulemate-tui/internal/rulebook"
	"github.com/jeranaias/rulemate-tui/internal/ui/styles"
)

// expandSettleDelay is how long the viewer waits after expanding before it
// scrolls to a target section. Scrolling in the same frame as the expansion
// lands on stale layout, so the scroll is deferred one tick.
const expandSettleDelay = 50 * time.Millisecond

// =============================================================================
// MESSAGES
// =============================================================================

// HighlightChangedMsg is sent when the highlight coordinator changes state.
// An empty SectionID means the highlight was cleared.
type HighlightChangedMsg struct {
	SectionID string
}

// RulebookSettledMsg fires after an expansion has had a frame to settle,
// carrying the section the viewer should scroll to.
type RulebookSettledMsg struct {
	SectionID string
}

// =============================================================================
// RULEBOOK VIEWER
// =============================================================================

// RulebookViewer renders the rulebook pane for the active game. It holds at
// most one highlighted section at a time, driven by the highlight
// coordinator. Activating a citation while the pane is collapsed expands it
// first, then scrolls once the layout has settled.
type RulebookViewer struct {
	theme       *styles.Theme
	coordinator *highlight.Coordinator

	viewport viewport.Model

	gameID   string
	gameName string
	sections []rulebook.Section

	expanded      bool
	highlightedID string
	width         int
	height        int

	// Line offset of each section in the rendered content, so a highlight
	// can scroll its section into view.
	offsets map[string]int
}

// NewRulebookViewer creates a collapsed rulebook viewer.
func NewRulebookViewer(theme *styles.Theme, coordinator *highlight.Coordinator) *RulebookViewer {
	return &RulebookViewer{
		theme:       theme,
		coordinator: coordinator,
		viewport:    viewport.New(40, 20),
		offsets:     make(map[string]int),
	}
}

// SetGame loads the rulebook sections for a game and resets scroll state.
func (v *RulebookViewer) SetGame(gameID, gameName string) {
	v.gameID = gameID
	v.gameName = gameName
	v.sections = rulebook.Sections(gameID)
	v.highlightedID = ""
	v.viewport.GotoTop()
	v.refresh()
}

// SetSize updates the pane dimensions.
func (v *RulebookViewer) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width - 4
	v.viewport.Height = height - 4
	if v.viewport.Width < 10 {
		v.viewport.Width = 10
	}
	if v.viewport.Height < 3 {
		v.viewport.Height = 3
	}
	v.refresh()
}

// Expanded reports whether the pane is currently open.
func (v *RulebookViewer) Expanded() bool {
	return v.expanded
}

// Toggle opens or closes the pane without touching the highlight.
func (v *RulebookViewer) Toggle() {
	v.expanded = !v.expanded
}

// HighlightedID returns the section currently highlighted, or "".
func (v *RulebookViewer) HighlightedID() string {
	return v.highlightedID
}

// ApplyHighlight reacts to a coordinator state change. When the target
// section exists and the pane is collapsed, the pane expands and the scroll
// is deferred via RulebookSettledMsg. When already expanded, it scrolls
// immediately. An empty section ID clears the local highlight but leaves the
// pane as the user had it.
func (v *RulebookViewer) ApplyHighlight(sectionID string) tea.Cmd {
	if sectionID == "" {
		v.highlightedID = ""
		v.refresh()
		return nil
	}

	if _, ok := rulebook.ByID(v.gameID, sectionID); !ok {
		return nil
	}

	v.highlightedID = sectionID
	v.refresh()

	if !v.expanded {
		v.expanded = true
		target := sectionID
		return tea.Tick(expandSettleDelay, func(time.Time) tea.Msg {
			return RulebookSettledMsg{SectionID: target}
		})
	}

	v.scrollTo(sectionID)
	return nil
}

// Settle completes a deferred expand-then-scroll. Stale settle messages for
// a section that is no longer highlighted are ignored.
func (v *RulebookViewer) Settle(msg RulebookSettledMsg) {
	if msg.SectionID != v.highlightedID {
		return
	}
	v.refresh()
	v.scrollTo(msg.SectionID)
}

// ClearHighlight asks the coordinator to drop the highlight. The viewer
// itself updates when the coordinator notifies back.
func (v *RulebookViewer) ClearHighlight() {
	v.coordinator.Clear()
}

// Update forwards scroll keys to the viewport while expanded.
func (v *RulebookViewer) Update(msg tea.Msg) tea.Cmd {
	if !v.expanded {
		return nil
	}
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return cmd
}

// =============================================================================
// RENDERING
// =============================================================================

// refresh rebuilds the viewport content and section offsets. Content is
// word-wrapped to the viewport width before it is handed over, so the
// viewport's line model matches the rendered rows and the offsets stay
// valid scroll targets.
func (v *RulebookViewer) refresh() {
	var b strings.Builder
	offsets := make(map[string]int, len(v.sections))
	line := 0

	for i, sec := range v.sections {
		if i > 0 {
			b.WriteString("\n")
			line++
		}
		offsets[sec.ID] = line

		bodyWidth := v.viewport.Width
		if sec.ID == v.highlightedID {
			// The highlight style's left border and padding take two cells.
			bodyWidth -= 2
		}

		header := v.theme.SectionHeader.Render(sec.Title) + " " +
			v.theme.SectionPageNum.Render("(p."+strconv.Itoa(sec.Page)+")")
		body := v.theme.SectionBody.Render(wrapText(sec.Content, bodyWidth))

		block := header + "\n" + body
		if sec.ID == v.highlightedID {
			block = v.theme.SectionHighlighted.Render(block)
		}

		b.WriteString(block)
		b.WriteString("\n")
		line += strings.Count(block, "\n") + 1
	}

	v.offsets = offsets
	v.viewport.SetContent(b.String())
}

// scrollTo positions the viewport so the section's header is at the top.
func (v *RulebookViewer) scrollTo(sectionID string) {
	offset, ok := v.offsets[sectionID]
	if !ok {
		return
	}
	maxOffset := v.viewport.TotalLineCount() - v.viewport.Height
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	v.viewport.SetYOffset(offset)
}

// View renders the pane. Collapsed panes render a one-line hint.
func (v *RulebookViewer) View() string {
	if !v.expanded {
		hint := v.theme.ShortcutKey.Render("ctrl+r") +
			v.theme.ShortcutDesc.Render(" rulebook")
		return hint
	}

	title := v.theme.RulebookTitle.Render("Rulebook")
	if v.gameName != "" {
		title += " " + v.theme.HeaderSubtitle.Render(v.gameName)
	}
	if v.highlightedID != "" {
		title += "  " + v.theme.ShortcutKey.Render("esc") +
			v.theme.ShortcutDesc.Render(" clear highlight")
	}

	body := lipgloss.JoinVertical(lipgloss.Left, title, v.viewport.View())
	return v.theme.RulebookPane.Render(body)
}
