// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rulemate-tui/internal/ui/components"
	"github.com/jeranaias/rulemate-tui/internal/ui/styles"
)

// View renders the whole screen.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.helpVisible {
		return m.helpView()
	}

	var screen string
	if m.phase == PhaseLanding {
		screen = m.landingView()
	} else {
		screen = m.chatView()
	}

	if toasts := m.toasts.Tick(); len(toasts) > 0 {
		screen += "\n" + components.RenderToastStack(toasts, m.width, 0)
	}
	return screen
}

// =============================================================================
// LANDING SCREEN
// =============================================================================

func (m *Model) landingView() string {
	searchBox := m.theme.SearchBox.Render(m.searchInput.View())

	var status string
	if m.searching {
		status = m.theme.ThinkingText.Render("searching...")
	}

	candidates := m.candidates.View()
	if candidates == "" && status != "" {
		candidates = status
	}

	return m.welcome.View(searchBox, m.intents.View(), candidates, m.quickPicks.View())
}

// =============================================================================
// CHAT SCREEN
// =============================================================================

func (m *Model) chatView() string {
	var header string
	if m.theme.GetLayoutMode() == styles.LayoutNarrow || m.cfg.UI.CompactMode {
		header = m.header.ViewCompact()
	} else {
		header = m.header.View()
	}

	transcript := m.chatViewport.View()

	var footer []string
	if m.waiting {
		footer = append(footer, m.spinner.View())
	}
	footer = append(footer, m.theme.InputContainer.Render(
		m.theme.InputPrompt.Render("> ")+m.chatInput.View()))

	m.statusBar.SetShortcuts(m.chatShortcuts())
	footer = append(footer, m.statusBar.View())

	column := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{header, transcript}, footer...)...)

	if m.rulebookVisible() {
		return lipgloss.JoinHorizontal(lipgloss.Top, column, m.rulebook.View())
	}
	if m.phase == PhaseChat && !m.rulebook.Expanded() {
		return lipgloss.JoinVertical(lipgloss.Left, column, m.rulebook.View())
	}
	return column
}

// chatShortcuts adapts the status bar hints to the current state.
func (m *Model) chatShortcuts() []components.Shortcut {
	shortcuts := []components.Shortcut{
		{Key: "/help", Desc: "commands"},
	}
	if len(m.citations) > 0 {
		shortcuts = append(shortcuts, components.Shortcut{Key: "tab", Desc: "cite"})
	}
	if m.rulebook.HighlightedID() != "" {
		shortcuts = append(shortcuts, components.Shortcut{Key: "esc", Desc: "clear"})
	}
	shortcuts = append(shortcuts,
		components.Shortcut{Key: "ctrl+r", Desc: "rulebook"},
		components.Shortcut{Key: "ctrl+c", Desc: "quit"},
	)
	return shortcuts
}

// =============================================================================
// HELP OVERLAY
// =============================================================================

func (m *Model) helpView() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Commands"))
	b.WriteString("\n\n")

	byCat := m.registry.ByCategory()
	categories := make([]string, 0, len(byCat))
	for cat := range byCat {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		cmds := byCat[cat]
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

		b.WriteString(m.theme.HeaderSubtitle.Render(cat))
		b.WriteString("\n")
		for _, cmd := range cmds {
			usage := cmd.Name
			if cmd.Usage != "" {
				usage = cmd.Usage
			}
			b.WriteString("  ")
			b.WriteString(m.theme.ShortcutKey.Render(usage))
			b.WriteString("  ")
			b.WriteString(m.theme.ShortcutDesc.Render(cmd.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.theme.ShortcutDesc.Render("press any key to close"))

	box := m.theme.SessionList.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
