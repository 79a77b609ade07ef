// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rulemate-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar showing the active game and intent.
type Header struct {
	Title    string
	GameName string
	Intent   string
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a header with defaults.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "rulemate",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetGame updates the active game shown in the header.
func (h *Header) SetGame(name, intent string) {
	h.GameName = name
	h.Intent = intent
}

// View renders the full header box.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}
	innerWidth := width - 6

	accent := lipgloss.NewStyle().Foreground(styles.Purple)
	brand := accent.Render("< ") +
		h.theme.HeaderTitle.Render(h.Title) +
		accent.Render(" >")

	var subtitleParts []string
	if h.GameName != "" {
		subtitleParts = append(subtitleParts, h.theme.GameBadge.Render(h.GameName))
	}
	if h.Intent != "" {
		subtitleParts = append(subtitleParts, h.theme.HeaderSubtitle.Render(h.Intent))
	}
	if len(subtitleParts) == 0 {
		subtitleParts = append(subtitleParts, h.theme.HeaderSubtitle.Render("board game rules assistant"))
	}
	subtitle := strings.Join(subtitleParts, " | ")

	center := lipgloss.NewStyle().Width(innerWidth).Align(lipgloss.Center)
	content := lipgloss.JoinVertical(lipgloss.Center,
		center.Render(brand),
		center.Render(subtitle),
	)

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Purple).
		Background(styles.SurfaceDim).
		Padding(0, 2).
		Width(width).
		Render(content)
}

// ViewCompact renders a single-line header for narrow terminals.
func (h *Header) ViewCompact() string {
	accent := lipgloss.NewStyle().Foreground(styles.Purple)
	parts := []string{
		accent.Render("<") + h.theme.HeaderTitle.Render(h.Title) + accent.Render(">"),
	}
	if h.GameName != "" {
		parts = append(parts, h.theme.GameBadge.Render(h.GameName))
	}

	separator := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")
	return strings.Join(parts, separator)
}
