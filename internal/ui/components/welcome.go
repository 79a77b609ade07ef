// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rulemate-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// Welcome is the landing screen shown before a game is selected.
type Welcome struct {
	theme   *styles.Theme
	Version string
	Width   int
	Height  int
}

// NewWelcome creates the welcome screen.
func NewWelcome(theme *styles.Theme, version string) *Welcome {
	return &Welcome{theme: theme, Version: version, Width: 80, Height: 24}
}

// SetSize updates the screen dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.Width = width
	w.Height = height
}

// View renders the welcome box centered in the available space.
func (w *Welcome) View(searchBox, intents, candidates, quickPicks string) string {
	logo := w.theme.WelcomeLogo.Render("rulemate")
	version := w.theme.WelcomeVersion.Render("v" + w.Version)
	info := w.theme.WelcomeInfo.Render("Which game are you playing?")

	lines := []string{
		logo + " " + version,
		"",
		info,
		"",
		searchBox,
	}
	if intents != "" {
		lines = append(lines, intents)
	}
	if candidates != "" {
		lines = append(lines, candidates)
	}
	if quickPicks != "" {
		lines = append(lines, "", quickPicks)
	}
	lines = append(lines, "",
		w.theme.WelcomeKey.Render("enter")+w.theme.WelcomeInfo.Render(" select  ")+
			w.theme.WelcomeKey.Render("ctrl+c")+w.theme.WelcomeInfo.Render(" quit"))

	box := w.theme.WelcomeBox.Render(strings.Join(lines, "\n"))

	if w.Width > 0 && w.Height > 0 {
		return lipgloss.Place(w.Width, w.Height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
