// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/rulemate-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// Shortcut is one key binding hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar renders the bottom bar with session info and key hints.
type StatusBar struct {
	theme     *styles.Theme
	Width     int
	SessionID string
	Ephemeral bool
	shortcuts []Shortcut
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme, Width: 80}
}

// SetWidth updates the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetSession records the session shown in the bar. Ephemeral sessions get a
// warning marker because they will not survive a restart.
func (s *StatusBar) SetSession(id string, ephemeral bool) {
	s.SessionID = id
	s.Ephemeral = ephemeral
}

// SetShortcuts replaces the key hints.
func (s *StatusBar) SetShortcuts(shortcuts []Shortcut) {
	s.shortcuts = shortcuts
}

// View renders the status bar.
func (s *StatusBar) View() string {
	var parts []string

	if s.SessionID != "" {
		id := s.SessionID
		if len(id) > 8 {
			id = id[:8]
		}
		label := "session " + id
		if s.Ephemeral {
			label += " " + styles.StatusIndicators.Warning
		}
		parts = append(parts, s.theme.ShortcutDesc.Render(label))
	}

	for _, sc := range s.shortcuts {
		parts = append(parts,
			s.theme.ShortcutKey.Render(sc.Key)+s.theme.ShortcutDesc.Render(" "+sc.Desc))
	}

	line := strings.Join(parts, "  ")
	return s.theme.StatusBar.Width(s.Width).Render(line)
}
