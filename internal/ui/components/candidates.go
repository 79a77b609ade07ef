// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rulemate-tui/internal/model"
	"github.com/jeranaias/rulemate-tui/internal/ui/styles"
)

// =============================================================================
// CANDIDATE LIST
// =============================================================================

// CandidateList shows game search results under the search box. Selection
// wraps at both ends.
type CandidateList struct {
	theme *styles.Theme

	candidates []model.Game
	selected   int
	maxVisible int
}

// NewCandidateList creates an empty candidate list.
func NewCandidateList(theme *styles.Theme) *CandidateList {
	return &CandidateList{
		theme:      theme,
		maxVisible: 8,
	}
}

// SetCandidates replaces the list and resets the selection.
func (c *CandidateList) SetCandidates(games []model.Game) {
	c.candidates = games
	c.selected = 0
}

// SetMaxVisible caps how many candidates render at once.
func (c *CandidateList) SetMaxVisible(n int) {
	if n > 0 {
		c.maxVisible = n
	}
}

// Clear empties the list.
func (c *CandidateList) Clear() {
	c.candidates = nil
	c.selected = 0
}

// Len returns the number of candidates.
func (c *CandidateList) Len() int {
	return len(c.candidates)
}

// Selected returns the currently selected game, if any.
func (c *CandidateList) Selected() (model.Game, bool) {
	if len(c.candidates) == 0 {
		return model.Game{}, false
	}
	return c.candidates[c.selected], true
}

// MoveUp moves the selection up, wrapping to the bottom.
func (c *CandidateList) MoveUp() {
	if len(c.candidates) == 0 {
		return
	}
	c.selected--
	if c.selected < 0 {
		c.selected = len(c.candidates) - 1
	}
}

// MoveDown moves the selection down, wrapping to the top.
func (c *CandidateList) MoveDown() {
	if len(c.candidates) == 0 {
		return
	}
	c.selected = (c.selected + 1) % len(c.candidates)
}

// View renders the candidate list.
func (c *CandidateList) View() string {
	if len(c.candidates) == 0 {
		return ""
	}

	visible := c.candidates
	offset := 0
	if len(visible) > c.maxVisible {
		// Keep the selection in the visible window.
		offset = c.selected - c.maxVisible + 1
		if offset < 0 {
			offset = 0
		}
		visible = visible[offset : offset+c.maxVisible]
	}

	lines := make([]string, 0, len(visible))
	for i, game := range visible {
		if offset+i == c.selected {
			lines = append(lines, c.theme.CandidateSelected.Render("> "+game.Name))
		} else {
			lines = append(lines, c.theme.CandidateItem.Render("  "+game.Name))
		}
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// QUICK PICKS
// =============================================================================

// QuickPicks shows recently used games on the landing screen, selectable by
// number key.
type QuickPicks struct {
	theme *styles.Theme
	games []model.Game
}

// NewQuickPicks creates an empty quick pick row.
func NewQuickPicks(theme *styles.Theme) *QuickPicks {
	return &QuickPicks{theme: theme}
}

// SetGames replaces the quick pick entries. At most nine are kept so each
// maps to a digit key.
func (q *QuickPicks) SetGames(games []model.Game) {
	if len(games) > 9 {
		games = games[:9]
	}
	q.games = games
}

// Pick returns the game bound to digit n (1-based).
func (q *QuickPicks) Pick(n int) (model.Game, bool) {
	if n < 1 || n > len(q.games) {
		return model.Game{}, false
	}
	return q.games[n-1], true
}

// Len returns the number of quick picks.
func (q *QuickPicks) Len() int {
	return len(q.games)
}

// View renders the quick pick row.
func (q *QuickPicks) View() string {
	if len(q.games) == 0 {
		return ""
	}

	label := q.theme.QuickPickLabel.Render("Recent:")
	entries := make([]string, 0, len(q.games)+1)
	entries = append(entries, label)
	for i, game := range q.games {
		key := q.theme.ShortcutKey.Render("[" + strconv.Itoa(i+1) + "]")
		entries = append(entries, key+q.theme.QuickPick.Render(game.Name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(entries, " "))
}
