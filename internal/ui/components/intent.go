// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/rulemate-tui/internal/ui/styles"
)

// Intents are the question modes the backend understands.
var Intents = []string{"rules", "clarifications", "walkthrough", "setup"}

// IntentPicker selects the question mode on the landing screen.
type IntentPicker struct {
	theme    *styles.Theme
	selected int
}

// NewIntentPicker creates a picker starting on the first intent.
func NewIntentPicker(theme *styles.Theme) *IntentPicker {
	return &IntentPicker{theme: theme}
}

// Selected returns the chosen intent.
func (p *IntentPicker) Selected() string {
	return Intents[p.selected]
}

// Next advances the selection, wrapping.
func (p *IntentPicker) Next() {
	p.selected = (p.selected + 1) % len(Intents)
}

// Prev moves the selection back, wrapping.
func (p *IntentPicker) Prev() {
	p.selected = (p.selected - 1 + len(Intents)) % len(Intents)
}

// View renders the intents in a row with the selection marked.
func (p *IntentPicker) View() string {
	parts := make([]string, 0, len(Intents))
	for i, intent := range Intents {
		if i == p.selected {
			parts = append(parts, p.theme.CandidateSelected.Render("["+intent+"]"))
		} else {
			parts = append(parts, p.theme.CandidateItem.Render(" "+intent+" "))
		}
	}
	label := p.theme.QuickPickLabel.Render("mode (left/right): ")
	return label + strings.Join(parts, " ")
}
