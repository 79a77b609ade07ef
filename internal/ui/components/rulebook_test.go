// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rulemate-tui/internal/highlight"
	"github.com/jeranaias/rulemate-tui/internal/ui/styles"
)

func newTestViewer() (*RulebookViewer, *highlight.Coordinator) {
	coord := highlight.NewCoordinator()
	v := NewRulebookViewer(styles.NewTheme(), coord)
	v.SetSize(80, 24)
	v.SetGame("catan", "Catan")
	return v, coord
}

func TestViewerStartsCollapsed(t *testing.T) {
	v, _ := newTestViewer()

	if v.Expanded() {
		t.Error("viewer should start collapsed")
	}
	if view := v.View(); !strings.Contains(view, "rulebook") {
		t.Errorf("collapsed view should hint at the pane: %q", view)
	}
}

func TestHighlightWhileCollapsedExpandsThenDefersScroll(t *testing.T) {
	v, _ := newTestViewer()

	cmd := v.ApplyHighlight("p3")
	if !v.Expanded() {
		t.Error("highlight should expand a collapsed pane")
	}
	if v.HighlightedID() != "p3" {
		t.Errorf("HighlightedID = %q", v.HighlightedID())
	}
	if cmd == nil {
		t.Fatal("expected a settle command for the deferred scroll")
	}

	// The settle message completes the scroll.
	v.Settle(RulebookSettledMsg{SectionID: "p3"})
	if !strings.Contains(v.View(), "Turn Structure") {
		t.Error("highlighted section should be visible after settle")
	}
}

func TestHighlightWhileExpandedScrollsImmediately(t *testing.T) {
	v, _ := newTestViewer()
	v.Toggle() // expand

	cmd := v.ApplyHighlight("p5")
	if cmd != nil {
		t.Error("already-expanded pane should not defer the scroll")
	}
	if !strings.Contains(v.View(), "Building Costs") {
		t.Error("target section should be scrolled into view")
	}
}

func TestUnknownSectionIsIgnored(t *testing.T) {
	v, _ := newTestViewer()

	if cmd := v.ApplyHighlight("p99"); cmd != nil {
		t.Error("unknown section should be a no-op")
	}
	if v.Expanded() {
		t.Error("unknown section should not expand the pane")
	}
	if v.HighlightedID() != "" {
		t.Errorf("HighlightedID = %q", v.HighlightedID())
	}
}

func TestClearHighlightRoutesThroughCoordinator(t *testing.T) {
	v, coord := newTestViewer()
	coord.Set("p2")
	v.ApplyHighlight("p2")

	var cleared bool
	coord.Subscribe(func(id string) {
		if id == "" {
			cleared = true
		}
	})

	v.ClearHighlight()
	if !cleared {
		t.Error("ClearHighlight should notify through the coordinator")
	}

	// The UI applies the cleared state when the notification arrives.
	v.ApplyHighlight("")
	if v.HighlightedID() != "" {
		t.Errorf("HighlightedID = %q after clear", v.HighlightedID())
	}
}

func TestHighlightScrollsWhenContentOverflows(t *testing.T) {
	v, _ := newTestViewer()
	v.Toggle() // expand

	v.ApplyHighlight("p5")
	if v.viewport.YOffset == 0 {
		t.Errorf("viewport did not scroll toward the last section (offsets=%v, total=%d, height=%d)",
			v.offsets, v.viewport.TotalLineCount(), v.viewport.Height)
	}
	if !strings.Contains(v.View(), "Building Costs") {
		t.Error("target section should be in the visible region")
	}
}

func TestRenderedLinesFitViewportWidth(t *testing.T) {
	v, _ := newTestViewer()
	v.Toggle()
	v.ApplyHighlight("p3")

	// A line wider than the viewport would wrap at the terminal and throw
	// off the row accounting behind the section offsets.
	for _, line := range strings.Split(v.viewport.View(), "\n") {
		if w := lipgloss.Width(line); w > v.viewport.Width {
			t.Errorf("rendered line is %d cells, wider than the %d-cell viewport: %q",
				w, v.viewport.Width, line)
		}
	}
}

func TestStaleSettleIsIgnored(t *testing.T) {
	v, _ := newTestViewer()
	v.ApplyHighlight("p2")
	v.ApplyHighlight("p4")

	// A settle for the superseded target must not scroll.
	v.Settle(RulebookSettledMsg{SectionID: "p2"})
	if v.HighlightedID() != "p4" {
		t.Errorf("HighlightedID = %q, want p4", v.HighlightedID())
	}
}
