// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewThemeInitializesStyles(t *testing.T) {
	theme := NewTheme()

	// Spot-check a few styles actually render content.
	if got := theme.Citation.Render("(source p.3)"); !strings.Contains(got, "p.3") {
		t.Errorf("Citation render lost its text: %q", got)
	}
	if got := theme.SectionHeader.Render("Setup"); !strings.Contains(got, "Setup") {
		t.Errorf("SectionHeader render lost its text: %q", got)
	}
}

func TestLayoutModes(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}

	theme := NewTheme()
	for _, tt := range tests {
		theme.SetSize(tt.width, 40)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: mode = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestRenderHelpersIncludeIndicator(t *testing.T) {
	if got := RenderError("backend unreachable"); !strings.Contains(got, "[X]") {
		t.Errorf("RenderError = %q", got)
	}
	if got := RenderWarning("session is ephemeral"); !strings.Contains(got, "[!]") {
		t.Errorf("RenderWarning = %q", got)
	}
	if got := RenderInfo("connected"); !strings.Contains(got, "[i]") {
		t.Errorf("RenderInfo = %q", got)
	}
}
