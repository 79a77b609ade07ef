// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the rulemate TUI:
// the header, status bar, game search candidate list, rulebook pane, loading
// spinner, and toast notifications.
package components
