// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main Bubble Tea model for the rulemate TUI.
//
// The model has two phases: a landing screen where the user searches for a
// game, and the chat phase where questions go to the backend and cited
// answers come back. Citations in assistant replies are focusable; activating
// one drives the rulebook pane through the highlight coordinator.
package chat
