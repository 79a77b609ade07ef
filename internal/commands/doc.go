// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
//
// Input starting with "/" is parsed against a registry of commands.
// Handlers do not mutate application state directly; they return
// bubbletea commands that emit typed messages the UI model reacts to.
package commands
