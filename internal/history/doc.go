// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history records which games the user asks about.
//
// Selections land in a small SQLite database so the landing screen can
// offer quick picks: recently chosen games and all-time favorites. The
// store is advisory; every method degrades to empty results rather than
// blocking the chat flow on database trouble.
package history
