// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package search finds games by name while the user types.
//
// The Client sits between keystrokes and the backend: queries shorter
// than the minimum length short-circuit to no candidates, repeated
// queries are answered from an in-memory cache, and starting a new
// search cancels the one in flight so a stale response can never land
// on top of a newer query. Superseded searches fail with ErrSuperseded,
// which callers treat as "ignore", never as a user-facing error.
//
// SearchDebounced adds trailing-edge debouncing for callers that fire
// on every keystroke.
package search
