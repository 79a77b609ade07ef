// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server is a local development backend for rulemate.
//
// It implements the same three endpoints the production answering
// service exposes, backed by a bundled game catalog and the demo
// rulebook, so the TUI can be developed and tested without network
// access:
//
//   - GET  /games/search?q=             - incremental game search
//   - POST /add_game_to_context        - bind a game to a session
//   - GET  /chat?user_input=&session_id= - canned cited answers
//   - GET  /health                     - liveness probe
package server
