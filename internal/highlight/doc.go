// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package highlight tracks which rulebook section is currently emphasized.
//
// Exactly one section may be highlighted at a time across the whole
// application. The Coordinator is the single source of truth: citation
// activation sets the highlight, the viewer and the user clear it, and
// subscribers (the rulebook viewer) are notified of every change. The
// coordinator is a constructed object, not package state, so tests and
// multiple windows can hold independent instances.
package highlight
