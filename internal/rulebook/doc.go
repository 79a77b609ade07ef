// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package rulebook holds the parsed rulebook sections shown in the
// viewer pane. Sections are keyed by the same "p"+page token that
// citations resolve to, so a citation click maps straight to a section.
package rulebook
