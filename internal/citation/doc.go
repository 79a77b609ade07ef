// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package citation extracts rulebook page citations from assistant text.
//
// Assistant answers embed markers of the literal form "(source p.N)" where
// N is a page number. Parse splits a message into an ordered sequence of
// plain-text and citation segments so the rendering layer can make the
// citations interactive without re-scanning the text. Parsing is pure:
// no state, no I/O, and it never fails — text without markers comes back
// as a single verbatim segment.
package citation
