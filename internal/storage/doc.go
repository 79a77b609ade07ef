// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists chat transcripts to disk.
//
// Each transcript is one JSON file under the transcripts directory,
// written atomically so a crash mid-save never corrupts an existing
// conversation. The store also enforces a cap on the number of saved
// transcripts, dropping the oldest first.
package storage
