// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared across the rulemate
// client: games, chat messages, and conversations.
//
// Types here are plain data with no I/O. A Conversation is an append-only
// transcript: messages are never reordered or mutated after creation.
package model
