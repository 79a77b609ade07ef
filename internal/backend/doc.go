// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend is the HTTP client for the Rules Mate answering service.
//
// The service exposes three endpoints: game search, game selection, and
// chat. The Client wraps them behind typed methods with retries for
// transient chat failures, a shared pooled transport, bounded response
// reads, and a request rate limiter. All methods take a context and all
// failures come back as typed errors the UI can distinguish.
package backend
