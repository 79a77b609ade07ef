// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the durable backend conversation identifier.
//
// The backend keys conversation state on an opaque session ID that the
// client supplies with every chat request and game selection. The Store
// persists one ID in a single file slot under the data directory so the
// conversation survives restarts. When the slot cannot be read or
// written the Store degrades to an ephemeral in-memory ID rather than
// failing: a working conversation with no persistence beats no
// conversation at all.
package session
