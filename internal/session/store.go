// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jeranaias/rulemate-tui/internal/util"
)

// sessionFileName is the slot under the data directory that holds the
// current session ID.
const sessionFileName = "session_id"

// =============================================================================
// STORE
// =============================================================================

// Store manages the durable session identifier. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	dataDir string
	current string
}

// NewStore creates a store backed by dataDir. The directory is created on
// first write, not here, so construction never fails.
func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// GetOrCreateID returns the persisted session ID, creating and persisting a
// fresh one if none exists. Repeated calls return the same value until
// StartNew is called. When the slot cannot be read or written the returned
// ID is ephemeral: valid for this process, gone on restart.
func (s *Store) GetOrCreateID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != "" {
		return s.current
	}

	if id := s.readSlot(); id != "" {
		s.current = id
		return id
	}

	s.current = uuid.NewString()
	s.writeSlot(s.current)
	return s.current
}

// StartNew generates a fresh session ID, persists it over the old slot, and
// returns it. The previous conversation becomes unreachable from this client.
func (s *Store) StartNew() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = uuid.NewString()
	s.writeSlot(s.current)
	return s.current
}

// =============================================================================
// SLOT I/O
// =============================================================================

func (s *Store) slotPath() string {
	return filepath.Join(s.dataDir, sessionFileName)
}

// readSlot returns the stored ID, or "" when the slot is missing, empty,
// or unreadable.
func (s *Store) readSlot() string {
	data, err := os.ReadFile(s.slotPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// writeSlot persists id atomically. Failure is tolerated: the in-memory ID
// stays usable for the lifetime of the process.
func (s *Store) writeSlot(id string) {
	if err := os.MkdirAll(s.dataDir, 0700); err != nil {
		return
	}
	_ = util.AtomicWriteFile(s.slotPath(), []byte(id+"\n"), 0600)
}
