// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package highlight

import "sync"

// =============================================================================
// COORDINATOR
// =============================================================================

// Coordinator is a two-state machine: Idle (no highlight) or Highlighted
// with one section ID. Transitions are applied in call order and the
// latest call wins; there is no queueing.
type Coordinator struct {
	mu        sync.Mutex
	sectionID string // empty means Idle

	subscribers map[int]func(sectionID string)
	nextSubID   int
}

// NewCoordinator creates an idle coordinator with no subscribers.
func NewCoordinator() *Coordinator {
	return &Coordinator{
		subscribers: make(map[int]func(string)),
	}
}

// Set moves the coordinator to Highlighted(sectionID), overwriting any
// previous section. Subscribers are notified with the new section ID.
// Setting the already-current section is a no-op and does not re-notify.
func (c *Coordinator) Set(sectionID string) {
	if sectionID == "" {
		c.Clear()
		return
	}

	c.mu.Lock()
	if c.sectionID == sectionID {
		c.mu.Unlock()
		return
	}
	c.sectionID = sectionID
	listeners := c.listenersLocked()
	c.mu.Unlock()

	// Notify outside the lock so a listener may call back into the
	// coordinator without deadlocking.
	for _, fn := range listeners {
		fn(sectionID)
	}
}

// Clear moves the coordinator to Idle. Calling Clear while already Idle is
// a no-op: subscribers are not notified of a spurious change.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	if c.sectionID == "" {
		c.mu.Unlock()
		return
	}
	c.sectionID = ""
	listeners := c.listenersLocked()
	c.mu.Unlock()

	for _, fn := range listeners {
		fn("")
	}
}

// Current returns the highlighted section ID, or "" when Idle.
func (c *Coordinator) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sectionID
}

// IsHighlighted reports whether any section is currently highlighted.
func (c *Coordinator) IsHighlighted() bool {
	return c.Current() != ""
}

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

// Subscribe registers a listener called on every state change with the new
// section ID ("" for cleared). Returns an unsubscribe function; calling it
// more than once is safe.
func (c *Coordinator) Subscribe(fn func(sectionID string)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

// listenersLocked snapshots the subscriber list in registration order.
// Must be called with the lock held.
func (c *Coordinator) listenersLocked() []func(string) {
	listeners := make([]func(string), 0, len(c.subscribers))
	for id := 0; id < c.nextSubID; id++ {
		if fn, ok := c.subscribers[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	return listeners
}
