// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/rulemate-tui/internal/model"
)

const (
	// MinQueryLength is the shortest trimmed query that triggers a
	// backend request. Shorter input resolves to no candidates locally.
	MinQueryLength = 2

	// DebounceInterval is how long SearchDebounced waits after the last
	// keystroke before hitting the backend.
	DebounceInterval = 150 * time.Millisecond
)

// ErrSuperseded means a newer search started before this one finished.
// It is a control-flow signal, not a failure: callers drop the result
// and wait for the newer search to deliver.
var ErrSuperseded = errors.New("search superseded by a newer query")

// Backend is the slice of the API client that search needs.
type Backend interface {
	SearchGames(ctx context.Context, query string) ([]string, error)
}

// =============================================================================
// CLIENT
// =============================================================================

// Client performs cached, cancellable game searches. Safe for concurrent
// use; at most one backend request is in flight at a time.
type Client struct {
	backend Backend

	mu     sync.Mutex
	cache  map[string][]model.Game // keyed by exact trimmed query
	cancel context.CancelFunc      // cancels the in-flight search, if any
	gen    uint64                  // incremented per search; stale results are dropped

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
}

// NewClient creates a search client over the given backend.
func NewClient(backend Backend) *Client {
	return &Client{
		backend: backend,
		cache:   make(map[string][]model.Game),
	}
}

// Search resolves query to a list of candidate games.
//
// The query is trimmed first. Trimmed queries shorter than MinQueryLength
// return an empty slice without touching the network or the in-flight
// search. A query previously answered successfully is served from cache.
// Otherwise the in-flight search (if any) is cancelled and a backend
// request is issued; if yet another search starts before it completes,
// Search returns ErrSuperseded.
func (c *Client) Search(ctx context.Context, query string) ([]model.Game, error) {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) < MinQueryLength {
		return []model.Game{}, nil
	}

	c.mu.Lock()
	if games, ok := c.cache[trimmed]; ok {
		c.mu.Unlock()
		return cloneGames(games), nil
	}

	// Newest query wins: kill whatever is still in flight.
	if c.cancel != nil {
		c.cancel()
	}
	searchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.gen++
	myGen := c.gen
	c.mu.Unlock()

	titles, err := c.backend.SearchGames(searchCtx, trimmed)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != myGen {
		return nil, ErrSuperseded
	}
	c.cancel = nil
	cancel()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, ErrSuperseded
		}
		// Failures are not cached; the same query retries next time.
		return nil, err
	}

	games := make([]model.Game, 0, len(titles))
	for _, title := range titles {
		games = append(games, model.NewGame(title))
	}
	c.cache[trimmed] = games
	return cloneGames(games), nil
}

// CancelInflight aborts the in-flight search, if any. Used when the user
// leaves the search screen.
func (c *Client) CancelInflight() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
		c.gen++
	}
}

// CacheSize returns the number of cached queries.
func (c *Client) CacheSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// ClearCache drops all cached results.
func (c *Client) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string][]model.Game)
}

// cloneGames returns a copy so callers cannot mutate cache entries.
func cloneGames(games []model.Game) []model.Game {
	out := make([]model.Game, len(games))
	copy(out, games)
	return out
}

// =============================================================================
// DEBOUNCE
// =============================================================================

// SearchDebounced schedules a Search for query after DebounceInterval and
// delivers the outcome to deliver from a separate goroutine. Calling it
// again before the interval elapses discards the pending search, so only
// the final query of a burst reaches the backend. Results the Client
// deems superseded are delivered as ErrSuperseded like with Search.
func (c *Client) SearchDebounced(ctx context.Context, query string, deliver func([]model.Game, error)) {
	c.debounceMu.Lock()
	defer c.debounceMu.Unlock()

	if c.debounceTimer != nil {
		c.debounceTimer.Stop()
	}
	c.debounceTimer = time.AfterFunc(DebounceInterval, func() {
		games, err := c.Search(ctx, query)
		deliver(games, err)
	})
}

// StopDebounce discards any pending debounced search without running it.
func (c *Client) StopDebounce() {
	c.debounceMu.Lock()
	defer c.debounceMu.Unlock()
	if c.debounceTimer != nil {
		c.debounceTimer.Stop()
		c.debounceTimer = nil
	}
}
