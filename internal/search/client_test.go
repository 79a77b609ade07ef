// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jeranaias/rulemate-tui/internal/model"
)

// fakeBackend records queries and can block until released to simulate a
// slow backend.
type fakeBackend struct {
	mu      sync.Mutex
	queries []string
	results map[string][]string
	err     error
	block   chan struct{} // if non-nil, requests wait here or on ctx
	calls   atomic.Int32
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{results: make(map[string][]string)}
}

func (f *fakeBackend) SearchGames(ctx context.Context, query string) ([]string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.queries = append(f.queries, query)
	block := f.block
	err := f.err
	titles := f.results[query]
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if titles == nil {
		titles = []string{}
	}
	return titles, nil
}

func TestShortQuerySkipsBackend(t *testing.T) {
	backend := newFakeBackend()
	client := NewClient(backend)

	for _, q := range []string{"", "c", " c ", "   "} {
		games, err := client.Search(context.Background(), q)
		if err != nil {
			t.Fatalf("Search(%q): %v", q, err)
		}
		if len(games) != 0 {
			t.Errorf("Search(%q) = %v, want no candidates", q, games)
		}
	}
	if got := backend.calls.Load(); got != 0 {
		t.Errorf("backend called %d times for short queries, want 0", got)
	}
}

func TestQueryIsTrimmed(t *testing.T) {
	backend := newFakeBackend()
	backend.results["cat"] = []string{"Catan"}
	client := NewClient(backend)

	games, err := client.Search(context.Background(), "  cat  ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(games) != 1 || games[0].Name != "Catan" {
		t.Errorf("games = %v", games)
	}
	if backend.queries[0] != "cat" {
		t.Errorf("backend saw query %q, want trimmed %q", backend.queries[0], "cat")
	}
}

func TestCacheIsExactMatch(t *testing.T) {
	backend := newFakeBackend()
	backend.results["Cat"] = []string{"Catan"}
	backend.results["cat"] = []string{"Catan"}
	backend.results["Cata"] = []string{"Catan"}
	client := NewClient(backend)

	ctx := context.Background()
	if _, err := client.Search(ctx, "Cat"); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Search(ctx, "Cat"); err != nil {
		t.Fatal(err)
	}
	if got := backend.calls.Load(); got != 1 {
		t.Fatalf("repeat of identical query hit backend: %d calls, want 1", got)
	}

	// Different case and different length are distinct cache keys.
	if _, err := client.Search(ctx, "cat"); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Search(ctx, "Cata"); err != nil {
		t.Fatal(err)
	}
	if got := backend.calls.Load(); got != 3 {
		t.Errorf("backend calls = %d, want 3", got)
	}

	// Whitespace variants normalize to the same key.
	if _, err := client.Search(ctx, " Cat "); err != nil {
		t.Fatal(err)
	}
	if got := backend.calls.Load(); got != 3 {
		t.Errorf("trimmed variant hit backend: %d calls, want 3", got)
	}
}

func TestNoMatchIsNotError(t *testing.T) {
	backend := newFakeBackend()
	client := NewClient(backend)

	games, err := client.Search(context.Background(), "zzzz")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if games == nil || len(games) != 0 {
		t.Errorf("games = %#v, want empty non-nil", games)
	}
}

func TestBackendErrorNotCached(t *testing.T) {
	backend := newFakeBackend()
	backend.err = errors.New("backend down")
	client := NewClient(backend)

	if _, err := client.Search(context.Background(), "cat"); err == nil {
		t.Fatal("expected error from failing backend")
	}

	// Recovery: the same query must reach the backend again.
	backend.mu.Lock()
	backend.err = nil
	backend.results["cat"] = []string{"Catan"}
	backend.mu.Unlock()

	games, err := client.Search(context.Background(), "cat")
	if err != nil {
		t.Fatalf("Search after recovery: %v", err)
	}
	if len(games) != 1 {
		t.Errorf("games = %v", games)
	}
	if got := backend.calls.Load(); got != 2 {
		t.Errorf("backend calls = %d, want 2", got)
	}
}

func TestNewSearchSupersedesInflight(t *testing.T) {
	backend := newFakeBackend()
	backend.results["catan"] = []string{"Catan"}
	backend.block = make(chan struct{})
	client := NewClient(backend)

	firstDone := make(chan error, 1)
	go func() {
		_, err := client.Search(context.Background(), "cata")
		firstDone <- err
	}()

	// Wait until the first search is blocked inside the backend.
	for backend.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	// The second search cancels the first; unblock it for the second.
	backend.mu.Lock()
	backend.block = nil
	backend.mu.Unlock()

	games, err := client.Search(context.Background(), "catan")
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	if len(games) != 1 || games[0].Name != "Catan" {
		t.Errorf("games = %v", games)
	}

	if err := <-firstDone; !errors.Is(err, ErrSuperseded) {
		t.Errorf("first search err = %v, want ErrSuperseded", err)
	}
}

func TestCancelInflight(t *testing.T) {
	backend := newFakeBackend()
	backend.block = make(chan struct{})
	client := NewClient(backend)

	done := make(chan error, 1)
	go func() {
		_, err := client.Search(context.Background(), "cat")
		done <- err
	}()
	for backend.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	client.CancelInflight()

	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Errorf("err = %v, want ErrSuperseded", err)
	}
	if client.CacheSize() != 0 {
		t.Error("cancelled search must not populate the cache")
	}
}

func TestDebounceCollapsesBurst(t *testing.T) {
	backend := newFakeBackend()
	backend.results["catan"] = []string{"Catan"}
	client := NewClient(backend)

	type outcome struct {
		games []model.Game
		err   error
	}
	delivered := make(chan outcome, 8)

	// Simulated keystroke burst: each call lands well inside the
	// debounce window of the previous one.
	for _, q := range []string{"c", "ca", "cat", "cata", "catan"} {
		client.SearchDebounced(context.Background(), q, func(games []model.Game, err error) {
			delivered <- outcome{games, err}
		})
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case got := <-delivered:
		if got.err != nil {
			t.Fatalf("debounced search: %v", got.err)
		}
		if len(got.games) != 1 || got.games[0].Name != "Catan" {
			t.Errorf("games = %v", got.games)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("debounced search never delivered")
	}

	// Only the final query of the burst reaches the backend.
	if got := backend.calls.Load(); got != 1 {
		t.Errorf("backend calls = %d, want 1", got)
	}
	backend.mu.Lock()
	if len(backend.queries) != 1 || backend.queries[0] != "catan" {
		t.Errorf("backend saw %v, want only the trailing query", backend.queries)
	}
	backend.mu.Unlock()

	select {
	case extra := <-delivered:
		t.Errorf("unexpected extra delivery: %+v", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestStopDebounce(t *testing.T) {
	backend := newFakeBackend()
	client := NewClient(backend)

	client.SearchDebounced(context.Background(), "catan", func([]model.Game, error) {
		t.Error("stopped debounce must not deliver")
	})
	client.StopDebounce()

	time.Sleep(3 * DebounceInterval)
	if got := backend.calls.Load(); got != 0 {
		t.Errorf("backend calls = %d, want 0", got)
	}
}
