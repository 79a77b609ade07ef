// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package internal provides integration tests for the complete rulemate
// pipeline: game search against the dev backend, session binding, cited
// chat answers, citation parsing, and highlight coordination.
package internal

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/rulemate-tui/internal/backend"
	"github.com/jeranaias/rulemate-tui/internal/citation"
	"github.com/jeranaias/rulemate-tui/internal/highlight"
	"github.com/jeranaias/rulemate-tui/internal/model"
	"github.com/jeranaias/rulemate-tui/internal/rulebook"
	"github.com/jeranaias/rulemate-tui/internal/search"
	"github.com/jeranaias/rulemate-tui/internal/server"
	"github.com/jeranaias/rulemate-tui/internal/session"
	"github.com/jeranaias/rulemate-tui/internal/storage"
)

func devBackend(t *testing.T) *backend.Client {
	t.Helper()
	ts := httptest.NewServer(server.NewServer(0).Handler())
	t.Cleanup(ts.Close)
	return backend.NewClient(ts.URL)
}

// TestFullQuestionFlow walks the happy path end to end: search for a game,
// bind it to the session, ask a question, parse the cited answer, and drive
// the highlight coordinator from the first citation.
func TestFullQuestionFlow(t *testing.T) {
	client := devBackend(t)
	searchClient := search.NewClient(client)
	sessions := session.NewStore(t.TempDir())
	coordinator := highlight.NewCoordinator()
	ctx := context.Background()

	// Search: "cat" should surface the Catan family.
	games, err := searchClient.Search(ctx, "cat")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(games) == 0 {
		t.Fatal("expected candidates for 'cat'")
	}
	var catan model.Game
	for _, g := range games {
		if g.Name == "Catan" {
			catan = g
		}
	}
	if catan.Name == "" {
		t.Fatalf("Catan not in candidates: %+v", games)
	}

	// Bind the game to the durable session.
	sessionID := sessions.GetOrCreateID()
	if sessionID == "" {
		t.Fatal("empty session ID")
	}
	if err := client.AddGameToContext(ctx, catan.Name, sessionID); err != nil {
		t.Fatalf("AddGameToContext: %v", err)
	}

	// Ask a question and expect a cited answer.
	answer, err := client.Chat(ctx, "How do I win?", sessionID)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	citations := citation.Citations(answer)
	if len(citations) == 0 {
		t.Fatalf("answer has no citations: %q", answer)
	}

	// Activating the first citation notifies subscribers exactly once.
	var mu sync.Mutex
	var seen []string
	unsub := coordinator.Subscribe(func(sectionID string) {
		mu.Lock()
		seen = append(seen, sectionID)
		mu.Unlock()
	})
	defer unsub()

	coordinator.Set(citations[0].SourceID)

	mu.Lock()
	got := append([]string(nil), seen...)
	mu.Unlock()
	if len(got) != 1 || got[0] != citations[0].SourceID {
		t.Fatalf("subscriber saw %v, want [%s]", got, citations[0].SourceID)
	}

	// The cited section resolves in the rulebook.
	if _, ok := rulebook.ByID(catan.ID, citations[0].SourceID); !ok {
		t.Errorf("section %q not found in rulebook", citations[0].SourceID)
	}
}

// TestSessionSurvivesRestart verifies the durable session contract: a new
// store over the same data dir resumes the same conversation ID.
func TestSessionSurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	first := session.NewStore(dir).GetOrCreateID()
	second := session.NewStore(dir).GetOrCreateID()
	if first != second {
		t.Errorf("session did not survive restart: %q then %q", first, second)
	}

	rotated := session.NewStore(dir).StartNew()
	if rotated == first {
		t.Error("StartNew should mint a fresh ID")
	}
	if got := session.NewStore(dir).GetOrCreateID(); got != rotated {
		t.Errorf("rotated ID not persisted: %q, want %q", got, rotated)
	}
}

// TestDebouncedSearchDeliversOnlyLatest types two queries in quick
// succession; only the trailing one should reach the deliver callback
// with results.
func TestDebouncedSearchDeliversOnlyLatest(t *testing.T) {
	client := devBackend(t)
	searchClient := search.NewClient(client)
	ctx := context.Background()

	type delivery struct {
		games []model.Game
		err   error
	}
	results := make(chan delivery, 2)
	deliver := func(games []model.Game, err error) {
		results <- delivery{games, err}
	}

	searchClient.SearchDebounced(ctx, "wing", deliver)
	time.Sleep(search.DebounceInterval / 3) // well inside the window
	searchClient.SearchDebounced(ctx, "wingspan", deliver)

	select {
	case d := <-results:
		if d.err != nil {
			t.Fatalf("deliver error: %v", d.err)
		}
		if len(d.games) != 1 || d.games[0].Name != "Wingspan" {
			t.Fatalf("games = %+v, want [Wingspan]", d.games)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("debounced search never delivered")
	}

	// The superseded query must not deliver a second result.
	select {
	case d := <-results:
		t.Fatalf("unexpected second delivery: %+v", d)
	case <-time.After(search.DebounceInterval * 2):
	}
}

// TestTranscriptRoundTripKeepsCitations saves a conversation with a cited
// reply and checks the citations survive the storage round trip.
func TestTranscriptRoundTripKeepsCitations(t *testing.T) {
	store, err := storage.NewTranscriptStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewTranscriptStoreWithDir: %v", err)
	}

	conv := model.NewConversation(model.NewGame("Catan"), "rules")
	conv.AddUserMessage("how do I win")
	conv.AddAssistantMessage("Reach 10 victory points (source p.1).")

	id, err := store.Save(storage.FromConversation(conv, "sess-rt"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	restored := loaded.ToConversation()
	last := restored.GetLastAssistantMessage()
	if last == nil {
		t.Fatal("assistant message lost in round trip")
	}
	citations := citation.Citations(last.Content)
	if len(citations) != 1 || citations[0].SourceID != "p1" {
		t.Errorf("citations = %+v, want one for p1", citations)
	}
}

// TestCoordinatorUnderConcurrentSets hammers the coordinator from many
// goroutines. The final state must be one of the written values and
// subscribers must never observe a torn update.
func TestCoordinatorUnderConcurrentSets(t *testing.T) {
	coordinator := highlight.NewCoordinator()

	valid := map[string]bool{"": true}
	sections := []string{"p1", "p2", "p3", "p4", "p5"}
	for _, s := range sections {
		valid[s] = true
	}

	var mu sync.Mutex
	var bad []string
	unsub := coordinator.Subscribe(func(sectionID string) {
		if !valid[sectionID] {
			mu.Lock()
			bad = append(bad, sectionID)
			mu.Unlock()
		}
	})
	defer unsub()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				coordinator.Set(sections[(i+j)%len(sections)])
			}
		}(i)
	}
	wg.Wait()

	if len(bad) != 0 {
		t.Errorf("subscribers saw invalid section IDs: %v", bad)
	}
	if got := coordinator.Current(); !valid[got] || got == "" {
		t.Errorf("final section %q not among written values", got)
	}

	coordinator.Clear()
	coordinator.Clear() // idempotent
	if coordinator.IsHighlighted() {
		t.Error("Clear should remove the highlight")
	}
}

// TestBackendErrorsAreTyped checks that an unreachable backend surfaces
// the transport error class the UI switches on.
func TestBackendErrorsAreTyped(t *testing.T) {
	client := backend.NewClient("http://127.0.0.1:1").WithMaxRetries(0)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := client.Chat(ctx, "hello", "sess")
	if err == nil {
		t.Fatal("expected an error from an unreachable backend")
	}
	if !errors.Is(err, backend.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
