// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/rulemate-tui/internal/backend"
	"github.com/jeranaias/rulemate-tui/internal/citation"
)

// devClient mounts the dev backend on an httptest server and returns a
// backend client pointed at it.
func devClient(t *testing.T) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(NewServer(0).Handler())
	t.Cleanup(srv.Close)
	return backend.NewClient(srv.URL).WithHTTPClient(srv.Client())
}

func TestSearchFindsCatalogGames(t *testing.T) {
	client := devClient(t)

	titles, err := client.SearchGames(context.Background(), "cat")
	if err != nil {
		t.Fatalf("SearchGames: %v", err)
	}
	if len(titles) != 3 {
		t.Fatalf("titles = %v, want the three Catan entries", titles)
	}
	for _, title := range titles {
		if !strings.Contains(strings.ToLower(title), "cat") {
			t.Errorf("unexpected match %q", title)
		}
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	client := devClient(t)

	lower, err := client.SearchGames(context.Background(), "wingspan")
	if err != nil {
		t.Fatal(err)
	}
	upper, err := client.SearchGames(context.Background(), "WINGSPAN")
	if err != nil {
		t.Fatal(err)
	}
	if len(lower) != 1 || len(upper) != 1 {
		t.Errorf("lower = %v, upper = %v", lower, upper)
	}
}

func TestSearchNoMatches(t *testing.T) {
	client := devClient(t)

	titles, err := client.SearchGames(context.Background(), "zzzz")
	if err != nil {
		t.Fatalf("SearchGames: %v", err)
	}
	if len(titles) != 0 {
		t.Errorf("titles = %v, want none", titles)
	}
}

func TestAddGameThenChat(t *testing.T) {
	client := devClient(t)
	ctx := context.Background()

	if err := client.AddGameToContext(ctx, "Catan", "sess-1"); err != nil {
		t.Fatalf("AddGameToContext: %v", err)
	}

	answer, err := client.Chat(ctx, "How do I win?", "sess-1")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if !strings.Contains(answer, "10 victory points") {
		t.Errorf("answer = %q", answer)
	}

	// Every answer cites at least one rulebook page.
	if len(citation.Citations(answer)) == 0 {
		t.Errorf("answer carries no citations: %q", answer)
	}
}

func TestChatTopicRouting(t *testing.T) {
	client := devClient(t)
	ctx := context.Background()

	tests := []struct {
		input    string
		wantPage int
	}{
		{"How do I win the game?", 1},
		{"What happens during setup?", 2},
		{"Walk me through a turn", 3},
		{"What does the robber do?", 4},
		{"What does a city cost?", 5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			answer, err := client.Chat(ctx, tt.input, "sess-topics")
			if err != nil {
				t.Fatalf("Chat: %v", err)
			}
			pages := citation.Pages(answer)
			if len(pages) == 0 || pages[0] != tt.wantPage {
				t.Errorf("pages = %v, want first citation on page %d\nanswer: %s", pages, tt.wantPage, answer)
			}
		})
	}
}

func TestChatUnknownTopicStillCites(t *testing.T) {
	client := devClient(t)

	answer, err := client.Chat(context.Background(), "qwerty asdf?", "sess-x")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if len(citation.Pages(answer)) == 0 {
		t.Errorf("fallback answer carries no citation: %q", answer)
	}
}

func TestChatRequiresInput(t *testing.T) {
	client := devClient(t)

	_, err := client.Chat(context.Background(), "", "sess-1")
	if err == nil {
		t.Fatal("expected error for empty user_input")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("fourth request should be limited")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("other IPs have their own window")
	}
}
