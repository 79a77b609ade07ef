// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/rulemate-tui/internal/model"
)

func newTestStore(t *testing.T) *TranscriptStore {
	t.Helper()
	store, err := NewTranscriptStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return store
}

func sampleConversation() *model.Conversation {
	conv := model.NewConversation(model.NewGame("Catan"), "rules")
	conv.AddUserMessage("How do cities score?")
	conv.AddAssistantMessage("Cities score 2 points (source p.5).")
	return conv
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	conv := sampleConversation()

	id, err := store.Save(FromConversation(conv, "sess-1"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id != conv.ID {
		t.Errorf("Save returned %q, want %q", id, conv.ID)
	}

	loaded, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	restored := loaded.ToConversation()
	if restored.Game.Name != "Catan" || restored.Game.ID != "catan" {
		t.Errorf("game = %+v", restored.Game)
	}
	if restored.Intent != "rules" {
		t.Errorf("intent = %q", restored.Intent)
	}
	if restored.MessageCount() != 2 {
		t.Fatalf("message count = %d, want 2", restored.MessageCount())
	}
	if got := restored.Messages[1].Content; got != conv.Messages[1].Content {
		t.Errorf("assistant content = %q", got)
	}
	if loaded.SessionID != "sess-1" {
		t.Errorf("session id = %q", loaded.SessionID)
	}
}

func TestAssistantPagesExtractedOnSave(t *testing.T) {
	stored := FromConversation(sampleConversation(), "s")

	if got := stored.Messages[0].Pages; got != nil {
		t.Errorf("user message pages = %v, want none", got)
	}
	if got := stored.Messages[1].Pages; !reflect.DeepEqual(got, []int{5}) {
		t.Errorf("assistant pages = %v, want [5]", got)
	}
}

func TestLoadMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Load("conv_nope")
	if !errors.Is(err, ErrTranscriptNotFound) {
		t.Errorf("err = %v, want ErrTranscriptNotFound", err)
	}
}

func TestListOrdersByUpdate(t *testing.T) {
	store := newTestStore(t)

	older := FromConversation(sampleConversation(), "s")
	older.CreatedAt = time.Now().Add(-time.Hour)
	if _, err := store.Save(older); err != nil {
		t.Fatal(err)
	}

	newer := FromConversation(sampleConversation(), "s")
	if _, err := store.Save(newer); err != nil {
		t.Fatal(err)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("len = %d, want 2", len(metas))
	}
	if metas[0].ID != newer.ID {
		t.Errorf("most recent first: got %q, want %q", metas[0].ID, newer.ID)
	}
	if metas[0].Preview != "How do cities score?" {
		t.Errorf("preview = %q", metas[0].Preview)
	}
}

func TestDeleteAndClear(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Save(FromConversation(sampleConversation(), "s"))
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(id); !errors.Is(err, ErrTranscriptNotFound) {
		t.Errorf("second delete err = %v", err)
	}

	if _, err := store.Save(FromConversation(sampleConversation(), "s")); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	metas, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 0 {
		t.Errorf("len after Clear = %d", len(metas))
	}
}

func TestMaxTranscriptsEnforced(t *testing.T) {
	store := newTestStore(t)
	store.MaxTranscripts = 2

	var first string
	for i := 0; i < 3; i++ {
		stored := FromConversation(sampleConversation(), "s")
		stored.UpdatedAt = time.Now().Add(time.Duration(i) * time.Minute)
		id, err := store.Save(stored)
		if err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			first = id
		}
		// Save stamps UpdatedAt with the wall clock; space the saves out
		// so ordering is deterministic.
		time.Sleep(5 * time.Millisecond)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 2 {
		t.Fatalf("len = %d, want 2", len(metas))
	}
	for _, m := range metas {
		if m.ID == first {
			t.Error("oldest transcript should have been evicted")
		}
	}
}

func TestSearch(t *testing.T) {
	store := newTestStore(t)

	catan := FromConversation(sampleConversation(), "s")
	if _, err := store.Save(catan); err != nil {
		t.Fatal(err)
	}

	wingspan := model.NewConversation(model.NewGame("Wingspan"), "setup")
	wingspan.AddUserMessage("How many birds to start?")
	if _, err := store.Save(FromConversation(wingspan, "s")); err != nil {
		t.Fatal(err)
	}

	results, err := store.Search("wing")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].GameName != "Wingspan" {
		t.Errorf("results = %+v", results)
	}
}

func TestExportMarkdown(t *testing.T) {
	md := FromConversation(sampleConversation(), "s").ExportMarkdown()

	for _, want := range []string{"Game: Catan", "**You**", "**Rules Mate**", "(source p.5)"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestFormatTranscriptListEmpty(t *testing.T) {
	if got := FormatTranscriptList(nil); got != "No saved conversations." {
		t.Errorf("got %q", got)
	}
}
