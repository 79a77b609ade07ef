// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"reflect"
	"testing"

	"github.com/jeranaias/rulemate-tui/internal/model"
	"github.com/jeranaias/rulemate-tui/internal/storage"
)

// =============================================================================
// PARSER TESTS
// =============================================================================

func TestParsePlainInputIsNotCommand(t *testing.T) {
	p := NewParser(NewRegistry())

	result := p.Parse("how do I win?")
	if result.IsCommand {
		t.Error("plain text should not parse as a command")
	}
}

func TestParseCommandAndArgs(t *testing.T) {
	p := NewParser(NewRegistry())

	result := p.Parse("/game Catan")
	if !result.IsCommand {
		t.Fatal("expected IsCommand")
	}
	if result.CommandName != "/game" {
		t.Errorf("CommandName = %q", result.CommandName)
	}
	if result.Command == nil || result.Command.Name != "/game" {
		t.Error("command not resolved")
	}
	if !reflect.DeepEqual(result.Args, []string{"Catan"}) {
		t.Errorf("Args = %v", result.Args)
	}
}

func TestParseQuotedArgs(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{`/game "Ticket to Ride"`, []string{"Ticket to Ride"}},
		{`/game 'Catan: Seafarers'`, []string{"Catan: Seafarers"}},
		{`/game "she said \"go\""`, []string{`she said "go"`}},
		{`/game Catan  extra`, []string{"Catan", "extra"}},
	}

	p := NewParser(NewRegistry())
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := p.Parse(tt.input)
			if !reflect.DeepEqual(result.Args, tt.want) {
				t.Errorf("Args = %v, want %v", result.Args, tt.want)
			}
		})
	}
}

func TestParseAliasResolves(t *testing.T) {
	p := NewParser(NewRegistry())

	result := p.Parse("/g Wingspan")
	if result.Command == nil || result.Command.Name != "/game" {
		t.Errorf("alias /g should resolve to /game, got %+v", result.Command)
	}
}

func TestParseUnknownCommand(t *testing.T) {
	p := NewParser(NewRegistry())

	result := p.Parse("/frobnicate")
	if !result.IsCommand {
		t.Error("should still be flagged as a command attempt")
	}
	if result.Command != nil {
		t.Errorf("Command = %+v, want nil", result.Command)
	}
}

func TestExtractCommandName(t *testing.T) {
	if got := ExtractCommandName("/load abc123"); got != "/load" {
		t.Errorf("got %q", got)
	}
	if got := ExtractCommandName("not a command"); got != "" {
		t.Errorf("got %q", got)
	}
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidateArgsRequired(t *testing.T) {
	r := NewRegistry()
	cmd := r.Get("/load")

	if err := ValidateArgs(cmd, nil); err == nil {
		t.Error("missing required argument should fail validation")
	}
	if err := ValidateArgs(cmd, []string{"abc123"}); err != nil {
		t.Errorf("ValidateArgs: %v", err)
	}
}

func TestValidateArgsEnum(t *testing.T) {
	r := NewRegistry()
	cmd := r.Get("/export")

	if err := ValidateArgs(cmd, []string{"md"}); err != nil {
		t.Errorf("md should be valid: %v", err)
	}
	if err := ValidateArgs(cmd, []string{"JSON"}); err != nil {
		t.Errorf("enum match is case-insensitive: %v", err)
	}
	if err := ValidateArgs(cmd, []string{"xml"}); err == nil {
		t.Error("xml should fail enum validation")
	}
	// Optional enum: no args is fine.
	if err := ValidateArgs(cmd, nil); err != nil {
		t.Errorf("optional arg may be omitted: %v", err)
	}
}

// =============================================================================
// COMPLETION TESTS
// =============================================================================

func TestComplete(t *testing.T) {
	r := NewRegistry()

	got := r.Complete("/e")
	if !reflect.DeepEqual(got, []string{"/export"}) {
		t.Errorf("Complete(/e) = %v", got)
	}

	got = r.Complete("/q")
	if !reflect.DeepEqual(got, []string{"/quit"}) {
		t.Errorf("Complete(/q) = %v", got)
	}

	// Alias-only match still resolves to the primary name.
	got = r.Complete("/resume")
	if !reflect.DeepEqual(got, []string{"/load"}) {
		t.Errorf("Complete(/resume) = %v", got)
	}

	if got = r.Complete("plain"); got != nil {
		t.Errorf("Complete(plain) = %v", got)
	}
}

// =============================================================================
// HANDLER TESTS
// =============================================================================

func TestHandleGame(t *testing.T) {
	ctx := NewContext(nil, nil, nil, nil)

	msg := HandleGame(ctx, []string{"Ticket", "to", "Ride"})()
	switched, ok := msg.(SwitchGameMsg)
	if !ok {
		t.Fatalf("msg = %T", msg)
	}
	if switched.Name != "Ticket to Ride" {
		t.Errorf("Name = %q", switched.Name)
	}

	// Bare /game reopens the search screen.
	msg = HandleGame(ctx, nil)()
	if switched, ok := msg.(SwitchGameMsg); !ok || switched.Name != "" {
		t.Errorf("empty args should produce an empty SwitchGameMsg, got %#v", msg)
	}
}

func TestHandleSessionsAndLoad(t *testing.T) {
	store, err := storage.NewTranscriptStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := NewContext(nil, store, nil, nil)

	conv := model.NewConversation(model.NewGame("Catan"), "rules")
	conv.AddUserMessage("How do I win?")
	stored := storage.FromConversation(conv, "sess-1")
	if _, err := store.Save(stored); err != nil {
		t.Fatal(err)
	}

	msg := HandleSessions(ctx, nil)()
	listing, ok := msg.(ListSessionsMsg)
	if !ok || listing.Error != nil {
		t.Fatalf("msg = %#v", msg)
	}
	if listing.Listing == "" {
		t.Error("listing is empty")
	}

	msg = HandleLoad(ctx, []string{stored.ID})()
	loaded, ok := msg.(LoadTranscriptMsg)
	if !ok || loaded.Error != nil {
		t.Fatalf("msg = %#v", msg)
	}
	if loaded.Transcript.GameName != "Catan" {
		t.Errorf("GameName = %q", loaded.Transcript.GameName)
	}

	msg = HandleLoad(ctx, []string{"missing"})()
	if loaded, ok := msg.(LoadTranscriptMsg); !ok || loaded.Error == nil {
		t.Errorf("missing ID should report an error, got %#v", msg)
	}

	msg = HandleLoad(ctx, nil)()
	if _, ok := msg.(ErrorMsg); !ok {
		t.Errorf("no args should produce ErrorMsg, got %T", msg)
	}
}

func TestHandleExport(t *testing.T) {
	ctx := NewContext(nil, nil, nil, nil)

	msg := HandleExport(ctx, nil)()
	if export, ok := msg.(ExportConversationMsg); !ok || export.Format != "md" {
		t.Errorf("default export msg = %#v", msg)
	}

	msg = HandleExport(ctx, []string{"json"})()
	if export, ok := msg.(ExportConversationMsg); !ok || export.Format != "json" {
		t.Errorf("json export msg = %#v", msg)
	}

	msg = HandleExport(ctx, []string{"xml"})()
	if _, ok := msg.(ErrorMsg); !ok {
		t.Errorf("bad format should produce ErrorMsg, got %T", msg)
	}
}

func TestRegistryCategories(t *testing.T) {
	r := NewRegistry()

	byCat := r.ByCategory()
	if len(byCat["Navigation"]) != 2 {
		t.Errorf("Navigation = %v", byCat["Navigation"])
	}
	if len(byCat["Conversation"]) == 0 {
		t.Error("no Conversation commands")
	}
}
