// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rulemate-tui/internal/storage"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// These messages are sent by command handlers to update application state.

// ShowHelpMsg triggers the help display.
type ShowHelpMsg struct{}

// NewConversationMsg starts a fresh conversation and rotates the session.
type NewConversationMsg struct{}

// SwitchGameMsg requests switching the active game.
type SwitchGameMsg struct {
	Name string
}

// ListSessionsMsg carries the rendered transcript list.
type ListSessionsMsg struct {
	Listing string
	Error   error
}

// LoadTranscriptMsg triggers loading a transcript.
type LoadTranscriptMsg struct {
	Transcript *storage.StoredTranscript
	Error      error
}

// ClearConversationMsg clears the visible conversation.
type ClearConversationMsg struct{}

// ExportConversationMsg triggers exporting the conversation.
type ExportConversationMsg struct {
	Format string // "json" or "md"
}

// ErrorMsg surfaces a command error to the user.
type ErrorMsg struct {
	Title   string
	Message string
}

// SystemMessageMsg adds a system notice to the chat.
type SystemMessageMsg struct {
	Content string
}

// =============================================================================
// HANDLERS
// =============================================================================

// HandleHelp shows the command reference.
func HandleHelp(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return ShowHelpMsg{}
	}
}

// HandleQuit exits the program.
func HandleQuit(ctx *Context, args []string) tea.Cmd {
	return tea.Quit
}

// HandleNew starts a new conversation under a fresh session ID.
func HandleNew(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return NewConversationMsg{}
	}
}

// HandleGame switches the active game. Without an argument it reopens
// the game search screen.
func HandleGame(ctx *Context, args []string) tea.Cmd {
	name := strings.TrimSpace(strings.Join(args, " "))
	return func() tea.Msg {
		return SwitchGameMsg{Name: name}
	}
}

// HandleSessions lists saved transcripts.
func HandleSessions(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		if ctx.Storage == nil {
			return ListSessionsMsg{Error: storage.ErrTranscriptNotFound}
		}
		metas, err := ctx.Storage.List()
		if err != nil {
			return ListSessionsMsg{Error: err}
		}
		return ListSessionsMsg{Listing: storage.FormatTranscriptList(metas)}
	}
}

// HandleLoad loads a transcript by ID.
func HandleLoad(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) == 0 {
			return ErrorMsg{Title: "Missing ID", Message: "Usage: /load <transcript_id>"}
		}
		if ctx.Storage == nil {
			return LoadTranscriptMsg{Error: storage.ErrTranscriptNotFound}
		}
		t, err := ctx.Storage.Load(args[0])
		if err != nil {
			return LoadTranscriptMsg{Error: err}
		}
		return LoadTranscriptMsg{Transcript: t}
	}
}

// HandleClear clears the conversation view.
func HandleClear(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return ClearConversationMsg{}
	}
}

// HandleExport exports the conversation. Default format is markdown.
func HandleExport(ctx *Context, args []string) tea.Cmd {
	format := "md"
	if len(args) > 0 {
		format = strings.ToLower(args[0])
	}
	return func() tea.Msg {
		if format != "md" && format != "json" {
			return ErrorMsg{Title: "Unknown format", Message: "Supported formats: json, md"}
		}
		return ExportConversationMsg{Format: format}
	}
}
