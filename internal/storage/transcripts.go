// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/rulemate-tui/internal/citation"
	"github.com/jeranaias/rulemate-tui/internal/model"
	"github.com/jeranaias/rulemate-tui/internal/util"
)

// =============================================================================
// STORED TYPES
// =============================================================================

// StoredTranscript is the on-disk form of a conversation.
type StoredTranscript struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	GameID    string    `json:"game_id"`
	GameName  string    `json:"game_name"`
	Intent    string    `json:"intent,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []StoredMessage `json:"messages"`
}

// StoredMessage is one persisted message. Assistant messages carry the
// rulebook pages they cite so the session list can show them without
// re-parsing content.
type StoredMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Pages     []int     `json:"pages,omitempty"`
}

// TranscriptMeta is the listing view of a transcript.
type TranscriptMeta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	GameName     string    `json:"game_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
	Preview      string    `json:"preview"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// FromConversation converts an in-memory conversation for saving.
func FromConversation(conv *model.Conversation, sessionID string) *StoredTranscript {
	stored := &StoredTranscript{
		ID:        conv.ID,
		Title:     conv.GetTitle(),
		GameID:    conv.Game.ID,
		GameName:  conv.Game.Name,
		Intent:    conv.Intent,
		SessionID: sessionID,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
		Messages:  make([]StoredMessage, 0, len(conv.Messages)),
	}

	for _, msg := range conv.Messages {
		sm := StoredMessage{
			ID:        msg.ID,
			Role:      msg.Role.String(),
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		}
		if msg.Role == model.RoleAssistant {
			sm.Pages = citation.Pages(msg.Content)
		}
		stored.Messages = append(stored.Messages, sm)
	}

	return stored
}

// ToConversation rebuilds the in-memory conversation.
func (t *StoredTranscript) ToConversation() *model.Conversation {
	conv := &model.Conversation{
		ID:        t.ID,
		Title:     t.Title,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		Game:      model.Game{ID: t.GameID, Name: t.GameName},
		Intent:    t.Intent,
		Messages:  make([]*model.Message, 0, len(t.Messages)),
	}

	for _, sm := range t.Messages {
		conv.Messages = append(conv.Messages, &model.Message{
			ID:        sm.ID,
			Role:      model.Role(sm.Role),
			Content:   sm.Content,
			Timestamp: sm.Timestamp,
		})
	}

	return conv
}

// =============================================================================
// TRANSCRIPT STORE
// =============================================================================

// TranscriptStore persists transcripts as JSON files.
type TranscriptStore struct {
	// BaseDir is where transcript files live.
	// Default: ~/.rulemate/transcripts/
	BaseDir string

	// MaxTranscripts caps stored transcripts (0 = unlimited). Oldest
	// are deleted first when the cap is exceeded.
	MaxTranscripts int
}

// NewTranscriptStore creates a store under the user's data directory.
func NewTranscriptStore() (*TranscriptStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewTranscriptStoreWithDir(filepath.Join(homeDir, ".rulemate", "transcripts"))
}

// NewTranscriptStoreWithDir creates a store with a custom directory.
func NewTranscriptStoreWithDir(baseDir string) (*TranscriptStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &TranscriptStore{
		BaseDir:        baseDir,
		MaxTranscripts: 100,
	}, nil
}

// Save persists a transcript and returns its ID. The write is atomic so a
// crash cannot leave a half-written file over an old transcript.
func (s *TranscriptStore) Save(t *StoredTranscript) (string, error) {
	t.UpdatedAt = time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = t.UpdatedAt
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", err
	}

	if err := util.AtomicWriteFile(s.filePath(t.ID), data, 0644); err != nil {
		return "", err
	}

	if s.MaxTranscripts > 0 {
		s.enforceLimit()
	}

	return t.ID, nil
}

// enforceLimit removes the oldest transcripts when over the cap.
func (s *TranscriptStore) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxTranscripts {
		return
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.Before(metas[j].UpdatedAt)
	})

	excess := len(metas) - s.MaxTranscripts
	for i := 0; i < excess; i++ {
		s.Delete(metas[i].ID)
	}
}

// Load retrieves a transcript by ID.
func (s *TranscriptStore) Load(id string) (*StoredTranscript, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrTranscriptNotFound
		}
		return nil, err
	}

	var t StoredTranscript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns metadata for all transcripts, most recently updated first.
// Corrupted files are skipped rather than failing the whole listing.
func (s *TranscriptStore) List() ([]TranscriptMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []TranscriptMeta{}, nil
		}
		return nil, err
	}

	var metas []TranscriptMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		t, err := s.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}

		preview := ""
		for _, msg := range t.Messages {
			if msg.Role == string(model.RoleUser) {
				preview = util.Truncate(msg.Content, 80)
				break
			}
		}

		metas = append(metas, TranscriptMeta{
			ID:           t.ID,
			Title:        t.Title,
			GameName:     t.GameName,
			CreatedAt:    t.CreatedAt,
			UpdatedAt:    t.UpdatedAt,
			MessageCount: len(t.Messages),
			Preview:      preview,
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})

	return metas, nil
}

// Search finds transcripts whose title, game, or preview contains query
// (case-insensitive).
func (s *TranscriptStore) Search(query string) ([]TranscriptMeta, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var results []TranscriptMeta
	for _, meta := range all {
		if strings.Contains(strings.ToLower(meta.Title), query) ||
			strings.Contains(strings.ToLower(meta.GameName), query) ||
			strings.Contains(strings.ToLower(meta.Preview), query) {
			results = append(results, meta)
		}
	}
	return results, nil
}

// Delete removes a transcript by ID.
func (s *TranscriptStore) Delete(id string) error {
	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrTranscriptNotFound
		}
		return err
	}
	return nil
}

// Clear removes all saved transcripts.
func (s *TranscriptStore) Clear() error {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			os.Remove(filepath.Join(s.BaseDir, entry.Name()))
		}
	}
	return nil
}

// filePath returns the file path for a transcript ID.
func (s *TranscriptStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrTranscriptNotFound is returned when a transcript doesn't exist.
// Use errors.Is(err, ErrTranscriptNotFound) to check for this error.
var ErrTranscriptNotFound = &TranscriptError{Message: "transcript not found"}

// TranscriptError represents a persistence error.
type TranscriptError struct {
	Message string
}

// Error implements the error interface.
func (e *TranscriptError) Error() string {
	return e.Message
}

// Is implements errors.Is support.
func (e *TranscriptError) Is(target error) bool {
	t, ok := target.(*TranscriptError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// DISPLAY FORMATTING
// =============================================================================

// FormatTranscriptList renders transcript metadata as a plain table for
// the /sessions command.
func FormatTranscriptList(metas []TranscriptMeta) string {
	if len(metas) == 0 {
		return "No saved conversations."
	}

	var sb strings.Builder
	sb.WriteString("Conversations:\n")
	sb.WriteString("-----------------------------------------------------\n")
	sb.WriteString(util.PadRight("ID", 14) + " " +
		util.PadRight("Game", 18) + " " +
		util.PadRight("Updated", 17) + " " +
		util.PadRight("Msgs", 5) + " Preview\n")
	sb.WriteString("-----------------------------------------------------\n")

	for _, m := range metas {
		id := m.ID
		if len(id) > 14 {
			id = id[:14]
		}
		sb.WriteString(util.PadRight(id, 14) + " " +
			util.PadRight(util.Truncate(m.GameName, 18), 18) + " " +
			util.PadRight(m.UpdatedAt.Format("2006-01-02 15:04"), 17) + " " +
			util.PadRight(util.IntToString(m.MessageCount), 5) + " " +
			util.Truncate(m.Preview, 30) + "\n")
	}
	return sb.String()
}

// ExportMarkdown renders the transcript as Markdown with role labels and
// timestamps.
func (t *StoredTranscript) ExportMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# " + t.Title + "\n\n")
	if t.GameName != "" {
		sb.WriteString("Game: " + t.GameName + "\n\n")
	}
	sb.WriteString("Created: " + t.CreatedAt.Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, msg := range t.Messages {
		sb.WriteString("**" + model.Role(msg.Role).DisplayName() + "**")
		sb.WriteString(" (" + msg.Timestamp.Format("15:04") + "):\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n---\n\n")
	}
	return sb.String()
}
