// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/jeranaias/rulemate-tui/internal/citation"
	"github.com/jeranaias/rulemate-tui/internal/model"
)

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// refreshTranscript rebuilds the chat viewport from the conversation.
func (m *Model) refreshTranscript() {
	if m.conversation == nil {
		m.chatViewport.SetContent("")
		return
	}

	msgs := m.conversation.Messages

	// Citation focus only applies to the latest assistant reply.
	lastAssistant := -1
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == model.RoleAssistant {
			lastAssistant = i
			break
		}
	}

	blocks := make([]string, 0, len(msgs))
	for i, msg := range msgs {
		blocks = append(blocks, m.renderMessage(msg, i == lastAssistant))
	}

	m.chatViewport.SetContent(strings.Join(blocks, "\n\n"))
	m.chatViewport.GotoBottom()
}

// renderMessage renders one message bubble.
func (m *Model) renderMessage(msg *model.Message, focusable bool) string {
	label := m.theme.HeaderSubtitle.Render(msg.Role.DisplayName())

	switch msg.Role {
	case model.RoleUser:
		return label + "\n" + m.theme.UserBubble.Render(msg.Content)
	case model.RoleSystem:
		return m.theme.SystemBubble.Render(msg.Content)
	default:
		return label + "\n" + m.theme.AssistantBubble.Render(m.renderAssistantContent(msg.Content, focusable))
	}
}

// renderAssistantContent renders a reply with its citations styled. The
// focused citation (Tab cycling) gets the active style. Replies without
// citations go through the markdown renderer when enabled.
func (m *Model) renderAssistantContent(content string, focusable bool) string {
	segments := citation.Parse(content)

	hasCitation := false
	for _, seg := range segments {
		if seg.IsCitation() {
			hasCitation = true
			break
		}
	}

	if !hasCitation {
		if m.renderer != nil {
			if rendered, err := m.renderer.Render(content); err == nil {
				return strings.TrimRight(rendered, "\n")
			}
		}
		return content
	}

	var b strings.Builder
	citIdx := 0
	for _, seg := range segments {
		if !seg.IsCitation() {
			b.WriteString(seg.Text)
			continue
		}
		if focusable && citIdx == m.citationIdx {
			b.WriteString(m.theme.CitationActive.Render(seg.Text))
		} else {
			b.WriteString(m.theme.Citation.Render(seg.Text))
		}
		citIdx++
	}
	return b.String()
}
