// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the transcript-side domain types shared by the TUI
// views, the CLI, and the local transcript cache.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/docket-tui/internal/util"
)

// =============================================================================
// ROLES
// =============================================================================

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGES
// =============================================================================

// FallbackNetworkReply is appended to the transcript in place of an assistant
// reply when the send fails at the transport level.
const FallbackNetworkReply = "There was a network error. Please check if the server is running."

// MaxSessionTitleRunes bounds the auto-generated session title taken from the
// first question of a conversation.
const MaxSessionTitleRunes = 50

// Message is a single transcript entry. Messages created locally carry a
// temporary id until the server echoes back its own.
type Message struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id,omitempty"`
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Citations []Citation `json:"citations,omitempty"`
	CreatedAt time.Time  `json:"created_at"`

	// Pending marks a locally appended message that has not been confirmed
	// by the server yet.
	Pending bool `json:"-"`
}

// NewUserMessage creates a locally authored user message with a temporary id.
func NewUserMessage(content string) Message {
	return Message{
		ID:        localID(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
		Pending:   true,
	}
}

// NewAssistantMessage creates an assistant message, typically from a server
// reply that did not carry an id of its own.
func NewAssistantMessage(content string, citations []Citation) Message {
	return Message{
		ID:        localID(),
		Role:      RoleAssistant,
		Content:   content,
		Citations: citations,
		CreatedAt: time.Now(),
	}
}

// NewFallbackMessage creates the fixed assistant-role reply used when a send
// fails at the transport level.
func NewFallbackMessage() Message {
	return NewAssistantMessage(FallbackNetworkReply, nil)
}

// Preview returns a single-line preview of the message content.
func (m Message) Preview(maxLen int) string {
	return util.TruncateRunes(util.CollapseWhitespace(m.Content), maxLen)
}

// localID generates a temporary message id.
func localID() string {
	return "tmp_" + uuid.NewString()
}

// SessionTitle derives a session title from the first question: the question
// truncated to MaxSessionTitleRunes characters, with "..." appended only when
// truncation happened.
func SessionTitle(question string) string {
	question = util.CollapseWhitespace(question)
	runes := []rune(question)
	if len(runes) <= MaxSessionTitleRunes {
		return question
	}
	return string(runes[:MaxSessionTitleRunes]) + "..."
}
