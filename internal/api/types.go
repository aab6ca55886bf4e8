// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"time"

	"github.com/jeranaias/docket-tui/internal/model"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// User is the backend's view of an account. Fetched, never mutated locally.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	IsActive bool   `json:"is_active"`
}

// TokenPair is the login response.
type TokenPair struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Document is an uploaded file as the backend tracks it. Status transitions
// (uploaded, indexed, failed) are backend-owned; the client only re-fetches.
type Document struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	DocType   string    `json:"doc_type"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Document status values.
const (
	DocStatusUploaded = "uploaded"
	DocStatusIndexed  = "indexed"
	DocStatusFailed   = "failed"
)

// UploadResult is the response to a file upload.
type UploadResult struct {
	DocID         string `json:"doc_id"`
	ChunksIndexed int    `json:"chunks_indexed"`
}

// ChatSession is a server-side conversation container.
type ChatSession struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CitationEnvelope nests citation sources the way the backend returns them.
type CitationEnvelope struct {
	Sources []model.Citation `json:"sources"`
}

// ChatMessage is a stored transcript entry. Citations, when present, arrive
// nested under "sources".
type ChatMessage struct {
	ID        string            `json:"id"`
	SessionID string            `json:"session_id"`
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	Citations *CitationEnvelope `json:"citations,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Sources returns the message's citation sources, nil-safe.
func (m *ChatMessage) Sources() []model.Citation {
	if m == nil || m.Citations == nil {
		return nil
	}
	return m.Citations.Sources
}

// Answer is the stateless RAG endpoint's response.
type Answer struct {
	Answer    string            `json:"answer"`
	Citations *CitationEnvelope `json:"citations,omitempty"`
}

// Sources returns the answer's citation sources, nil-safe.
func (a *Answer) Sources() []model.Citation {
	if a == nil || a.Citations == nil {
		return nil
	}
	return a.Citations.Sources
}

// =============================================================================
// REQUEST PAYLOADS
// =============================================================================

// SignupRequest registers a new account. FullName is optional.
type SignupRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createSessionRequest struct {
	Title string `json:"title,omitempty"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

type askRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}
