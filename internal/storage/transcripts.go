// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage mirrors server-side chat sessions into a local transcript
// cache under ~/.docket/transcripts. The server remains the source of truth;
// the cache exists for offline reading, search, and export.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/docket-tui/internal/model"
	"github.com/jeranaias/docket-tui/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

// TranscriptError is a storage-level failure.
type TranscriptError struct {
	Message string
	Err     error
}

func (e *TranscriptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transcript store: %s: %v", e.Message, e.Err)
	}
	return "transcript store: " + e.Message
}

func (e *TranscriptError) Unwrap() error { return e.Err }

func (e *TranscriptError) Is(target error) bool {
	t, ok := target.(*TranscriptError)
	return ok && t.Message == e.Message
}

// ErrTranscriptNotFound is returned when a session has no cached transcript.
var ErrTranscriptNotFound = &TranscriptError{Message: "transcript not found"}

// =============================================================================
// TYPES
// =============================================================================

// Transcript is one cached chat session with its messages.
type Transcript struct {
	SessionID string          `json:"session_id"`
	Title     string          `json:"title"`
	Messages  []model.Message `json:"messages"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TranscriptInfo is the listing view of a cached transcript.
type TranscriptInfo struct {
	SessionID    string    `json:"session_id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	Preview      string    `json:"preview"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Store reads and writes cached transcripts.
type Store struct {
	BaseDir string
	// MaxTranscripts caps the cache; oldest entries are evicted first.
	MaxTranscripts int
}

// NewStore creates a transcript store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{
		BaseDir:        baseDir,
		MaxTranscripts: 100,
	}
}

// =============================================================================
// SAVE / LOAD
// =============================================================================

// Save writes one transcript, titling it from the first user message when the
// session carries no title.
func (s *Store) Save(tr *Transcript) error {
	if tr.SessionID == "" {
		return &TranscriptError{Message: "session id required"}
	}
	if tr.Title == "" {
		tr.Title = deriveTitle(tr.Messages)
	}
	if tr.CreatedAt.IsZero() {
		tr.CreatedAt = time.Now()
	}
	tr.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(tr, "", "  ")
	if err != nil {
		return &TranscriptError{Message: "failed to marshal transcript", Err: err}
	}

	path := s.pathFor(tr.SessionID)
	if err := util.AtomicWriteFileWithDir(path, data, 0644, 0755); err != nil {
		return &TranscriptError{Message: "failed to write transcript", Err: err}
	}

	s.enforceLimit()
	return nil
}

// Load reads one transcript by session id.
func (s *Store) Load(sessionID string) (*Transcript, error) {
	data, err := os.ReadFile(s.pathFor(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrTranscriptNotFound
		}
		return nil, &TranscriptError{Message: "failed to read transcript", Err: err}
	}

	var tr Transcript
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, &TranscriptError{Message: "transcript corrupt", Err: err}
	}
	return &tr, nil
}

// Delete removes one cached transcript.
func (s *Store) Delete(sessionID string) error {
	err := os.Remove(s.pathFor(sessionID))
	if os.IsNotExist(err) {
		return ErrTranscriptNotFound
	}
	if err != nil {
		return &TranscriptError{Message: "failed to delete transcript", Err: err}
	}
	return nil
}

// Clear removes every cached transcript.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &TranscriptError{Message: "failed to read cache dir", Err: err}
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".json") {
			os.Remove(filepath.Join(s.BaseDir, entry.Name()))
		}
	}
	return nil
}

// =============================================================================
// LISTING
// =============================================================================

// List returns cached transcripts, newest first. Corrupt files are skipped.
func (s *Store) List() ([]TranscriptInfo, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &TranscriptError{Message: "failed to read cache dir", Err: err}
	}

	var infos []TranscriptInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.BaseDir, entry.Name()))
		if err != nil {
			continue
		}
		var tr Transcript
		if err := json.Unmarshal(data, &tr); err != nil {
			continue
		}

		preview := ""
		if len(tr.Messages) > 0 {
			preview = tr.Messages[len(tr.Messages)-1].Preview(80)
		}
		infos = append(infos, TranscriptInfo{
			SessionID:    tr.SessionID,
			Title:        tr.Title,
			MessageCount: len(tr.Messages),
			Preview:      preview,
			UpdatedAt:    tr.UpdatedAt,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].UpdatedAt.After(infos[j].UpdatedAt)
	})
	return infos, nil
}

// Search returns transcripts whose title or message content contains the
// query, case-insensitive.
func (s *Store) Search(query string) ([]TranscriptInfo, error) {
	infos, err := s.List()
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(query)

	var matches []TranscriptInfo
	for _, info := range infos {
		if strings.Contains(strings.ToLower(info.Title), query) {
			matches = append(matches, info)
			continue
		}
		tr, err := s.Load(info.SessionID)
		if err != nil {
			continue
		}
		for _, msg := range tr.Messages {
			if strings.Contains(strings.ToLower(msg.Content), query) {
				matches = append(matches, info)
				break
			}
		}
	}
	return matches, nil
}

// FormatSessionTable renders transcript infos as a padded table with relative
// timestamps.
func FormatSessionTable(infos []TranscriptInfo) string {
	if len(infos) == 0 {
		return "No cached sessions.\n"
	}

	var sb strings.Builder
	sb.WriteString(util.PadRight("SESSION", 14))
	sb.WriteString(util.PadRight("UPDATED", 12))
	sb.WriteString(util.PadRight("MSGS", 6))
	sb.WriteString("TITLE\n")

	for _, info := range infos {
		sb.WriteString(util.PadRight(info.SessionID, 14))
		sb.WriteString(util.PadRight(RelativeTime(info.UpdatedAt), 12))
		sb.WriteString(util.PadRight(fmt.Sprintf("%d", info.MessageCount), 6))
		sb.WriteString(util.TruncateWidth(info.Title, 48))
		sb.WriteString("\n")
	}
	return sb.String()
}

// RelativeTime formats a timestamp the way the session sidebar does: minutes,
// hours, and days collapse to "Nm ago" style, anything older shows the date.
func RelativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportMarkdown renders a transcript as a markdown document.
func (tr *Transcript) ExportMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# " + tr.Title + "\n\n")
	sb.WriteString(fmt.Sprintf("Session %s, updated %s\n\n", tr.SessionID, tr.UpdatedAt.Format(time.RFC3339)))

	for _, msg := range tr.Messages {
		sb.WriteString("## " + msg.Role.DisplayName() + "\n\n")
		sb.WriteString(msg.Content + "\n\n")
		if len(msg.Citations) > 0 {
			sb.WriteString("Sources:\n")
			for _, c := range model.DedupeCitations(msg.Citations) {
				if c.URL != "" {
					sb.WriteString(fmt.Sprintf("- [%s](%s)\n", c.Title, c.URL))
				} else {
					sb.WriteString("- " + c.Title + "\n")
				}
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// ExportJSON renders a transcript as indented JSON.
func (tr *Transcript) ExportJSON() (string, error) {
	data, err := json.MarshalIndent(tr, "", "  ")
	if err != nil {
		return "", &TranscriptError{Message: "failed to marshal transcript", Err: err}
	}
	return string(data), nil
}

// =============================================================================
// INTERNALS
// =============================================================================

func (s *Store) pathFor(sessionID string) string {
	return filepath.Join(s.BaseDir, sanitizeID(sessionID)+".json")
}

// sanitizeID keeps session ids filesystem-safe.
func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}

// deriveTitle falls back to the first user message for untitled sessions.
func deriveTitle(messages []model.Message) string {
	for _, msg := range messages {
		if msg.Role == model.RoleUser {
			return model.SessionTitle(msg.Content)
		}
	}
	return "Untitled session"
}

// enforceLimit evicts the oldest transcripts beyond MaxTranscripts.
func (s *Store) enforceLimit() {
	if s.MaxTranscripts <= 0 {
		return
	}
	infos, err := s.List()
	if err != nil || len(infos) <= s.MaxTranscripts {
		return
	}
	for _, info := range infos[s.MaxTranscripts:] {
		os.Remove(s.pathFor(info.SessionID))
	}
}
