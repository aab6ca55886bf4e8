// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"reflect"
	"strings"
	"testing"
)

func TestSessionTitle(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     string
	}{
		{"short question untouched", "Can I work on Stamp 2?", "Can I work on Stamp 2?"},
		{"exactly fifty runes untouched", strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{"long question truncated with ellipsis", strings.Repeat("a", 51), strings.Repeat("a", 50) + "..."},
		{"newlines collapsed", "line one\nline two", "line one line two"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SessionTitle(tc.question); got != tc.want {
				t.Errorf("SessionTitle(%q) = %q, want %q", tc.question, got, tc.want)
			}
		})
	}
}

func TestSessionTitleLengthBound(t *testing.T) {
	long := strings.Repeat("x", 200)
	got := SessionTitle(long)
	if n := len([]rune(got)); n != MaxSessionTitleRunes+3 {
		t.Errorf("truncated title length = %d runes, want %d plus ellipsis", n, MaxSessionTitleRunes)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated title missing ellipsis: %q", got)
	}
}

func TestDocTypeForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"notes.pdf", DocTypePDF},
		{"Contract.PDF", DocTypePDF},
		{"letter.docx", DocTypeDocx},
		{"readme.txt", DocTypeText},
		{"data.csv", DocTypeOther},
		{"noextension", DocTypeOther},
		{"/tmp/dir/lease.pdf", DocTypePDF},
	}

	for _, tc := range tests {
		if got := DocTypeForPath(tc.path); got != tc.want {
			t.Errorf("DocTypeForPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestTitleForPath(t *testing.T) {
	if got := TitleForPath("/docs/My Lease.pdf"); got != "My Lease" {
		t.Errorf("got %q, want %q", got, "My Lease")
	}
}

func TestDedupeCitationsFirstSeenOrder(t *testing.T) {
	in := []Citation{
		{Type: "legal", Title: "A", URL: "https://example.ie/a"},
		{Type: "legal", Title: "B", URL: "https://example.ie/b"},
		{Type: "legal", Title: "A again", URL: "https://example.ie/a"},
		{Type: "document", Title: "C"},
	}

	got := DedupeCitations(in)
	want := []Citation{in[0], in[1], in[3]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DedupeCitations = %+v, want %+v", got, want)
	}
}

func TestDedupeCitationsIdempotent(t *testing.T) {
	in := []Citation{
		{Title: "A", URL: "u1"},
		{Title: "B", URL: "u2"},
		{Title: "A", URL: "u1"},
	}
	once := DedupeCitations(in)
	twice := DedupeCitations(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("dedupe not idempotent: %+v vs %+v", once, twice)
	}
}

func TestDedupeCitationsKeepsKeylessEntries(t *testing.T) {
	in := []Citation{
		{Type: "document", Title: "Doc one"},
		{Type: "document", Title: "Doc two"},
		{Type: "document", Title: "Doc one"},
	}
	got := DedupeCitations(in)
	if len(got) != 3 {
		t.Errorf("keyless entries were merged: %+v", got)
	}
}

func TestDedupeCitationsEmpty(t *testing.T) {
	if got := DedupeCitations(nil); got != nil {
		t.Errorf("expected nil passthrough, got %+v", got)
	}
}

func TestNewUserMessage(t *testing.T) {
	m := NewUserMessage("hello")
	if m.Role != RoleUser {
		t.Errorf("role = %q, want %q", m.Role, RoleUser)
	}
	if !m.Pending {
		t.Error("new user message should be pending")
	}
	if !strings.HasPrefix(m.ID, "tmp_") {
		t.Errorf("local id %q missing tmp_ prefix", m.ID)
	}
	if m.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestNewFallbackMessage(t *testing.T) {
	m := NewFallbackMessage()
	if m.Role != RoleAssistant {
		t.Errorf("role = %q, want assistant", m.Role)
	}
	if m.Content != FallbackNetworkReply {
		t.Errorf("content = %q, want fixed fallback", m.Content)
	}
}

func TestMessagePreview(t *testing.T) {
	m := NewUserMessage("first line\nsecond line that goes on for quite a while indeed")
	got := m.Preview(20)
	if strings.Contains(got, "\n") {
		t.Errorf("preview contains newline: %q", got)
	}
	if len([]rune(got)) > 20 {
		t.Errorf("preview too long: %q", got)
	}
}

func TestRoleDisplayName(t *testing.T) {
	if RoleUser.DisplayName() != "You" || RoleAssistant.DisplayName() != "Assistant" {
		t.Error("unexpected role display names")
	}
	if Role("tool").DisplayName() != "tool" {
		t.Error("unknown role should display as itself")
	}
}
