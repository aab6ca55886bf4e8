// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/docket-tui/internal/model"
)

func testTranscript(id, question string) *Transcript {
	return &Transcript{
		SessionID: id,
		Messages: []model.Message{
			model.NewUserMessage(question),
			model.NewAssistantMessage("An answer.", []model.Citation{
				{Type: "legal", Title: "Source", URL: "https://example.ie/s"},
			}),
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := NewStore(t.TempDir())

	tr := testTranscript("s1", "What is a PPS number?")
	if err := store.Save(tr); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load("s1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Title != "What is a PPS number?" {
		t.Errorf("derived title = %q", loaded.Title)
	}
	if len(loaded.Messages) != 2 {
		t.Errorf("messages = %d, want 2", len(loaded.Messages))
	}
	if loaded.Messages[1].Citations[0].URL != "https://example.ie/s" {
		t.Error("citations did not roundtrip")
	}
}

func TestDeriveTitleTruncates(t *testing.T) {
	store := NewStore(t.TempDir())
	long := strings.Repeat("q", 80)

	tr := testTranscript("s2", long)
	store.Save(tr)

	loaded, _ := store.Load("s2")
	if !strings.HasSuffix(loaded.Title, "...") || len([]rune(loaded.Title)) != 53 {
		t.Errorf("title = %q, want 50 runes plus ellipsis", loaded.Title)
	}
}

func TestLoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())
	_, err := store.Load("nope")
	if !errors.Is(err, ErrTranscriptNotFound) {
		t.Errorf("err = %v, want ErrTranscriptNotFound", err)
	}
}

func TestListNewestFirstSkipsCorrupt(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	a := testTranscript("older", "first question")
	store.Save(a)
	time.Sleep(10 * time.Millisecond)
	b := testTranscript("newer", "second question")
	store.Save(b)

	os.WriteFile(filepath.Join(dir, "junk.json"), []byte("{broken"), 0644)

	infos, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("len = %d, want 2 (corrupt skipped)", len(infos))
	}
	if infos[0].SessionID != "newer" {
		t.Errorf("order wrong: %q first", infos[0].SessionID)
	}
	if infos[0].Preview == "" {
		t.Error("preview empty")
	}
}

func TestSearch(t *testing.T) {
	store := NewStore(t.TempDir())
	store.Save(testTranscript("s1", "working hours on Stamp 2"))
	store.Save(testTranscript("s2", "tax credits"))

	matches, err := store.Search("STAMP")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != 1 || matches[0].SessionID != "s1" {
		t.Errorf("matches = %+v", matches)
	}
}

func TestDeleteAndClear(t *testing.T) {
	store := NewStore(t.TempDir())
	store.Save(testTranscript("s1", "q1"))
	store.Save(testTranscript("s2", "q2"))

	if err := store.Delete("s1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete("s1"); !errors.Is(err, ErrTranscriptNotFound) {
		t.Errorf("second delete = %v", err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	infos, _ := store.List()
	if len(infos) != 0 {
		t.Errorf("cache not empty after Clear: %+v", infos)
	}
}

func TestEnforceLimit(t *testing.T) {
	store := NewStore(t.TempDir())
	store.MaxTranscripts = 2

	store.Save(testTranscript("s1", "q1"))
	time.Sleep(5 * time.Millisecond)
	store.Save(testTranscript("s2", "q2"))
	time.Sleep(5 * time.Millisecond)
	store.Save(testTranscript("s3", "q3"))

	infos, _ := store.List()
	if len(infos) != 2 {
		t.Fatalf("len = %d, want 2 after eviction", len(infos))
	}
	for _, info := range infos {
		if info.SessionID == "s1" {
			t.Error("oldest transcript survived eviction")
		}
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-20 * time.Second), "Just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-48 * time.Hour), "2d ago"},
	}
	for _, tc := range tests {
		if got := RelativeTime(tc.t); got != tc.want {
			t.Errorf("RelativeTime = %q, want %q", got, tc.want)
		}
	}
	old := now.Add(-30 * 24 * time.Hour)
	if got := RelativeTime(old); !strings.Contains(got, ",") {
		t.Errorf("old timestamp should show a date, got %q", got)
	}
}

func TestExportMarkdown(t *testing.T) {
	tr := testTranscript("s1", "What about stamps?")
	tr.Title = "Stamps"
	tr.Messages[1].Citations = append(tr.Messages[1].Citations, tr.Messages[1].Citations[0])

	md := tr.ExportMarkdown()
	if !strings.Contains(md, "# Stamps") {
		t.Error("missing title heading")
	}
	if !strings.Contains(md, "## You") || !strings.Contains(md, "## Assistant") {
		t.Error("missing role headings")
	}
	if strings.Count(md, "https://example.ie/s") != 1 {
		t.Error("duplicate citations not collapsed in export")
	}
}

func TestExportJSON(t *testing.T) {
	out, err := testTranscript("s1", "q").ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	if !strings.Contains(out, `"session_id": "s1"`) {
		t.Errorf("unexpected JSON: %s", out)
	}
}

func TestSanitizedFilenames(t *testing.T) {
	store := NewStore(t.TempDir())
	tr := testTranscript("../evil/../../id", "q")
	if err := store.Save(tr); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	entries, _ := os.ReadDir(store.BaseDir)
	if len(entries) != 1 || strings.Contains(entries[0].Name(), "/") {
		t.Errorf("unsafe filename: %v", entries)
	}
}
