// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
	"testing"
)

// =============================================================================
// COMMAND PARSING
// =============================================================================

func TestParseArgsDefaultsToTUI(t *testing.T) {
	cmd, _ := ParseArgs(nil)
	if cmd != CmdTUI {
		t.Errorf("cmd = %v, want CmdTUI", cmd)
	}
}

func TestParseArgsCommands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{[]string{"login"}, CmdLogin},
		{[]string{"signup"}, CmdSignup},
		{[]string{"register"}, CmdSignup},
		{[]string{"logout"}, CmdLogout},
		{[]string{"whoami"}, CmdWhoami},
		{[]string{"me"}, CmdWhoami},
		{[]string{"ask", "what", "is", "this"}, CmdAsk},
		{[]string{"chat"}, CmdChat},
		{[]string{"docs", "list"}, CmdDocs},
		{[]string{"documents"}, CmdDocs},
		{[]string{"sessions", "list"}, CmdSessions},
		{[]string{"config", "show"}, CmdConfig},
		{[]string{"version"}, CmdVersion},
		{[]string{"--version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
		{[]string{"-h"}, CmdHelp},
	}

	for _, tt := range tests {
		cmd, _ := ParseArgs(tt.argv)
		if cmd != tt.want {
			t.Errorf("ParseArgs(%v) = %v, want %v", tt.argv, cmd, tt.want)
		}
	}
}

func TestParseArgsAskJoinsQuery(t *testing.T) {
	_, args := ParseArgs([]string{"ask", "what", "does", "clause", "4", "mean"})
	if args.Query != "what does clause 4 mean" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseArgsBareQuestionBecomesAsk(t *testing.T) {
	cmd, args := ParseArgs([]string{"what", "is", "severability"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if args.Query != "what is severability" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseArgsGlobalFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"--json", "--server", "http://x:9", "docs", "list"})
	if cmd != CmdDocs {
		t.Fatalf("cmd = %v, want CmdDocs", cmd)
	}
	if !args.JSON {
		t.Error("JSON flag not set")
	}
	if args.Server != "http://x:9" {
		t.Errorf("Server = %q", args.Server)
	}

	_, args = ParseArgs([]string{"--server=http://y:8", "-q", "whoami"})
	if args.Server != "http://y:8" {
		t.Errorf("Server = %q", args.Server)
	}
	if !args.Quiet {
		t.Error("Quiet flag not set")
	}
}

func TestParseArgsDocsUpload(t *testing.T) {
	_, args := ParseArgs([]string{"docs", "upload", "/tmp/lease.pdf", "--title", "Lease 2024"})
	if args.Subcommand != "upload" {
		t.Errorf("Subcommand = %q", args.Subcommand)
	}
	if args.File != "/tmp/lease.pdf" {
		t.Errorf("File = %q", args.File)
	}
	if args.Title != "Lease 2024" {
		t.Errorf("Title = %q", args.Title)
	}
}

func TestParseArgsSessionsExportFormat(t *testing.T) {
	_, args := ParseArgs([]string{"sessions", "export", "abc123", "--format=json"})
	if args.Subcommand != "export" {
		t.Errorf("Subcommand = %q", args.Subcommand)
	}
	if args.Query != "abc123" {
		t.Errorf("Query = %q", args.Query)
	}
	if args.Format != "json" {
		t.Errorf("Format = %q", args.Format)
	}

	_, args = ParseArgs([]string{"sessions", "export", "abc123"})
	if args.Format != "md" {
		t.Errorf("default Format = %q, want md", args.Format)
	}
}

// =============================================================================
// ARG PARSER
// =============================================================================

func TestArgParserFlagFormats(t *testing.T) {
	p := NewArgParser([]string{"export", "s1", "--format=json", "--title", "My Doc", "--quiet"})

	if p.Subcommand() != "export" {
		t.Errorf("Subcommand = %q", p.Subcommand())
	}
	if p.Positional(1) != "s1" {
		t.Errorf("Positional(1) = %q", p.Positional(1))
	}
	if p.Flag("format") != "json" {
		t.Errorf("Flag(format) = %q", p.Flag("format"))
	}
	if p.Flag("title") != "My Doc" {
		t.Errorf("Flag(title) = %q", p.Flag("title"))
	}
	if !p.BoolFlag("quiet") {
		t.Error("BoolFlag(quiet) = false")
	}
	if p.BoolFlag("missing") {
		t.Error("BoolFlag(missing) = true")
	}
}

func TestArgParserExplicitBool(t *testing.T) {
	p := NewArgParser([]string{"--json=false", "--color=true"})
	if p.BoolFlag("json") {
		t.Error("--json=false should be false")
	}
	if !p.BoolFlag("color") {
		t.Error("--color=true should be true")
	}
}

func TestArgParserPositionalFrom(t *testing.T) {
	p := NewArgParser([]string{"what", "is", "--json", "severability"})
	joined := strings.Join(p.PositionalFrom(0), " ")
	if joined != "what is severability" {
		t.Errorf("joined = %q", joined)
	}
	if p.PositionalCount() != 3 {
		t.Errorf("PositionalCount = %d", p.PositionalCount())
	}
	if got := p.PositionalFrom(10); len(got) != 0 {
		t.Errorf("out of range PositionalFrom = %v", got)
	}
}

func TestArgParserFlagIntOrDefault(t *testing.T) {
	p := NewArgParser([]string{"--lines", "50", "--bad", "x"})
	if got := p.FlagIntOrDefault("lines", 10); got != 50 {
		t.Errorf("lines = %d", got)
	}
	if got := p.FlagIntOrDefault("bad", 7); got != 7 {
		t.Errorf("bad = %d, want default", got)
	}
	if got := p.FlagIntOrDefault("missing", 3); got != 3 {
		t.Errorf("missing = %d, want default", got)
	}
}

// =============================================================================
// TEXT WRAPPING
// =============================================================================

func TestWrapTextBreaksOnWords(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	wrapped := WrapText(text, 20)

	for _, line := range strings.Split(wrapped, "\n") {
		if len(line) > 18 {
			t.Errorf("line too long: %q", line)
		}
	}
	if strings.ReplaceAll(wrapped, "\n", " ") != text {
		t.Errorf("words lost in wrapping: %q", wrapped)
	}
}

func TestWrapTextPreservesNewlines(t *testing.T) {
	text := "short\nlines\nstay"
	if got := WrapText(text, 40); got != text {
		t.Errorf("WrapText = %q", got)
	}
}
