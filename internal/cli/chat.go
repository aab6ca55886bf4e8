// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat REPL for docket.
//
// A readline-style loop backed by the server's chat sessions. The first
// question creates a session titled from the question; every exchange is
// mirrored to the local transcript cache when enabled.
//
// Slash commands:
//
//	/new          Start a fresh session
//	/sessions     List recent server sessions
//	/open <id>    Resume a session
//	/sources      Re-print sources from the last answer
//	/help         Show command help
//	/quit, /q     Exit
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/docket-tui/internal/api"
	"github.com/jeranaias/docket-tui/internal/config"
	"github.com/jeranaias/docket-tui/internal/model"
	"github.com/jeranaias/docket-tui/internal/storage"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with history loaded from the configured
// history file (default: ~/.docket/chat_history).
func NewChatCLI(cfg *config.Config) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	historyFile := cfg.Chat.HistoryFile
	if historyFile == "" {
		historyFile = filepath.Join(config.Dir(), "chat_history")
	}

	cli := &ChatCLI{
		line:        line,
		historyFile: historyFile,
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
// Supports history navigation with arrow keys.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists input history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0o700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// chatState holds the REPL's server session and local mirror.
type chatState struct {
	backend     *Backend
	cache       *storage.Store
	sessionID   string
	messages    []model.Message
	lastSources []model.Citation
}

// =============================================================================
// REPL
// =============================================================================

// HandleChat runs the interactive chat loop.
func HandleChat(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	backend := NewBackend(args)

	// Chat needs an identity up front so the first question does not fail
	// halfway through session creation.
	if err := backend.Ctrl.Load(context.Background()); err != nil {
		PrintError("Could not reach the server: " + err.Error())
		return err
	}
	if backend.Ctrl.User() == nil {
		PrintError("Not signed in. Run `docket login` first.")
		return errors.New("not signed in")
	}

	state := &chatState{backend: backend}
	if backend.Config.Chat.SaveTranscripts {
		state.cache = storage.NewStore(config.TranscriptsDir())
	}

	input := NewChatCLI(backend.Config)
	defer input.Close()

	if !args.Quiet {
		fmt.Println(TitleStyle.Render("docket chat"))
		fmt.Println(DimStyle.Render("Ready when you are. /help for commands, /quit to exit."))
		fmt.Println()
	}

	for {
		line, err := input.ReadInput("> ")
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Println(DimStyle.Render("(ctrl-c again or /quit to exit)"))
				continue
			}
			// io.EOF via ctrl-d ends the session
			fmt.Println()
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := state.handleSlashCommand(line); quit {
				return nil
			}
			continue
		}

		state.sendQuestion(line)
	}
}

// handleSlashCommand executes a REPL command. Returns true to exit.
func (s *chatState) handleSlashCommand(line string) bool {
	parts := strings.Fields(line)
	cmd := parts[0]

	switch cmd {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		fmt.Println("  /new          Start a fresh session")
		fmt.Println("  /sessions     List recent sessions")
		fmt.Println("  /open <id>    Resume a session")
		fmt.Println("  /sources      Show sources from the last answer")
		fmt.Println("  /quit         Exit")

	case "/new":
		s.sessionID = ""
		s.messages = nil
		s.lastSources = nil
		fmt.Println(DimStyle.Render("Started a new session."))

	case "/sessions":
		sessions, err := s.backend.Client.ListSessions(context.Background())
		if err != nil {
			PrintError("Could not list sessions: " + err.Error())
			break
		}
		if len(sessions) == 0 {
			fmt.Println(DimStyle.Render("No sessions yet."))
			break
		}
		for _, sess := range sessions {
			marker := "  "
			if sess.ID == s.sessionID {
				marker = "* "
			}
			fmt.Printf("%s%-12s %-10s %s\n", marker, sess.ID,
				storage.RelativeTime(sess.UpdatedAt), sess.Title)
		}

	case "/open":
		if len(parts) < 2 {
			PrintError("usage: /open <session-id>")
			break
		}
		s.openSession(parts[1])

	case "/sources":
		if len(s.lastSources) == 0 {
			fmt.Println(DimStyle.Render("No sources on the last answer."))
			break
		}
		displayAnswer("", s.lastSources)

	default:
		PrintError("Unknown command: " + cmd)
	}
	return false
}

// sendQuestion posts one question, creating the session on first use.
func (s *chatState) sendQuestion(question string) {
	ctx := context.Background()
	client := s.backend.Client

	if s.sessionID == "" {
		session, err := client.CreateSession(ctx, model.SessionTitle(question))
		if err != nil {
			s.reportSendFailure(err)
			return
		}
		s.sessionID = session.ID
	}

	s.messages = append(s.messages, model.NewUserMessage(question))

	// On failure the session is kept so a retry continues there.
	reply, err := client.SendMessage(ctx, s.sessionID, question)
	if err != nil {
		s.reportSendFailure(err)
		return
	}

	sources := model.DedupeCitations(reply.Sources())
	s.lastSources = sources
	s.messages = append(s.messages, model.NewAssistantMessage(reply.Content, sources))

	fmt.Println()
	displayAnswer(reply.Content, sources)
	s.mirrorTranscript()
}

// reportSendFailure prints the failure and records the stand-in reply so
// the local transcript shows what happened.
func (s *chatState) reportSendFailure(err error) {
	switch {
	case errors.Is(err, api.ErrSessionExpired), errors.Is(err, api.ErrNoCredential):
		// The gateway hook has already printed the login hint.
	case api.IsTransport(err):
		fallback := model.NewFallbackMessage()
		s.messages = append(s.messages, fallback)
		fmt.Println(WarningStyle.Render(fallback.Content))
		s.mirrorTranscript()
	default:
		PrintError(err.Error())
	}
}

func (s *chatState) mirrorTranscript() {
	if s.cache == nil || s.sessionID == "" {
		return
	}
	tr := &storage.Transcript{
		SessionID: s.sessionID,
		Messages:  s.messages,
	}
	if err := s.cache.Save(tr); err != nil {
		// Mirroring is best effort; the server copy is canonical.
		return
	}
}

func (s *chatState) openSession(id string) {
	msgs, err := s.backend.Client.ListMessages(context.Background(), id)
	if err != nil {
		PrintError("Could not open session: " + err.Error())
		return
	}

	s.sessionID = id
	s.messages = nil
	s.lastSources = nil
	for _, m := range msgs {
		s.messages = append(s.messages, model.Message{
			ID:        m.ID,
			SessionID: m.SessionID,
			Role:      model.Role(m.Role),
			Content:   m.Content,
			Citations: m.Sources(),
			CreatedAt: m.CreatedAt,
		})
	}

	fmt.Println(DimStyle.Render(fmt.Sprintf("Resumed session %s (%d messages).", id, len(msgs))))
	if n := len(s.messages); n > 0 {
		last := s.messages[n-1]
		fmt.Println(DimStyle.Render(last.Role.DisplayName() + ": " + last.Preview(120)))
	}
}
