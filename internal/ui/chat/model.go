// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation view: a transcript viewport over
// an input line, speaking the session/message API.
package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docket-tui/internal/api"
	"github.com/jeranaias/docket-tui/internal/model"
	"github.com/jeranaias/docket-tui/internal/storage"
	"github.com/jeranaias/docket-tui/internal/ui/styles"
)

// =============================================================================
// STATE
// =============================================================================

// State tracks whether a send is in flight.
type State int

const (
	StateReady State = iota
	StateSending
	StateLoading
)

// Layout heights, in rows.
const (
	inputHeight  = 1
	statusHeight = 1
	headerHeight = 1
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat view.
type Model struct {
	client *api.Client
	theme  *styles.Theme
	cache  *storage.Store

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model

	state     State
	sessionID string
	messages  []model.Message
	errMsg    string

	width  int
	height int
	ready  bool
}

// New creates the chat view. cache may be nil to disable transcript
// mirroring.
func New(client *api.Client, theme *styles.Theme, cache *storage.Store) Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "Ask something..."
	input.CharLimit = 4096
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	return Model{
		client: client,
		theme:  theme,
		cache:  cache,
		input:  input,
		spin:   spin,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SessionID returns the active session id, empty for a fresh chat.
func (m Model) SessionID() string {
	return m.sessionID
}

// StartNewChat clears the transcript and detaches from the current session.
func (m *Model) StartNewChat() {
	m.sessionID = ""
	m.messages = nil
	m.errMsg = ""
	m.state = StateReady
	m.syncViewport()
}

// OpenSession switches to an existing session and loads its transcript.
func (m *Model) OpenSession(sessionID string) tea.Cmd {
	m.sessionID = sessionID
	m.messages = nil
	m.errMsg = ""
	m.state = StateLoading
	m.syncViewport()
	return tea.Batch(m.spin.Tick, loadSessionCmd(m.client, sessionID))
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.state == StateReady {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case replyMsg:
		m.state = StateReady
		m.sessionID = msg.sessionID
		m.messages = append(m.messages, msg.reply)
		m.syncViewport()
		m.mirrorTranscript(msg.title)
		if msg.created {
			return m, func() tea.Msg {
				return SessionStartedMsg{SessionID: msg.sessionID, Title: msg.title}
			}
		}
		return m, nil

	case sendFailedMsg:
		m.state = StateReady
		if msg.fallback != nil {
			m.messages = append(m.messages, *msg.fallback)
			m.syncViewport()
			return m, nil
		}
		m.errMsg = msg.errText
		return m, nil

	case transcriptLoadedMsg:
		m.state = StateReady
		m.sessionID = msg.sessionID
		m.messages = msg.messages
		m.syncViewport()
		m.viewport.GotoBottom()
		return m, nil

	case loadFailedMsg:
		m.state = StateReady
		m.errMsg = msg.errText
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	vpHeight := msg.Height - headerHeight - inputHeight - statusHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	if !m.ready {
		m.viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
	}
	m.input.Width = msg.Width - 4
	m.syncViewport()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.submit()
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit appends the user message optimistically and fires the send.
func (m Model) submit() (Model, tea.Cmd) {
	question := trimmedInput(m.input.Value())
	if question == "" || m.state != StateReady {
		return m, nil
	}

	m.messages = append(m.messages, model.NewUserMessage(question))
	m.input.Reset()
	m.errMsg = ""
	m.state = StateSending
	m.syncViewport()
	m.viewport.GotoBottom()

	// Capture before the closure runs on another goroutine.
	client := m.client
	sessionID := m.sessionID
	return m, tea.Batch(m.spin.Tick, sendCmd(client, sessionID, question))
}

// mirrorTranscript saves the current transcript to the local cache.
func (m *Model) mirrorTranscript(title string) {
	if m.cache == nil || m.sessionID == "" {
		return
	}
	_ = m.cache.Save(&storage.Transcript{
		SessionID: m.sessionID,
		Title:     title,
		Messages:  m.messages,
	})
}
