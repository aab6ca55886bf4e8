// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sessions lists the user's chat sessions and lets them resume one
// or start fresh.
package sessions

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docket-tui/internal/api"
	"github.com/jeranaias/docket-tui/internal/storage"
	"github.com/jeranaias/docket-tui/internal/ui/styles"
	"github.com/jeranaias/docket-tui/internal/util"
)

// =============================================================================
// TYPES
// =============================================================================

// ChosenMsg is emitted when the user picks a session to resume.
type ChosenMsg struct {
	SessionID string
	Title     string
}

// NewChatMsg is emitted when the user asks for a fresh session.
type NewChatMsg struct{}

type listLoadedMsg struct{ sessions []api.ChatSession }

type listFailedMsg struct{ errText string }

// Model is the session picker state.
type Model struct {
	client *api.Client
	theme  *styles.Theme

	sessions []api.ChatSession
	cursor   int
	loading  bool
	errMsg   string
	width    int
	height   int
}

// New builds an empty picker. Call Reload to populate it.
func New(client *api.Client, theme *styles.Theme) Model {
	return Model{client: client, theme: theme}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Reload fetches the session list from the server.
func (m *Model) Reload() tea.Cmd {
	m.loading = true
	m.errMsg = ""
	client := m.client
	return func() tea.Msg {
		sessions, err := client.ListSessions(context.Background())
		if err != nil {
			return listFailedMsg{errText: err.Error()}
		}
		return listLoadedMsg{sessions: sessions}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case listLoadedMsg:
		m.loading = false
		m.sessions = msg.sessions
		if m.cursor >= len(m.sessions) {
			m.cursor = 0
		}
		return m, nil

	case listFailedMsg:
		m.loading = false
		m.errMsg = msg.errText
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.sessions)-1 {
			m.cursor++
		}
	case "n":
		return m, func() tea.Msg { return NewChatMsg{} }
	case "r":
		return m, m.Reload()
	case "enter":
		if len(m.sessions) == 0 {
			return m, func() tea.Msg { return NewChatMsg{} }
		}
		chosen := m.sessions[m.cursor]
		return m, func() tea.Msg {
			return ChosenMsg{SessionID: chosen.ID, Title: chosen.Title}
		}
	}
	return m, nil
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Sessions"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.theme.Muted.Render("Loading sessions..."))
	case m.errMsg != "":
		b.WriteString(m.theme.Error.Render(m.errMsg))
	case len(m.sessions) == 0:
		b.WriteString(m.theme.Muted.Render("No sessions yet. Press n to start one."))
	default:
		for i, s := range m.sessions {
			b.WriteString(m.renderRow(i, s))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render("enter resume | n new chat | r refresh"))
	return b.String()
}

func (m Model) renderRow(i int, s api.ChatSession) string {
	title := s.Title
	if title == "" {
		title = "(untitled)"
	}
	titleWidth := m.width - 20
	if titleWidth < 20 {
		titleWidth = 20
	}
	line := fmt.Sprintf("%s  %s",
		util.PadRight(util.TruncateWidth(title, titleWidth), titleWidth),
		storage.RelativeTime(s.UpdatedAt))

	if i == m.cursor {
		return m.theme.Selected.Render("> " + line)
	}
	return m.theme.Unselected.Render("  " + line)
}
