// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// main.go - Entry point and root TUI model for docket.
//
// Without arguments docket starts the full-screen TUI: a login form when
// anonymous, then chat, session, and document views. Subcommands run as
// plain CLI handlers instead.
package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docket-tui/internal/api"
	"github.com/jeranaias/docket-tui/internal/auth"
	"github.com/jeranaias/docket-tui/internal/cli"
	"github.com/jeranaias/docket-tui/internal/config"
	"github.com/jeranaias/docket-tui/internal/storage"
	"github.com/jeranaias/docket-tui/internal/ui/chat"
	"github.com/jeranaias/docket-tui/internal/ui/components"
	"github.com/jeranaias/docket-tui/internal/ui/documents"
	"github.com/jeranaias/docket-tui/internal/ui/login"
	"github.com/jeranaias/docket-tui/internal/ui/sessions"
	"github.com/jeranaias/docket-tui/internal/ui/styles"
)

// programRef lets async callbacks inject messages into the running program.
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func programSend(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func main() {
	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdLogin:
		err = cli.HandleLogin(args)
	case cli.CmdSignup:
		err = cli.HandleSignup(args)
	case cli.CmdLogout:
		err = cli.HandleLogout(args)
	case cli.CmdWhoami:
		err = cli.HandleWhoami(args)
	case cli.CmdAsk:
		err = cli.HandleAsk(args)
	case cli.CmdChat:
		err = cli.HandleChat(args)
	case cli.CmdDocs:
		err = cli.HandleDocs(args)
	case cli.CmdSessions:
		err = cli.HandleSessions(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdVersion:
		err = cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		runTUI(args)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI starts the full-screen interface.
func runTUI(args cli.Args) {
	cfg := config.Global()

	baseURL := cfg.Server.BaseURL
	if args.Server != "" {
		baseURL = args.Server
	}

	store := auth.OpenDefaultStore(config.Dir())
	client := api.NewClient(store).
		WithBaseURL(baseURL).
		WithTimeout(cfg.Timeout())
	ctrl := auth.NewController(store, client)

	// Expired credentials anywhere in the app land back on the login view.
	client.OnSessionInvalidated(func() {
		ctrl.HandleSessionExpired()
		programSend(chat.SessionExpiredMsg{})
	})

	var cache *storage.Store
	if cfg.Chat.SaveTranscripts {
		cache = storage.NewStore(config.TranscriptsDir())
	}

	m := NewModel(client, ctrl, cache)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running docket: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// View identifies the active full-screen view.
type View int

const (
	ViewLogin View = iota
	ViewChat
	ViewSessions
	ViewDocuments
)

func (v View) title() string {
	switch v {
	case ViewLogin:
		return "sign in"
	case ViewChat:
		return "chat"
	case ViewSessions:
		return "sessions"
	case ViewDocuments:
		return "documents"
	default:
		return ""
	}
}

// identityLoadedMsg carries the result of the startup identity load.
type identityLoadedMsg struct{ authenticated bool }

// Model is the root TUI model, routing between views.
type Model struct {
	client *api.Client
	ctrl   *auth.Controller
	theme  *styles.Theme

	view      View
	login     login.Model
	chat      chat.Model
	sessions  sessions.Model
	documents documents.Model

	width  int
	height int
}

// NewModel builds the root model with all views constructed up front.
func NewModel(client *api.Client, ctrl *auth.Controller, cache *storage.Store) *Model {
	theme := styles.NewTheme()
	return &Model{
		client:    client,
		ctrl:      ctrl,
		theme:     theme,
		view:      ViewLogin,
		login:     login.New(ctrl, client, theme),
		chat:      chat.New(client, theme, cache),
		sessions:  sessions.New(client, theme),
		documents: documents.New(client, theme),
	}
}

// Init resolves any stored credential before showing a view.
func (m *Model) Init() tea.Cmd {
	ctrl := m.ctrl
	loadCmd := func() tea.Msg {
		ctrl.Load(context.Background())
		return identityLoadedMsg{authenticated: ctrl.User() != nil}
	}
	return tea.Batch(loadCmd, m.login.Init(), m.chat.Init())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Views size themselves against the frame left by the header
		// and status bar.
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 2}
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(inner)
		cmds = append(cmds, cmd)
		m.chat, cmd = m.chat.Update(inner)
		cmds = append(cmds, cmd)
		m.sessions, cmd = m.sessions.Update(inner)
		cmds = append(cmds, cmd)
		m.documents, cmd = m.documents.Update(inner)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case identityLoadedMsg:
		if msg.authenticated {
			m.view = ViewChat
		} else {
			m.view = ViewLogin
		}
		return m, nil

	case login.AuthenticatedMsg:
		m.view = ViewChat
		m.chat.StartNewChat()
		return m, nil

	case chat.SessionExpiredMsg:
		m.view = ViewLogin
		m.chat.StartNewChat()
		return m, nil

	case sessions.ChosenMsg:
		m.view = ViewChat
		return m, m.chat.OpenSession(msg.SessionID)

	case sessions.NewChatMsg:
		m.view = ViewChat
		m.chat.StartNewChat()
		return m, nil

	case tea.KeyMsg:
		if handled, cmd := m.handleGlobalKey(msg); handled {
			return m, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey handles navigation shortcuts that work in every view.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return true, tea.Quit

	case "ctrl+s":
		if m.authenticated() && m.view != ViewSessions {
			m.view = ViewSessions
			return true, m.sessions.Reload()
		}

	case "ctrl+d":
		if m.authenticated() && m.view != ViewDocuments {
			m.view = ViewDocuments
			return true, m.documents.Reload()
		}

	case "ctrl+n":
		if m.authenticated() {
			m.view = ViewChat
			m.chat.StartNewChat()
			return true, nil
		}

	case "esc":
		// Secondary views fall back to chat. Chat and login handle esc
		// themselves.
		if m.view == ViewSessions || m.view == ViewDocuments {
			m.view = ViewChat
			return true, nil
		}
	}
	return false, nil
}

func (m *Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ViewLogin:
		m.login, cmd = m.login.Update(msg)
	case ViewChat:
		m.chat, cmd = m.chat.Update(msg)
	case ViewSessions:
		m.sessions, cmd = m.sessions.Update(msg)
	case ViewDocuments:
		m.documents, cmd = m.documents.Update(msg)
	}
	return m, cmd
}

func (m *Model) authenticated() bool {
	return m.ctrl.User() != nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	identity := ""
	if user := m.ctrl.User(); user != nil {
		identity = user.Email
	}
	header := components.Header(m.theme, m.width, m.view.title(), identity)

	var body string
	switch m.view {
	case ViewLogin:
		body = m.login.View()
	case ViewChat:
		body = m.chat.View()
	case ViewSessions:
		body = m.sessions.View()
	case ViewDocuments:
		body = m.documents.View()
	}

	status := components.StatusBar(m.theme, m.width, m.statusHints(), "")
	return header + "\n" + body + "\n" + status
}

func (m *Model) statusHints() []components.KeyHint {
	if m.view == ViewLogin {
		return []components.KeyHint{
			{Key: "enter", Desc: "submit"},
			{Key: "ctrl+t", Desc: "login/signup"},
			{Key: "ctrl+c", Desc: "quit"},
		}
	}
	return []components.KeyHint{
		{Key: "ctrl+n", Desc: "new chat"},
		{Key: "ctrl+s", Desc: "sessions"},
		{Key: "ctrl+d", Desc: "documents"},
		{Key: "ctrl+c", Desc: "quit"},
	}
}
