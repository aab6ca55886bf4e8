// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login renders the sign-in and sign-up form shown whenever no
// authenticated identity is available.
package login

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docket-tui/internal/api"
	"github.com/jeranaias/docket-tui/internal/auth"
	"github.com/jeranaias/docket-tui/internal/ui/styles"
)

// =============================================================================
// TYPES
// =============================================================================

// Mode selects which form the view presents.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

// Field indexes into the focusable inputs, in tab order.
const (
	fieldEmail = iota
	fieldPassword
	fieldFullName
)

// AuthenticatedMsg is emitted once a login or signup round-trip has produced
// a usable identity.
type AuthenticatedMsg struct{}

type authDoneMsg struct{}

type authFailedMsg struct{ errText string }

type signupDoneMsg struct{ email string }

// Model is the login/signup form state.
type Model struct {
	ctrl   *auth.Controller
	client *api.Client
	theme  *styles.Theme

	mode   Mode
	inputs []textinput.Model
	focus  int
	busy   bool
	errMsg string
	notice string
	width  int
	height int
}

// =============================================================================
// CONSTRUCTION
// =============================================================================

// New builds the form in login mode with the email field focused.
func New(ctrl *auth.Controller, client *api.Client, theme *styles.Theme) Model {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = ""
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = ""
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	fullName := textinput.New()
	fullName.Placeholder = "Full name"
	fullName.Prompt = ""
	fullName.CharLimit = 120

	return Model{
		ctrl:   ctrl,
		client: client,
		theme:  theme,
		mode:   ModeLogin,
		inputs: []textinput.Model{email, password, fullName},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
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
		for i := range m.inputs {
			m.inputs[i].Width = min(40, msg.Width-8)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case authDoneMsg:
		m.busy = false
		return m, func() tea.Msg { return AuthenticatedMsg{} }

	case signupDoneMsg:
		m.busy = false
		m.mode = ModeLogin
		m.errMsg = ""
		m.notice = "Account created for " + msg.email + ". Sign in to continue."
		m.inputs[fieldPassword].SetValue("")
		m.setFocus(fieldPassword)
		return m, nil

	case authFailedMsg:
		m.busy = false
		m.errMsg = msg.errText
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		m.setFocus(m.nextField(1))
		return m, nil

	case "shift+tab", "up":
		m.setFocus(m.nextField(-1))
		return m, nil

	case "ctrl+t":
		m.toggleMode()
		return m, nil

	case "enter":
		return m.submit()
	}

	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// fieldCount is 2 for login and 3 for signup (the full-name field only
// exists on the signup form).
func (m Model) fieldCount() int {
	if m.mode == ModeSignup {
		return 3
	}
	return 2
}

func (m Model) nextField(dir int) int {
	n := m.fieldCount()
	return ((m.focus+dir)%n + n) % n
}

func (m *Model) setFocus(idx int) {
	m.focus = idx
	for i := range m.inputs {
		if i == idx {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *Model) toggleMode() {
	if m.mode == ModeLogin {
		m.mode = ModeSignup
	} else {
		m.mode = ModeLogin
		if m.focus >= m.fieldCount() {
			m.setFocus(fieldEmail)
		}
	}
	m.errMsg = ""
	m.notice = ""
}

func (m Model) submit() (Model, tea.Cmd) {
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()
	fullName := strings.TrimSpace(m.inputs[fieldFullName].Value())

	if email == "" || password == "" {
		m.errMsg = "Email and password are required."
		return m, nil
	}
	if m.mode == ModeSignup && fullName == "" {
		m.errMsg = "Full name is required."
		return m, nil
	}

	m.busy = true
	m.errMsg = ""
	m.notice = ""

	if m.mode == ModeSignup {
		return m, signupCmd(m.client, email, fullName, password)
	}
	return m, loginCmd(m.ctrl, email, password)
}

// =============================================================================
// COMMANDS
// =============================================================================

func loginCmd(ctrl *auth.Controller, email, password string) tea.Cmd {
	return func() tea.Msg {
		if err := ctrl.Login(context.Background(), email, password); err != nil {
			return authFailedMsg{errText: loginErrorText(err)}
		}
		return authDoneMsg{}
	}
}

func signupCmd(client *api.Client, email, fullName, password string) tea.Cmd {
	return func() tea.Msg {
		req := api.SignupRequest{Email: email, FullName: fullName, Password: password}
		if _, err := client.Signup(context.Background(), req); err != nil {
			return authFailedMsg{errText: loginErrorText(err)}
		}
		return signupDoneMsg{email: email}
	}
}

// loginErrorText keeps the banner compact: credentials failures get a short
// fixed line, everything else shows the server detail or transport cause.
func loginErrorText(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == 401 {
			return "Invalid email or password."
		}
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
	}
	if api.IsTransport(err) {
		return "Cannot reach the server. Check that it is running."
	}
	return err.Error()
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	title := "Sign in to docket"
	action := "sign in"
	if m.mode == ModeSignup {
		title = "Create a docket account"
		action = "create account"
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render(title))
	b.WriteString("\n\n")

	b.WriteString(m.renderField("Email", fieldEmail))
	b.WriteString(m.renderField("Password", fieldPassword))
	if m.mode == ModeSignup {
		b.WriteString(m.renderField("Full name", fieldFullName))
	}

	b.WriteString("\n")
	switch {
	case m.busy:
		b.WriteString(m.theme.Muted.Render("Signing in..."))
	case m.errMsg != "":
		b.WriteString(m.theme.Error.Render(m.errMsg))
	case m.notice != "":
		b.WriteString(m.theme.Success.Render(m.notice))
	default:
		b.WriteString(m.theme.Muted.Render("enter " + action + " | tab next field | ctrl+t switch mode"))
	}

	card := lipgloss.NewStyle().
		Padding(1, 3).
		Render(b.String())

	if m.width == 0 || m.height == 0 {
		return card
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

func (m Model) renderField(label string, idx int) string {
	style := m.theme.Unselected
	if idx == m.focus {
		style = m.theme.Selected
	}
	return style.Render(label) + "\n" + m.inputs[idx].View() + "\n"
}
