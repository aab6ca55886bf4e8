// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import (
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docket-tui/internal/api"
	"github.com/jeranaias/docket-tui/internal/auth"
	"github.com/jeranaias/docket-tui/internal/ui/styles"
)

func newBackend(t *testing.T, handler http.Handler) (Model, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := auth.NewMemStore()
	client := api.NewClient(store).WithBaseURL(server.URL)
	ctrl := auth.NewController(store, client)
	return New(ctrl, client, styles.NewTheme()), server
}

func typeKeys(m Model, runes string) Model {
	for _, r := range runes {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestTabSkipsFullNameInLoginMode(t *testing.T) {
	m, _ := newBackend(t, http.NotFoundHandler())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldPassword {
		t.Fatalf("focus = %d, want password", m.focus)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldEmail {
		t.Fatalf("focus = %d, want wraparound to email", m.focus)
	}

	m.toggleMode()
	m.setFocus(fieldPassword)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldFullName {
		t.Fatalf("focus = %d, want full name in signup mode", m.focus)
	}
}

func TestSubmitRequiresCredentials(t *testing.T) {
	m, _ := newBackend(t, http.NotFoundHandler())

	m, cmd := m.submit()
	if cmd != nil {
		t.Fatal("empty form must not produce a command")
	}
	if m.errMsg == "" {
		t.Fatal("expected a validation message")
	}
}

func TestLoginRoundTrip(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			w.Write([]byte(`{"access_token":"tok","token_type":"bearer"}`))
		case "/auth/me":
			w.Write([]byte(`{"id":1,"email":"a@b.c","full_name":"A","is_active":true}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	m, _ := newBackend(t, handler)

	m = typeKeys(m, "a@b.c")
	m.setFocus(fieldPassword)
	m = typeKeys(m, "secret")

	m, cmd := m.submit()
	if !m.busy {
		t.Fatal("submit should mark the form busy")
	}
	if _, ok := cmd().(authDoneMsg); !ok {
		t.Fatal("expected authDoneMsg")
	}

	m, emit := m.Update(authDoneMsg{})
	if m.busy {
		t.Error("busy flag should clear")
	}
	if _, ok := emit().(AuthenticatedMsg); !ok {
		t.Error("expected AuthenticatedMsg for the root model")
	}
}

func TestBadPasswordShowsFixedMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Incorrect email or password"}`))
	})
	m, _ := newBackend(t, handler)

	m = typeKeys(m, "a@b.c")
	m.setFocus(fieldPassword)
	m = typeKeys(m, "wrong")

	m, cmd := m.submit()
	failed, ok := cmd().(authFailedMsg)
	if !ok {
		t.Fatal("expected authFailedMsg")
	}
	if failed.errText != "Invalid email or password." {
		t.Errorf("errText = %q", failed.errText)
	}
}

func TestSignupFlowReturnsToLogin(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/signup" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"id":2,"email":"new@b.c","full_name":"New User","is_active":true}`))
	})
	m, _ := newBackend(t, handler)
	m.toggleMode()

	m = typeKeys(m, "new@b.c")
	m.setFocus(fieldPassword)
	m = typeKeys(m, "secret")
	m.setFocus(fieldFullName)
	m = typeKeys(m, "New User")

	m, cmd := m.submit()
	done, ok := cmd().(signupDoneMsg)
	if !ok {
		t.Fatal("expected signupDoneMsg")
	}

	m, _ = m.Update(done)
	if m.mode != ModeLogin {
		t.Error("signup success should land back on the login form")
	}
	if m.inputs[fieldPassword].Value() != "" {
		t.Error("password field should be cleared")
	}
	if m.notice == "" {
		t.Error("expected a confirmation notice")
	}
}

func TestUnreachableServerMessage(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	store := auth.NewMemStore()
	client := api.NewClient(store).WithBaseURL(url)
	ctrl := auth.NewController(store, client)

	msg := loginCmd(ctrl, "a@b.c", "pw")()
	failed, ok := msg.(authFailedMsg)
	if !ok {
		t.Fatal("expected authFailedMsg")
	}
	if failed.errText != "Cannot reach the server. Check that it is running." {
		t.Errorf("errText = %q", failed.errText)
	}
}
