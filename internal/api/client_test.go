// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// memTokens is an in-memory TokenSource for tests.
type memTokens struct {
	token string
}

func (m *memTokens) Get() (string, bool, error) {
	return m.token, m.token != "", nil
}

func (m *memTokens) Clear() error {
	m.token = ""
	return nil
}

func newTestClient(url, token string) (*Client, *memTokens) {
	tokens := &memTokens{token: token}
	return NewClient(tokens).WithBaseURL(url), tokens
}

func TestBearerHeaderAttached(t *testing.T) {
	var gotAuth, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"id":1,"email":"a@b.com","is_active":true}`))
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL, "tok123")
	user, err := client.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}

	if gotAuth != "Bearer tok123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok123")
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	if !user.IsActive || user.Email != "a@b.com" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestNoCredentialNeverSends(t *testing.T) {
	hit := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL, "")
	_, err := client.CurrentUser(context.Background())
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("err = %v, want ErrNoCredential", err)
	}
	if hit {
		t.Error("request was sent despite missing credential")
	}
}

func TestUnauthorizedClearsCredentialAndSignalsOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}))
	defer server.Close()

	client, tokens := newTestClient(server.URL, "stale")
	signals := 0
	client.OnSessionInvalidated(func() { signals++ })

	_, err := client.ListDocuments(context.Background())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
	if tokens.token != "" {
		t.Error("credential not cleared after 401")
	}
	if signals != 1 {
		t.Errorf("invalidation signalled %d times, want 1", signals)
	}
}

func TestUnauthorizedOnLoginIsPlainAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Incorrect email or password"}`))
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL, "")
	signals := 0
	client.OnSessionInvalidated(func() { signals++ })

	_, err := client.Login(context.Background(), "a@b.com", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Detail != "Incorrect email or password" {
		t.Errorf("unexpected APIError: %+v", apiErr)
	}
	if signals != 0 {
		t.Error("login 401 must not invalidate the session")
	}
}

func TestErrorDetailParsing(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"string detail", 400, `{"detail":"title is required"}`, "title is required"},
		{"validation array", 422, `{"detail":[{"loc":["body","email"],"msg":"invalid"}]}`, "Validation error"},
		{"malformed body", 500, `<html>boom</html>`, "Failed to list documents"},
		{"empty body", 502, ``, "Failed to list documents"},
		{"detail wrong type", 500, `{"detail":42}`, "Failed to list documents"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client, _ := newTestClient(server.URL, "tok")
			_, err := client.ListDocuments(context.Background())

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want *APIError", err)
			}
			if apiErr.Status != tc.status {
				t.Errorf("status = %d, want %d", apiErr.Status, tc.status)
			}
			if apiErr.Detail != tc.want {
				t.Errorf("detail = %q, want %q", apiErr.Detail, tc.want)
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, tokens := newTestClient(url, "tok")
	_, err := client.ListDocuments(context.Background())
	if !IsTransport(err) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if tokens.token == "" {
		t.Error("transport failure must not clear the credential")
	}
}

func TestLoginParsesTokenPair(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"access_token":"abc","token_type":"bearer"}`))
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL, "")
	pair, err := client.Login(context.Background(), "a@b.com", "x")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if pair.AccessToken != "abc" || pair.TokenType != "bearer" {
		t.Errorf("unexpected pair: %+v", pair)
	}
}

func TestUploadFileMultipart(t *testing.T) {
	var gotTitle, gotDocType, gotFilename, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("not multipart: %v", err)
		}
		gotTitle = r.FormValue("title")
		gotDocType = r.FormValue("doc_type")
		_, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		gotFilename = hdr.Filename
		w.Write([]byte(`{"doc_id":"d1","chunks_indexed":7}`))
	}))
	defer server.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "lease.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatal(err)
	}

	client, _ := newTestClient(server.URL, "tok")
	result, err := client.UploadFile(context.Background(), path, "My Lease", "pdf")
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}

	if !strings.HasPrefix(gotContentType, "multipart/form-data; boundary=") {
		t.Errorf("Content-Type = %q, want multipart with boundary", gotContentType)
	}
	if gotTitle != "My Lease" || gotDocType != "pdf" || gotFilename != "lease.pdf" {
		t.Errorf("form fields = (%q, %q, %q)", gotTitle, gotDocType, gotFilename)
	}
	if result.DocID != "d1" || result.ChunksIndexed != 7 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestSendMessageParsesCitations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chats/s1/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"id":"m2","session_id":"s1","role":"assistant","content":"20 hours max.",
			"citations":{"sources":[
				{"type":"legal","title":"Stamp 2 conditions","url":"https://example.ie/stamp2"},
				{"type":"document","title":"My permit"}
			]},
			"created_at":"2026-08-30T10:00:00Z"
		}`))
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL, "tok")
	reply, err := client.SendMessage(context.Background(), "s1", "Can I work 40 hours?")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	sources := reply.Sources()
	if len(sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(sources))
	}
	if sources[0].URL != "https://example.ie/stamp2" || sources[1].Type != "document" {
		t.Errorf("unexpected sources: %+v", sources)
	}
}

func TestCreateSessionSendsTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := make([]byte, r.ContentLength)
		r.Body.Read(body)
		if !strings.Contains(string(body), `"title":"What is a PPS number?"`) {
			t.Errorf("body = %s", body)
		}
		w.Write([]byte(`{"id":"s9","user_id":1,"title":"What is a PPS number?"}`))
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL, "tok")
	session, err := client.CreateSession(context.Background(), "What is a PPS number?")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if session.ID != "s9" {
		t.Errorf("session id = %q", session.ID)
	}
}

func TestBaseURLTrailingSlashStripped(t *testing.T) {
	client, _ := newTestClient("http://example.test/", "")
	if client.BaseURL() != "http://example.test" {
		t.Errorf("BaseURL = %q", client.BaseURL())
	}
}
