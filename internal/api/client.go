// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the docket server HTTP client: the authenticated
// request gateway with central 401 handling, and one typed method per
// backend endpoint.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultBaseURL targets a local docket server.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize caps response bodies at 10MB.
	MaxResponseSize = 10 * 1024 * 1024

	// MaxUploadSize caps files accepted for upload at 25MB.
	MaxUploadSize = 25 * 1024 * 1024

	defaultUserAgent = "docket/0.1.0"
)

// =============================================================================
// SHARED HTTP CLIENT
// Connection pooling across requests; one client per process.
// =============================================================================

var sharedHTTPClient = &http.Client{
	Timeout: DefaultTimeout,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// =============================================================================
// TOKEN SOURCE
// =============================================================================

// TokenSource supplies and purges the stored bearer credential. Implemented
// by auth.Store.
type TokenSource interface {
	Get() (token string, ok bool, err error)
	Clear() error
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to a docket server. Create with NewClient, configure with the
// With* builder methods.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client

	tokens TokenSource

	// onInvalidated fires once per 401 response, after the credential has
	// been cleared. The hosting shell uses it to force navigation to login.
	onInvalidated func()
}

// NewClient creates a client around the given credential source.
func NewClient(tokens TokenSource) *Client {
	return &Client{
		baseURL:    DefaultBaseURL,
		userAgent:  defaultUserAgent,
		httpClient: sharedHTTPClient,
		tokens:     tokens,
	}
}

// WithBaseURL sets the server base URL, stripping any trailing slash.
func (c *Client) WithBaseURL(url string) *Client {
	if url != "" {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
	return c
}

// WithTimeout sets a custom per-request timeout. This allocates a dedicated
// http.Client sharing the pooled transport.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.httpClient = &http.Client{
			Timeout:   timeout,
			Transport: sharedHTTPClient.Transport,
		}
	}
	return c
}

// WithUserAgent overrides the User-Agent header.
func (c *Client) WithUserAgent(ua string) *Client {
	if ua != "" {
		c.userAgent = ua
	}
	return c
}

// OnSessionInvalidated registers the callback fired when a 401 forces the
// session closed. At most one handler is held.
func (c *Client) OnSessionInvalidated(fn func()) {
	c.onInvalidated = fn
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUEST GATEWAY
// =============================================================================

// doJSON performs a JSON request. When authed is true the stored credential
// is attached; with no credential the call fails with ErrNoCredential before
// any network activity.
func (c *Client) doJSON(ctx context.Context, method, path string, payload any, authed bool, out any, fallback string) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.send(req, path, authed, out, fallback)
}

// send finishes header setup, executes the request, and decodes the response.
// Content-Type must already be set by the caller; multipart bodies carry
// their own boundary.
func (c *Client) send(req *http.Request, op string, authed bool, out any, fallback string) error {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	if authed {
		token, ok, err := c.tokens.Get()
		if err != nil {
			return fmt.Errorf("failed to read credential: %w", err)
		}
		if !ok {
			return ErrNoCredential
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)

	// Clear the bearer token from the request after sending
	req.Header.Del("Authorization")

	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return err
	}

	if authed && resp.StatusCode == http.StatusUnauthorized {
		return c.invalidateSession()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, body, fallback)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// invalidateSession is the central 401 policy: purge the credential, signal
// the shell, and short-circuit the in-flight call. No retry is attempted; a
// 401 is terminal for both the call and the session.
func (c *Client) invalidateSession() error {
	_ = c.tokens.Clear()
	if c.onInvalidated != nil {
		c.onInvalidated()
	}
	return ErrSessionExpired
}

// readResponse reads a body with the size cap enforced.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) == MaxResponseSize {
		return nil, fmt.Errorf("response too large (exceeds %d bytes)", MaxResponseSize)
	}
	return body, nil
}

// =============================================================================
// AUTH ENDPOINTS (public)
// =============================================================================

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodPost, "/auth/signup", req, false, &user, "Signup failed"); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a bearer token. The caller is responsible
// for storing it.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	var pair TokenPair
	payload := loginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", payload, false, &pair, "Login failed"); err != nil {
		return nil, err
	}
	return &pair, nil
}

// CurrentUser fetches the identity behind the stored credential.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, true, &user, "Failed to get user"); err != nil {
		return nil, err
	}
	return &user, nil
}

// =============================================================================
// DOCUMENT ENDPOINTS
// =============================================================================

// ListDocuments returns all of the user's documents.
func (c *Client) ListDocuments(ctx context.Context) ([]Document, error) {
	var docs []Document
	if err := c.doJSON(ctx, http.MethodGet, "/documents", nil, true, &docs, "Failed to list documents"); err != nil {
		return nil, err
	}
	return docs, nil
}

// UploadFile uploads one file as multipart form data with fields file, title,
// and doc_type. The multipart writer sets its own boundary content type.
func (c *Client) UploadFile(ctx context.Context, path, title, docType string) (*UploadResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if info.Size() > MaxUploadSize {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), MaxUploadSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if err := w.WriteField("title", title); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if err := w.WriteField("doc_type", docType); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/user-docs/upload-file", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var result UploadResult
	if err := c.send(req, "/user-docs/upload-file", true, &result, "Upload failed"); err != nil {
		return nil, err
	}
	return &result, nil
}

// =============================================================================
// CHAT ENDPOINTS
// =============================================================================

// ListSessions returns the user's chat sessions.
func (c *Client) ListSessions(ctx context.Context) ([]ChatSession, error) {
	var sessions []ChatSession
	if err := c.doJSON(ctx, http.MethodGet, "/chats", nil, true, &sessions, "Failed to list sessions"); err != nil {
		return nil, err
	}
	return sessions, nil
}

// CreateSession creates a new chat session with an optional title.
func (c *Client) CreateSession(ctx context.Context, title string) (*ChatSession, error) {
	var session ChatSession
	payload := createSessionRequest{Title: title}
	if err := c.doJSON(ctx, http.MethodPost, "/chats", payload, true, &session, "Failed to create session"); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListMessages returns the transcript of one session.
func (c *Client) ListMessages(ctx context.Context, sessionID string) ([]ChatMessage, error) {
	var messages []ChatMessage
	path := "/chats/" + sessionID + "/messages"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, true, &messages, "Failed to load messages"); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage posts a user message and returns the assistant reply with its
// citations.
func (c *Client) SendMessage(ctx context.Context, sessionID, content string) (*ChatMessage, error) {
	var reply ChatMessage
	path := "/chats/" + sessionID + "/messages"
	payload := sendMessageRequest{Content: content}
	if err := c.doJSON(ctx, http.MethodPost, path, payload, true, &reply, "Failed to send message"); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Ask hits the stateless RAG endpoint directly, outside any session.
func (c *Client) Ask(ctx context.Context, question string) (*Answer, error) {
	var answer Answer
	payload := askRequest{Question: question}
	if err := c.doJSON(ctx, http.MethodPost, "/rag/answer", payload, true, &answer, "Failed to get answer"); err != nil {
		return nil, err
	}
	return &answer, nil
}
