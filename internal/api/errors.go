// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

var (
	// ErrNoCredential means no bearer token is stored; the call was never sent.
	ErrNoCredential = errors.New("not authenticated")

	// ErrSessionExpired means the server answered 401. The gateway has already
	// cleared the credential and signalled the shell; callers must swallow
	// this error to avoid a duplicate user-facing message.
	ErrSessionExpired = errors.New("session expired")
)

// APIError is any non-success HTTP response other than 401, carrying the
// best-effort detail string extracted from the server's error body.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("docket api error (HTTP %d)", e.Status)
	}
	return fmt.Sprintf("docket api error (HTTP %d): %s", e.Status, e.Detail)
}

// TransportError is a network-level failure with no HTTP response at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("docket network error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is (or wraps) a network-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// =============================================================================
// ERROR BODY PARSING
// =============================================================================

// errorEnvelope is the server's error body shape: detail is either a string
// or a structured validation array.
type errorEnvelope struct {
	Detail json.RawMessage `json:"detail"`
}

// parseErrorDetail extracts a human-readable detail from an error body.
// A string detail passes through, an array collapses to "Validation error",
// and anything else (absent, malformed, other types) returns "".
func parseErrorDetail(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		return s
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(env.Detail, &arr); err == nil {
		return "Validation error"
	}

	return ""
}

// newAPIError builds an APIError from a response body, using fallback when no
// detail could be extracted.
func newAPIError(status int, body []byte, fallback string) *APIError {
	detail := parseErrorDetail(body)
	if detail == "" {
		detail = fallback
	}
	return &APIError{Status: status, Detail: detail}
}
