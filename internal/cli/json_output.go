// json_output.go - JSON output support for scripting docket.
//
// Every command that takes --json emits this envelope so shell scripts
// can parse results without scraping styled terminal output.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JSONResponse is the standardized response format for all CLI commands.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the ISO8601 timestamp when the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Error:     nil,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Data:      nil,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print outputs the JSON response to stdout.
// Human-readable messages should go to stderr when JSON mode is enabled.
func (r *JSONResponse) Print() error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// OutputJSON runs handler and wraps its result in the JSON envelope when
// jsonMode is set. Otherwise the handler's own terminal output stands.
func OutputJSON(jsonMode bool, command string, handler func() (interface{}, error)) error {
	if !jsonMode {
		_, err := handler()
		return err
	}

	data, err := handler()
	if err != nil {
		resp := NewJSONErrorResponse(command, err)
		resp.Print()
		return err
	}

	resp := NewJSONResponse(command, data)
	return resp.Print()
}

// StderrPrintln prints a line to stderr (for human-readable output in JSON mode).
func StderrPrintln(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// WhoamiData represents the data returned by the whoami command.
type WhoamiData struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	IsActive bool   `json:"is_active"`
	Server   string `json:"server"`
}

// AskData represents the data returned by the ask command.
type AskData struct {
	Question   string         `json:"question"`
	Answer     string         `json:"answer"`
	Citations  []CitationData `json:"citations"`
	DurationMs int64          `json:"duration_ms"`
}

// CitationData is one source reference under an answer.
type CitationData struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Snippet string `json:"snippet,omitempty"`
	URL     string `json:"url,omitempty"`
}

// DocData represents one document in docs list output.
type DocData struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	DocType string `json:"doc_type"`
	Status  string `json:"status"`
	Created string `json:"created_at,omitempty"`
}

// UploadData represents the data returned by docs upload.
type UploadData struct {
	DocID         string `json:"doc_id"`
	Title         string `json:"title"`
	DocType       string `json:"doc_type"`
	ChunksIndexed int    `json:"chunks_indexed"`
}

// SessionData represents one session in sessions list output.
type SessionData struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Updated string `json:"updated_at,omitempty"`
}

// ConfigShowData represents the data returned by config show.
type ConfigShowData struct {
	Server struct {
		BaseURL     string `json:"base_url"`
		TimeoutSecs int    `json:"timeout_secs"`
	} `json:"server"`
	Upload struct {
		WatchDir     string `json:"watch_dir"`
		MaxPerMinute int    `json:"max_per_minute"`
	} `json:"upload"`
	Chat struct {
		SaveTranscripts bool   `json:"save_transcripts"`
		HistoryFile     string `json:"history_file"`
	} `json:"chat"`
	UI struct {
		Theme       string `json:"theme"`
		CompactMode bool   `json:"compact_mode"`
	} `json:"ui"`
	Path string `json:"config_path"`
}

// VersionData represents the data returned by the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
}
