// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// backend.go - Shared client wiring for CLI command handlers.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jeranaias/docket-tui/internal/api"
	"github.com/jeranaias/docket-tui/internal/auth"
	"github.com/jeranaias/docket-tui/internal/config"
)

// Backend bundles the config, token store, API client, and identity
// controller every command handler needs.
type Backend struct {
	Config *config.Config
	Store  auth.Store
	Client *api.Client
	Ctrl   *auth.Controller
}

// NewBackend wires up a Backend from the global config and stored token.
// The --server flag overrides the configured base URL for this run.
func NewBackend(args Args) *Backend {
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
	quiet := args.Quiet
	client.OnSessionInvalidated(func() {
		ctrl.HandleSessionExpired()
		if !quiet {
			StderrPrintln("Session expired. Run `docket login` to sign in again.")
		}
	})

	return &Backend{Config: cfg, Store: store, Client: client, Ctrl: ctrl}
}

// promptLine reads one line of input with a prompt, echoed.
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password from stdin without echoing.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	passBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(passBytes), nil
}
