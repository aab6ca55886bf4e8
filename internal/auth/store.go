// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth holds the credential store and the process-wide identity
// controller.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/jeranaias/docket-tui/internal/util"
)

// tokenKey is the fixed storage key for the single bearer credential.
const tokenKey = "auth_token"

// Store persists at most one bearer credential. Get reports absent via the
// bool; a missing backing file is absent, not an error. The credential is
// stored as plain text by design.
type Store interface {
	Get() (token string, ok bool, err error)
	Set(token string) error
	Clear() error
}

// =============================================================================
// FILE STORE
// =============================================================================

// FileStore keeps the credential in a small JSON file, written atomically
// with owner-only permissions.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// tokenFile is the on-disk shape: {"auth_token": "..."}.
type tokenFile struct {
	AuthToken string `json:"auth_token"`
}

// Get reads the stored credential. A missing or empty file is a clean absent.
func (s *FileStore) Get() (string, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read token file: %w", err)
	}

	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return "", false, fmt.Errorf("token file corrupt: %w", err)
	}
	if tf.AuthToken == "" {
		return "", false, nil
	}
	return tf.AuthToken, true, nil
}

// Set replaces the stored credential.
func (s *FileStore) Set(token string) error {
	data, err := json.MarshalIndent(tokenFile{AuthToken: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(s.path, data, 0600, 0700); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Clear removes the stored credential. Clearing an absent credential is not
// an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemStore is an in-memory Store, used in tests and when no writable config
// directory is available.
type MemStore struct {
	mu    sync.Mutex
	token string
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Get() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != "", nil
}

func (s *MemStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// OpenDefaultStore returns a file store under dir, or an in-memory store when
// dir is empty or cannot be created.
func OpenDefaultStore(dir string) Store {
	if dir == "" {
		return NewMemStore()
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return NewMemStore()
	}
	return NewFileStore(dir + string(os.PathSeparator) + "token.json")
}
