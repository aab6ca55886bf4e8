// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and persists docket's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/docket-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURE
// =============================================================================

// Config is the full application configuration.
type Config struct {
	Version int `toml:"version" json:"version"`

	Server ServerConfig `toml:"server" json:"server"`
	Upload UploadConfig `toml:"upload" json:"upload"`
	Chat   ChatConfig   `toml:"chat" json:"chat"`
	UI     UIConfig     `toml:"ui" json:"ui"`
}

// ServerConfig locates the docket backend.
type ServerConfig struct {
	BaseURL     string `toml:"base_url" json:"base_url"`
	TimeoutSecs int    `toml:"timeout_secs" json:"timeout_secs"`
}

// UploadConfig controls document uploads and the watch directory.
type UploadConfig struct {
	WatchDir string `toml:"watch_dir" json:"watch_dir"`
	// MaxPerMinute rate-limits the watch-directory auto-uploader.
	MaxPerMinute int `toml:"max_per_minute" json:"max_per_minute"`
}

// ChatConfig controls the chat surfaces.
type ChatConfig struct {
	// SaveTranscripts mirrors fetched sessions into the local cache.
	SaveTranscripts bool `toml:"save_transcripts" json:"save_transcripts"`
	// HistoryFile is the REPL line-editor history location.
	HistoryFile string `toml:"history_file" json:"history_file"`
}

// UIConfig controls presentation.
type UIConfig struct {
	Theme       string `toml:"theme" json:"theme"`
	CompactMode bool   `toml:"compact_mode" json:"compact_mode"`
}

const currentVersion = 1

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version: currentVersion,
		Server: ServerConfig{
			BaseURL:     "http://127.0.0.1:8000",
			TimeoutSecs: 60,
		},
		Upload: UploadConfig{
			MaxPerMinute: 6,
		},
		Chat: ChatConfig{
			SaveTranscripts: true,
		},
		UI: UIConfig{
			Theme: "auto",
		},
	}
}

// Timeout returns the server timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSecs) * time.Second
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the docket configuration directory (~/.docket), creating
// nothing. An empty string means no home directory is available.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".docket")
}

// Path returns the TOML config file path.
func Path() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// TranscriptsDir returns the local transcript cache directory.
func TranscriptsDir() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "transcripts")
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file, falling back to defaults when it is missing.
// Environment overrides and validation run in every case.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads a specific config file path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
			ensureSecurePermissions(path)
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as TOML with owner-only permissions.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	if path == "" {
		return fmt.Errorf("no config path available")
	}

	var sb strings.Builder
	sb.WriteString("# docket configuration file\n")
	sb.WriteString("# https://github.com/jeranaias/docket-tui\n\n")
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFileWithDir(path, []byte(sb.String()), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ensureSecurePermissions forces 0600 on an existing config file.
func ensureSecurePermissions(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.Mode().Perm() != 0600 {
		os.Chmod(path, 0600)
	}
}

// =============================================================================
// ENV OVERRIDES
// =============================================================================

// ApplyEnvOverrides lets DOCKET_* environment variables override file values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("DOCKET_SERVER_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("DOCKET_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.Server.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("DOCKET_WATCH_DIR"); v != "" {
		c.Upload.WatchDir = v
	}
	if v := os.Getenv("DOCKET_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// SetDefaults fills zero values that would otherwise be invalid.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Version == 0 {
		c.Version = d.Version
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = d.Server.BaseURL
	}
	if c.Server.TimeoutSecs <= 0 {
		c.Server.TimeoutSecs = d.Server.TimeoutSecs
	}
	if c.Upload.MaxPerMinute <= 0 {
		c.Upload.MaxPerMinute = d.Upload.MaxPerMinute
	}
	if c.Chat.HistoryFile == "" {
		if dir := Dir(); dir != "" {
			c.Chat.HistoryFile = filepath.Join(dir, "chat_history")
		}
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Validate checks the config for values the client cannot work with.
func (c *Config) Validate() error {
	var errs []string

	if !strings.HasPrefix(c.Server.BaseURL, "http://") && !strings.HasPrefix(c.Server.BaseURL, "https://") {
		errs = append(errs, (&ValidationError{"server.base_url", "must start with http:// or https://"}).Error())
	}
	if c.Server.TimeoutSecs > 600 {
		errs = append(errs, (&ValidationError{"server.timeout_secs", "must be at most 600"}).Error())
	}
	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		errs = append(errs, (&ValidationError{"ui.theme", "must be auto, dark, or light"}).Error())
	}
	if c.Upload.WatchDir != "" {
		if info, err := os.Stat(c.Upload.WatchDir); err == nil && !info.IsDir() {
			errs = append(errs, (&ValidationError{"upload.watch_dir", "is not a directory"}).Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// =============================================================================
// DOT-NOTATION ACCESS (config get/set commands)
// =============================================================================

// Get reads a config value by dot-notation key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "server.base_url":
		return c.Server.BaseURL, nil
	case "server.timeout_secs":
		return strconv.Itoa(c.Server.TimeoutSecs), nil
	case "upload.watch_dir":
		return c.Upload.WatchDir, nil
	case "upload.max_per_minute":
		return strconv.Itoa(c.Upload.MaxPerMinute), nil
	case "chat.save_transcripts":
		return strconv.FormatBool(c.Chat.SaveTranscripts), nil
	case "chat.history_file":
		return c.Chat.HistoryFile, nil
	case "ui.theme":
		return c.UI.Theme, nil
	case "ui.compact_mode":
		return strconv.FormatBool(c.UI.CompactMode), nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

// Set writes a config value by dot-notation key. The caller saves.
func (c *Config) Set(key, value string) error {
	switch key {
	case "server.base_url":
		c.Server.BaseURL = value
	case "server.timeout_secs":
		secs, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer: %q", value)
		}
		c.Server.TimeoutSecs = secs
	case "upload.watch_dir":
		c.Upload.WatchDir = value
	case "upload.max_per_minute":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer: %q", value)
		}
		c.Upload.MaxPerMinute = n
	case "chat.save_transcripts":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %q", value)
		}
		c.Chat.SaveTranscripts = b
	case "chat.history_file":
		c.Chat.HistoryFile = value
	case "ui.theme":
		c.UI.Theme = value
	case "ui.compact_mode":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %q", value)
		}
		c.UI.CompactMode = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return c.Validate()
}

// Keys lists the dot-notation keys Get and Set accept.
func Keys() []string {
	return []string{
		"server.base_url",
		"server.timeout_secs",
		"upload.watch_dir",
		"upload.max_per_minute",
		"chat.save_transcripts",
		"chat.history_file",
		"ui.theme",
		"ui.compact_mode",
	}
}

// =============================================================================
// GLOBAL SINGLETON
// =============================================================================

var (
	globalConfig *Config
	globalMu     sync.RWMutex
	globalOnce   sync.Once
)

// Global returns the process-wide config, loading it on first use. A load
// failure falls back to defaults.
func Global() *Config {
	globalOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		globalMu.Lock()
		globalConfig = cfg
		globalMu.Unlock()
	})

	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// SetGlobal replaces the process-wide config.
func SetGlobal(cfg *Config) {
	globalOnce.Do(func() {})
	globalMu.Lock()
	globalConfig = cfg
	globalMu.Unlock()
}

// ResetGlobalForTesting clears the singleton so tests can reload.
func ResetGlobalForTesting() {
	globalMu.Lock()
	globalConfig = nil
	globalMu.Unlock()
	globalOnce = sync.Once{}
}
