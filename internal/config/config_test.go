// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Server.BaseURL == "" {
		t.Error("default base URL empty")
	}
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Server.TimeoutSecs != Default().Server.TimeoutSecs {
		t.Errorf("timeout = %d, want default", cfg.Server.TimeoutSecs)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Server.BaseURL = "https://docket.example.ie"
	cfg.UI.Theme = "dark"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "# docket configuration file") {
		t.Error("saved config missing header comment")
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0600 {
		t.Errorf("config perm = %o, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Server.BaseURL != "https://docket.example.ie" || loaded.UI.Theme != "dark" {
		t.Errorf("roundtrip mismatch: %+v", loaded)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DOCKET_SERVER_URL", "http://10.0.0.5:9000")
	t.Setenv("DOCKET_TIMEOUT_SECS", "30")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Server.BaseURL != "http://10.0.0.5:9000" {
		t.Errorf("base URL = %q, env override ignored", cfg.Server.BaseURL)
	}
	if cfg.Server.TimeoutSecs != 30 {
		t.Errorf("timeout = %d, env override ignored", cfg.Server.TimeoutSecs)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad scheme", func(c *Config) { c.Server.BaseURL = "ftp://x" }, "server.base_url"},
		{"huge timeout", func(c *Config) { c.Server.TimeoutSecs = 6000 }, "server.timeout_secs"},
		{"bad theme", func(c *Config) { c.UI.Theme = "solarized" }, "ui.theme"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Validate() = %v, want error mentioning %s", err, tc.want)
			}
		})
	}
}

func TestGetSetRoundtrip(t *testing.T) {
	cfg := Default()

	for _, key := range Keys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q) failed: %v", key, err)
		}
	}

	if err := cfg.Set("ui.theme", "light"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, _ := cfg.Get("ui.theme"); v != "light" {
		t.Errorf("theme = %q after Set", v)
	}

	if err := cfg.Set("ui.theme", "bogus"); err == nil {
		t.Error("Set accepted an invalid theme")
	}
	if err := cfg.Set("no.such.key", "x"); err == nil {
		t.Error("Set accepted an unknown key")
	}
	if err := cfg.Set("server.timeout_secs", "abc"); err == nil {
		t.Error("Set accepted a non-integer timeout")
	}
}

func TestGlobalSingleton(t *testing.T) {
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	cfg := Default()
	cfg.UI.CompactMode = true
	SetGlobal(cfg)

	if !Global().UI.CompactMode {
		t.Error("SetGlobal did not take effect")
	}
}
