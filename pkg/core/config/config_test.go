// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envVars = []string{
	"GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY", "OPENAI_API_ENDPOINT",
	"DOCBRIEF_PROVIDER", "DOCBRIEF_MODEL", "DOCBRIEF_UPLOAD_DIR",
	"DOCBRIEF_JOURNAL", "DOCBRIEF_JOURNAL_DSN", "PORT",
}

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range envVars {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docbrief.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	clearEnv(t)
	cfg := Default()

	if cfg.Server.Port != 5001 {
		t.Errorf("port = %d, want 5001", cfg.Server.Port)
	}
	if cfg.Generation.Provider != "gemini" || cfg.Generation.Model != "gemini-2.5-flash" {
		t.Errorf("generation = %+v", cfg.Generation)
	}
	if cfg.Uploads.Type != "filesystem" || cfg.Uploads.BaseDir != "uploads" {
		t.Errorf("uploads = %+v", cfg.Uploads)
	}
	if cfg.Journal.Type != "none" {
		t.Errorf("journal type = %q, want none", cfg.Journal.Type)
	}
	if !cfg.Response.SanitizeHTML {
		t.Error("sanitize_html should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if !cfg.Generation.MissingCredential() {
		t.Error("gemini without a key should report a missing credential")
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: 9090
  timeout: 30s
generation:
  provider: mock
  timeout: 10s
journal:
  type: sqlite
  path: /tmp/journal.db
extraction:
  concurrency: 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Server.Timeout != 30*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
	// Unset keys keep their defaults.
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.MaxUploadBytes != 32<<20 {
		t.Errorf("server defaults lost: %+v", cfg.Server)
	}
	if cfg.Generation.Provider != "mock" || cfg.Generation.Timeout != 10*time.Second {
		t.Errorf("generation = %+v", cfg.Generation)
	}
	if cfg.Journal.Params().Get("path", "") != "/tmp/journal.db" {
		t.Errorf("journal params = %v", cfg.Journal.Params())
	}
	if cfg.Extraction.Concurrency != 2 {
		t.Errorf("concurrency = %d", cfg.Extraction.Concurrency)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("DOCBRIEF_MODEL", "gemini-2.5-pro")
	t.Setenv("DOCBRIEF_UPLOAD_DIR", "/var/docbrief")
	t.Setenv("DOCBRIEF_JOURNAL", "postgres")
	t.Setenv("DOCBRIEF_JOURNAL_DSN", "postgres://localhost/docbrief")
	t.Setenv("PORT", "7000")

	cfg, err := Load(writeConfig(t, "generation:\n  api_key: from-file\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Generation.APIKey != "google-key" {
		t.Errorf("api key = %q", cfg.Generation.APIKey)
	}
	if cfg.Generation.Model != "gemini-2.5-pro" {
		t.Errorf("model = %q", cfg.Generation.Model)
	}
	if cfg.Uploads.BaseDir != "/var/docbrief" {
		t.Errorf("base dir = %q", cfg.Uploads.BaseDir)
	}
	if cfg.Journal.Type != "postgres" || cfg.Journal.DSN != "postgres://localhost/docbrief" {
		t.Errorf("journal = %+v", cfg.Journal)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
}

func TestApplyEnv_GeminiKeyPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("GOOGLE_API_KEY", "google-key")

	if got := Default().Generation.APIKey; got != "gemini-key" {
		t.Errorf("api key = %q, want gemini-key", got)
	}
}

func TestApplyEnv_OpenAIProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOCBRIEF_PROVIDER", "openai")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	gen := Default().Generation
	if gen.Provider != "openai" || gen.APIKey != "sk-test" {
		t.Errorf("generation = %+v", gen)
	}
	if gen.MissingCredential() {
		t.Error("openai with a key should not report a missing credential")
	}
}

func TestApplyEnv_SqliteJournalDSNSetsPath(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOCBRIEF_JOURNAL", "sqlite")
	t.Setenv("DOCBRIEF_JOURNAL_DSN", "/data/j.db")

	j := Default().Journal
	if j.Path != "/data/j.db" || j.DSN != "" {
		t.Errorf("journal = %+v", j)
	}
}

func TestApplyEnv_BadPortIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-port")
	if got := Default().Server.Port; got != 5001 {
		t.Errorf("port = %d, want 5001", got)
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero server timeout", func(c *Config) { c.Server.Timeout = 0 }, "server.timeout"},
		{"negative generation timeout", func(c *Config) { c.Generation.Timeout = -time.Second }, "generation.timeout"},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"no upload limit", func(c *Config) { c.Server.MaxUploadBytes = 0 }, "max_upload_bytes"},
		{"zero concurrency", func(c *Config) { c.Extraction.Concurrency = 0 }, "concurrency"},
		{"empty provider", func(c *Config) { c.Generation.Provider = "" }, "generation.provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(writeConfig(t, "server: [")); err == nil {
		t.Error("expected parse error")
	}
	if _, err := Load(writeConfig(t, "server:\n  timeout: -1s\n")); err == nil {
		t.Error("expected validation error")
	}
}

func TestLoadOrDefault(t *testing.T) {
	clearEnv(t)

	cfg, used, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil || used || cfg == nil {
		t.Fatalf("missing file: cfg=%v used=%v err=%v", cfg, used, err)
	}

	_, used, err = LoadOrDefault("")
	if err != nil || used {
		t.Fatalf("empty path: used=%v err=%v", used, err)
	}

	cfg, used, err = LoadOrDefault(writeConfig(t, "uploads:\n  type: memory\n"))
	if err != nil || !used || cfg.Uploads.Type != "memory" {
		t.Fatalf("existing file: cfg=%+v used=%v err=%v", cfg, used, err)
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 5001}
	if got := s.Addr(); got != "127.0.0.1:5001" {
		t.Errorf("Addr() = %q", got)
	}
}
