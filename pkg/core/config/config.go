// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/prototipo-projetos/docbrief/pkg/provider"
)

// Config represents the main configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Generation GenerationConfig `yaml:"generation"`
	Uploads    UploadsConfig    `yaml:"uploads"`
	Journal    JournalConfig    `yaml:"journal"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Response   ResponseConfig   `yaml:"response"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
}

// LoggingConfig selects level and handler format.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// GenerationConfig configures the text generation backend
type GenerationConfig struct {
	Provider string        `yaml:"provider"` // gemini (default), vertexai, openai, mock
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"api_key"`
	BaseURL  string        `yaml:"base_url"` // openai-compatible endpoint
	Project  string        `yaml:"project"`  // vertexai
	Region   string        `yaml:"region"`   // vertexai
	Timeout  time.Duration `yaml:"timeout"`
}

// UploadsConfig configures where uploads are staged during a request
type UploadsConfig struct {
	Type     string `yaml:"type"`     // filesystem (default), memory, s3, gcs
	BaseDir  string `yaml:"base_dir"` // filesystem
	Bucket   string `yaml:"bucket"`   // s3, gcs
	Region   string `yaml:"region"`   // s3
	Prefix   string `yaml:"prefix"`   // s3, gcs
	Endpoint string `yaml:"endpoint"` // MinIO or GCS emulator
}

// JournalConfig configures the request journal
type JournalConfig struct {
	Type       string `yaml:"type"` // none (default), memory, sqlite, postgres, firestore
	DSN        string `yaml:"dsn"`  // postgres
	Path       string `yaml:"path"` // sqlite
	Project    string `yaml:"project"`
	Collection string `yaml:"collection"`
	Capacity   int    `yaml:"capacity"` // memory
}

// ExtractionConfig tunes document extraction
type ExtractionConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// ResponseConfig controls post-processing of the generated answer
type ResponseConfig struct {
	SanitizeHTML    bool   `yaml:"sanitize_html"`
	DashboardSchema string `yaml:"dashboard_schema"` // optional path overriding the built-in schema
}

// Load reads a YAML file on top of Default, then applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when path is
// empty or the file does not exist. The second return value reports whether
// the file was used.
func LoadOrDefault(path string) (*Config, bool, error) {
	if path == "" {
		return Default(), false, nil
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

// Default returns default configuration with environment overrides applied
func Default() *Config {
	cfg := defaults()
	applyEnv(cfg)
	return cfg
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           5001,
			Timeout:        5 * time.Minute,
			MaxUploadBytes: 32 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Generation: GenerationConfig{
			Provider: "gemini",
			Model:    "gemini-2.5-flash",
			Region:   "us-central1",
			Timeout:  2 * time.Minute,
		},
		Uploads: UploadsConfig{
			Type:    "filesystem",
			BaseDir: "uploads",
		},
		Journal: JournalConfig{
			Type:       "none",
			Path:       "docbrief.db",
			Collection: "docbrief_requests",
			Capacity:   1000,
		},
		Extraction: ExtractionConfig{
			Concurrency: 4,
		},
		Response: ResponseConfig{
			SanitizeHTML: true,
		},
	}
}

// applyEnv overrides file values with environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("DOCBRIEF_PROVIDER"); v != "" {
		cfg.Generation.Provider = v
	}
	if v := os.Getenv("DOCBRIEF_MODEL"); v != "" {
		cfg.Generation.Model = v
	}

	// The credential variable depends on the provider.
	if cfg.Generation.Provider == "openai" {
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			cfg.Generation.APIKey = v
		}
		if v := os.Getenv("OPENAI_API_ENDPOINT"); v != "" {
			cfg.Generation.BaseURL = v
		}
	} else {
		for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
			if v := os.Getenv(name); v != "" {
				cfg.Generation.APIKey = v
				break
			}
		}
	}

	if v := os.Getenv("DOCBRIEF_UPLOAD_DIR"); v != "" {
		cfg.Uploads.BaseDir = v
	}
	if v := os.Getenv("DOCBRIEF_JOURNAL"); v != "" {
		cfg.Journal.Type = v
	}
	if v := os.Getenv("DOCBRIEF_JOURNAL_DSN"); v != "" {
		if cfg.Journal.Type == "sqlite" {
			cfg.Journal.Path = v
		} else {
			cfg.Journal.DSN = v
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.Timeout <= 0 {
		errs = append(errs, errors.New("server.timeout must be positive"))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("server.max_upload_bytes must be positive"))
	}
	if c.Generation.Timeout <= 0 {
		errs = append(errs, errors.New("generation.timeout must be positive"))
	}
	if c.Generation.Provider == "" {
		errs = append(errs, errors.New("generation.provider is required"))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be json or text", c.Logging.Format))
	}
	if c.Extraction.Concurrency < 1 {
		errs = append(errs, errors.New("extraction.concurrency must be at least 1"))
	}
	return errors.Join(errs...)
}

// MissingCredential reports whether the configured provider needs an API
// key that is not set. It only drives a start-up warning.
func (g GenerationConfig) MissingCredential() bool {
	switch g.Provider {
	case "gemini":
		return g.APIKey == ""
	case "openai":
		return g.APIKey == "" && g.BaseURL == ""
	default:
		return false
	}
}

// Params converts the section into provider factory parameters.
func (g GenerationConfig) Params() provider.Params {
	return provider.Params{
		"api_key":  g.APIKey,
		"model":    g.Model,
		"base_url": g.BaseURL,
		"project":  g.Project,
		"region":   g.Region,
	}
}

// Params converts the section into provider factory parameters.
func (u UploadsConfig) Params() provider.Params {
	return provider.Params{
		"base_dir": u.BaseDir,
		"bucket":   u.Bucket,
		"region":   u.Region,
		"prefix":   u.Prefix,
		"endpoint": u.Endpoint,
	}
}

// Params converts the section into provider factory parameters.
func (j JournalConfig) Params() provider.Params {
	return provider.Params{
		"dsn":        j.DSN,
		"path":       j.Path,
		"project":    j.Project,
		"collection": j.Collection,
		"capacity":   strconv.Itoa(j.Capacity),
	}
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
