// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

// Package gemini calls the Gemini API through google.golang.org/genai.
package gemini

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/prototipo-projetos/docbrief/pkg/generation"
	"github.com/prototipo-projetos/docbrief/pkg/provider"
)

func init() {
	generation.Providers.Register("gemini", func(ctx context.Context, p provider.Params) (generation.Generator, error) {
		return New(ctx, Config{
			APIKey:  p.Get(generation.ParamAPIKey, ""),
			Model:   p.Get(generation.ParamModel, generation.DefaultModel),
			BaseURL: p.Get(generation.ParamBaseURL, ""),
		})
	})
}

// Config for the Gemini backend.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string // overrides the API endpoint, used by tests

	HTTPClient *http.Client
}

// Client implements generation.Generator.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a Gemini client. An empty API key is rejected with
// generation.ErrMissingCredential instead of falling back to the process
// environment.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, generation.ErrMissingCredential
	}
	if cfg.Model == "" {
		cfg.Model = generation.DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{client: client, model: cfg.Model}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Generate sends prompt as a single user turn and returns the answer text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", generation.ErrEmptyResponse
	}
	return text, nil
}
