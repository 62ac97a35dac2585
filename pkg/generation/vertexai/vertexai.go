// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

// Package vertexai calls Gemini models hosted on Vertex AI.
package vertexai

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"github.com/prototipo-projetos/docbrief/pkg/generation"
	"github.com/prototipo-projetos/docbrief/pkg/provider"
)

func init() {
	generation.Providers.Register("vertexai", func(ctx context.Context, p provider.Params) (generation.Generator, error) {
		return New(ctx, p.Get(generation.ParamProject, ""), p.Get(generation.ParamRegion, "us-central1"),
			p.Get(generation.ParamModel, generation.DefaultModel))
	})
}

// Client implements generation.Generator on top of a Vertex AI model.
// Authentication uses application default credentials.
type Client struct {
	base  *genai.Client
	model *genai.GenerativeModel
	name  string
}

// New creates a Vertex AI client for project and region.
func New(ctx context.Context, project, region, model string) (*Client, error) {
	if project == "" || region == "" {
		return nil, fmt.Errorf("vertexai: project and region cannot be empty")
	}

	base, err := genai.NewClient(ctx, project, region)
	if err != nil {
		return nil, fmt.Errorf("vertexai: new client: %w", err)
	}
	return &Client{base: base, model: base.GenerativeModel(model), name: model}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.name }

// Generate sends prompt and concatenates the text parts of the first
// candidate.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("vertexai generate: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return "", generation.ErrEmptyResponse
	}
	return text, nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.base.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}
