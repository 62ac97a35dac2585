// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

// Package openai calls any OpenAI-compatible chat completions endpoint
// (OpenAI, Ollama, vLLM) through the official SDK.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/prototipo-projetos/docbrief/pkg/generation"
	"github.com/prototipo-projetos/docbrief/pkg/provider"
)

func init() {
	generation.Providers.Register("openai", func(_ context.Context, p provider.Params) (generation.Generator, error) {
		return New(p.Get(generation.ParamBaseURL, ""), p.Get(generation.ParamAPIKey, ""), p.Get(generation.ParamModel, "gpt-4o-mini"))
	})
}

// Client implements generation.Generator with a single-turn chat completion.
type Client struct {
	client openai.Client
	model  string
}

// New creates a client. The API key is only optional when baseURL points at
// a local backend; against the default endpoint it is required.
func New(baseURL, apiKey, model string) (*Client, error) {
	opts := []option.RequestOption{option.WithMaxRetries(0)}

	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	switch {
	case apiKey != "":
		opts = append(opts, option.WithAPIKey(apiKey))
	case baseURL == "":
		return nil, generation.ErrMissingCredential
	default:
		// Local backends like Ollama accept any key.
		opts = append(opts, option.WithAPIKey("dummy"))
	}

	return &Client{client: openai.NewClient(opts...), model: model}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Generate sends prompt as one user message and returns the first choice.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", generation.ErrEmptyResponse
	}
	return completion.Choices[0].Message.Content, nil
}
