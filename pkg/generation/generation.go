// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

// Package generation is a thin pass-through to the external text service.
//
// Backends live in subpackages and register themselves in Providers from
// init(); the binary activates them with blank imports.
package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prototipo-projetos/docbrief/pkg/provider"
)

// Param keys understood by the backend factories.
const (
	ParamAPIKey  = "api_key"
	ParamModel   = "model"
	ParamBaseURL = "base_url"
	ParamProject = "project"
	ParamRegion  = "region"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

var (
	// ErrMissingCredential means the backend has no API key to call with.
	ErrMissingCredential = errors.New("generation: missing API credential")
	// ErrTimeout means the call did not complete within its deadline.
	ErrTimeout = errors.New("generation: timed out")
	// ErrEmptyResponse means the service answered without any text.
	ErrEmptyResponse = errors.New("generation: empty response")
)

// Generator sends one prompt and returns the raw answer text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Model names the model used, for logs and the journal.
	Model() string
}

// Providers holds every registered backend.
var Providers = provider.NewRegistry[Generator]("generation")

// Func adapts a plain function to Generator.
type Func func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f Func) Generate(ctx context.Context, prompt string) (string, error) { return f(ctx, prompt) }

// Model reports "func".
func (f Func) Model() string { return "func" }

type unavailable struct {
	model string
	err   error
}

// Unavailable returns a Generator that fails every call with err. It stands
// in for a backend that could not be built at start-up so that the server
// still runs and reports the problem per request.
func Unavailable(model string, err error) Generator {
	return &unavailable{model: model, err: err}
}

func (u *unavailable) Generate(context.Context, string) (string, error) { return "", u.err }
func (u *unavailable) Model() string                                    { return u.model }

type timeoutGenerator struct {
	next    Generator
	timeout time.Duration
}

// WithTimeout bounds every call to g by d. A call that hits the deadline
// returns an error matching ErrTimeout. A non-positive d returns g unchanged.
func WithTimeout(g Generator, d time.Duration) Generator {
	if d <= 0 {
		return g
	}
	return &timeoutGenerator{next: g, timeout: d}
}

func (t *timeoutGenerator) Model() string { return t.next.Model() }

func (t *timeoutGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	out, err := t.next.Generate(ctx, prompt)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("%w after %s: %w", ErrTimeout, t.timeout, err)
	}
	return out, err
}
