// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prototipo-projetos/docbrief/pkg/generation"
	"github.com/prototipo-projetos/docbrief/pkg/provider"
)

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}

		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 1 || req.Contents[0].Parts[0].Text != "olá" {
			t.Errorf("unexpected contents: %+v", req.Contents)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerate(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":"resposta"}]}}]}`)

	c, err := New(context.Background(), Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, generation.DefaultModel, c.Model())

	out, err := c.Generate(context.Background(), "olá")
	require.NoError(t, err)
	assert.Equal(t, "resposta", out)
}

func TestGenerate_EmptyAnswer(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"candidates":[]}`)

	c, err := New(context.Background(), Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "olá")
	assert.True(t, errors.Is(err, generation.ErrEmptyResponse), "err = %v", err)
}

func TestGenerate_ServiceError(t *testing.T) {
	srv := newServer(t, http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)

	c, err := New(context.Background(), Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "olá")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestNew_MissingKey(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.ErrorIs(t, err, generation.ErrMissingCredential)
}

func TestRegistered(t *testing.T) {
	require.True(t, generation.Providers.Has("gemini"))

	_, err := generation.Providers.New(context.Background(), "gemini", provider.Params{})
	assert.ErrorIs(t, err, generation.ErrMissingCredential)
}
