// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prototipo-projetos/docbrief/pkg/core/config"
	"github.com/prototipo-projetos/docbrief/pkg/extractor/extractortest"
	"github.com/prototipo-projetos/docbrief/pkg/generation"
	"github.com/prototipo-projetos/docbrief/pkg/observability/logging"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version: dev")
	assert.Contains(t, out, "gemini")
	assert.Contains(t, out, "filesystem")
	assert.Contains(t, out, "sqlite")
}

func TestExtract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.docx")
	require.NoError(t, os.WriteFile(path, extractortest.DOCX(t, "Marco 1 concluído", "", "Marco 2 em curso"), 0o600))

	out, stderr, err := execute(t, "extract", path)
	require.NoError(t, err)
	assert.Equal(t, "Marco 1 concluído\nMarco 2 em curso\n", out)
	assert.Contains(t, stderr, "format=DOCX")
}

func TestExtract_EmptyWorkbookWarns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vazio.xlsx")
	require.NoError(t, os.WriteFile(path, extractortest.XLSX(t), 0o600))

	_, stderr, err := execute(t, "extract", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "AVISO")
}

func TestExtract_Unsupported(t *testing.T) {
	_, _, err := execute(t, "extract", "notas.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "não é suportado")
}

func TestNewGenerator(t *testing.T) {
	ctx := context.Background()
	log := logging.Discard()

	t.Run("missing key becomes a per-request error", func(t *testing.T) {
		gen, err := newGenerator(ctx, config.GenerationConfig{Provider: "gemini", Model: "gemini-2.5-flash"}, log)
		require.NoError(t, err)
		_, err = gen.Generate(ctx, "x")
		assert.True(t, errors.Is(err, generation.ErrMissingCredential))
	})

	t.Run("mock provider", func(t *testing.T) {
		gen, err := newGenerator(ctx, config.GenerationConfig{Provider: "mock"}, log)
		require.NoError(t, err)
		out, err := gen.Generate(ctx, "prompt")
		require.NoError(t, err)
		assert.True(t, strings.Contains(out, "BLOC-HTML"))
	})

	t.Run("unknown provider fails start-up", func(t *testing.T) {
		_, err := newGenerator(ctx, config.GenerationConfig{Provider: "nope"}, log)
		assert.Error(t, err)
	})
}

func TestLoadDashboardSchema(t *testing.T) {
	schema, err := loadDashboardSchema("")
	require.NoError(t, err)
	assert.Nil(t, schema)

	path := filepath.Join(t.TempDir(), "custom.schema.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"array"}`), 0o600))
	schema, err = loadDashboardSchema(path)
	require.NoError(t, err)
	assert.NotNil(t, schema)

	_, err = loadDashboardSchema(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
