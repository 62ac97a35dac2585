// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

// Package journaltest provides a shared conformance test suite for
// journal.Store implementations.
package journaltest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prototipo-projetos/docbrief/pkg/journal"
)

// SampleEntry returns a fully populated entry started at ts.
func SampleEntry(id string, ts time.Time) *journal.Entry {
	return &journal.Entry{
		ID:   id,
		Mode: journal.ModeMulti,
		Files: []journal.FileMeta{
			{Name: "relatorio.docx", Bytes: 2048, Format: "DOCX"},
			{Name: "dados.csv", Bytes: 12, Skipped: true, Error: "Formato de arquivo '.csv' não é suportado."},
		},
		Status:         journal.StatusOK,
		Model:          "gemini-2.5-flash",
		PromptChars:    5120,
		HTMLChars:      830,
		DashboardItems: 3,
		DashboardValid: true,
		StartedAt:      ts,
		Duration:       1500 * time.Millisecond,
	}
}

// RunConformanceTests exercises a Store implementation against the shared
// contract. newStore is called once per sub-test.
func RunConformanceTests(t *testing.T, newStore func(t *testing.T) journal.Store) {
	t.Helper()

	t.Run("RecordAndList", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()
		ctx := context.Background()

		ts := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
		want := SampleEntry("req-1", ts)
		require.NoError(t, store.Record(ctx, want))

		got, err := store.List(ctx, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)

		e := got[0]
		assert.Equal(t, want.ID, e.ID)
		assert.Equal(t, want.Mode, e.Mode)
		assert.Equal(t, want.Files, e.Files)
		assert.Equal(t, want.Status, e.Status)
		assert.Equal(t, want.Model, e.Model)
		assert.Equal(t, want.PromptChars, e.PromptChars)
		assert.Equal(t, want.HTMLChars, e.HTMLChars)
		assert.Equal(t, want.DashboardItems, e.DashboardItems)
		assert.Equal(t, want.DashboardValid, e.DashboardValid)
		assert.True(t, want.StartedAt.Equal(e.StartedAt), "StartedAt = %v, want %v", e.StartedAt, want.StartedAt)
		assert.Equal(t, want.Duration, e.Duration)
	})

	t.Run("ErrorEntry", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()
		ctx := context.Background()

		e := &journal.Entry{
			ID:           "req-err",
			Mode:         journal.ModeSingle,
			Files:        []journal.FileMeta{{Name: "secreto.pdf", Bytes: 900, Format: "PDF"}},
			Status:       journal.StatusError,
			ErrorKind:    "extraction",
			ErrorMessage: "ERRO: O arquivo PDF está protegido por senha.",
			StartedAt:    time.Now().UTC(),
		}
		require.NoError(t, store.Record(ctx, e))

		got, err := store.List(ctx, 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "extraction", got[0].ErrorKind)
		assert.Equal(t, e.ErrorMessage, got[0].ErrorMessage)
		assert.False(t, got[0].DashboardValid)
	})

	t.Run("NewestFirstAndLimit", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()
		ctx := context.Background()

		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 5; i++ {
			require.NoError(t, store.Record(ctx, SampleEntry(fmt.Sprintf("req-%d", i), base.Add(time.Duration(i)*time.Minute))))
		}

		got, err := store.List(ctx, 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "req-4", got[0].ID)
		assert.Equal(t, "req-3", got[1].ID)
		assert.Equal(t, "req-2", got[2].ID)
	})

	t.Run("EmptyList", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		got, err := store.List(context.Background(), 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
