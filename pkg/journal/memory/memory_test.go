// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prototipo-projetos/docbrief/pkg/journal"
	"github.com/prototipo-projetos/docbrief/pkg/journal/journaltest"
	"github.com/prototipo-projetos/docbrief/pkg/journal/memory"
)

func TestMemoryConformance(t *testing.T) {
	journaltest.RunConformanceTests(t, func(t *testing.T) journal.Store {
		return memory.New(0)
	})
}

func TestCapacityDropsOldest(t *testing.T) {
	store := memory.New(2)
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Record(ctx, journaltest.SampleEntry(fmt.Sprintf("r%d", i), base.Add(time.Duration(i)*time.Second))))
	}

	got, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "r2", got[0].ID)
	assert.Equal(t, "r1", got[1].ID)
}

func TestRecordCopiesEntry(t *testing.T) {
	store := memory.New(10)
	e := journaltest.SampleEntry("r", time.Now())
	require.NoError(t, store.Record(context.Background(), e))

	e.Files[0].Name = "changed"
	got, _ := store.List(context.Background(), 1)
	assert.Equal(t, "relatorio.docx", got[0].Files[0].Name)
}

func TestRegisteredWithCapacity(t *testing.T) {
	store, err := journal.Providers.New(context.Background(), "memory", map[string]string{"capacity": "1"})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Record(ctx, journaltest.SampleEntry("a", time.Now())))
	require.NoError(t, store.Record(ctx, journaltest.SampleEntry("b", time.Now().Add(time.Second))))

	got, _ := store.List(ctx, 10)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}
