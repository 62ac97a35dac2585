// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package firestore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prototipo-projetos/docbrief/pkg/journal"
	"github.com/prototipo-projetos/docbrief/pkg/journal/journaltest"
)

func TestDocumentMapping(t *testing.T) {
	e := journaltest.SampleEntry("req-1", time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC))

	back := fromDocument(e.ID, toDocument(e))
	assert.Equal(t, e, back)
}

func TestFirestoreConformance(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("Skipping Firestore conformance tests: FIRESTORE_EMULATOR_HOST must be set")
	}

	n := 0
	journaltest.RunConformanceTests(t, func(t *testing.T) journal.Store {
		n++
		store, err := New(context.Background(), "docbrief-test", fmt.Sprintf("journal_%d_%d", time.Now().UnixNano(), n))
		require.NoError(t, err)
		return store
	})
}

func TestNew_RequiresProject(t *testing.T) {
	_, err := New(context.Background(), "", DefaultCollection)
	assert.Error(t, err)
}
