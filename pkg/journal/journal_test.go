// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package journal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, DefaultLimit, ClampLimit(-3))
	assert.Equal(t, 7, ClampLimit(7))
	assert.Equal(t, MaxLimit, ClampLimit(MaxLimit+1))
}

func TestNoneBackend(t *testing.T) {
	store, err := Providers.New(context.Background(), "none", nil)
	require.NoError(t, err)

	require.NoError(t, store.Record(context.Background(), &Entry{ID: "x"}))
	entries, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
	assert.NoError(t, store.Close())
}
