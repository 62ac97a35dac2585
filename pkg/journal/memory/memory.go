// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/prototipo-projetos/docbrief/pkg/journal"
	"github.com/prototipo-projetos/docbrief/pkg/provider"
)

// DefaultCapacity bounds the ring when no capacity is configured.
const DefaultCapacity = 1000

func init() {
	journal.Providers.Register("memory", func(_ context.Context, p provider.Params) (journal.Store, error) {
		return New(p.Int("capacity", DefaultCapacity)), nil
	})
}

// compile-time check
var _ journal.Store = (*Store)(nil)

// Store keeps the most recent entries in memory. Older entries are dropped
// once capacity is reached.
type Store struct {
	mu       sync.RWMutex
	capacity int
	entries  []*journal.Entry
}

// New creates a store holding at most capacity entries.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity}
}

// Record appends a copy of e.
func (s *Store) Record(_ context.Context, e *journal.Entry) error {
	cp := *e
	cp.Files = append([]journal.FileMeta(nil), e.Files...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, &cp)
	if over := len(s.entries) - s.capacity; over > 0 {
		s.entries = append(s.entries[:0:0], s.entries[over:]...)
	}
	return nil
}

// List returns up to limit entries, newest first.
func (s *Store) List(_ context.Context, limit int) ([]*journal.Entry, error) {
	limit = journal.ClampLimit(limit)

	s.mu.RLock()
	out := make([]*journal.Entry, len(s.entries))
	copy(out, s.entries)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
