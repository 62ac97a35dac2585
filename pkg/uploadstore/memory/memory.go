// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/prototipo-projetos/docbrief/pkg/provider"
	"github.com/prototipo-projetos/docbrief/pkg/uploadstore"
)

func init() {
	uploadstore.Providers.Register("memory", func(_ context.Context, _ provider.Params) (uploadstore.Store, error) {
		return New(), nil
	})
}

// compile-time check
var _ uploadstore.Store = (*Store)(nil)

// Store is an in-memory upload store.
type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates a new in-memory upload store.
func New() *Store {
	return &Store{objects: make(map[string][]byte)}
}

// Put stores a copy of the content.
func (s *Store) Put(_ context.Context, obj *uploadstore.Object) error {
	if err := uploadstore.ValidateKey(obj.Key); err != nil {
		return err
	}
	data := make([]byte, len(obj.Content))
	copy(data, obj.Content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[obj.Key] = data
	return nil
}

// Get returns a copy of the stored content.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("upload %s: %w", key, uploadstore.ErrNotFound)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Delete removes key.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[key]; !ok {
		return fmt.Errorf("upload %s: %w", key, uploadstore.ErrNotFound)
	}
	delete(s.objects, key)
	return nil
}

// Len reports how many uploads are staged.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Close is a no-op for the in-memory store.
func (s *Store) Close(_ context.Context) error {
	return nil
}
