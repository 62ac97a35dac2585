// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

// Package provider is a generic factory registry for pluggable backends.
//
// The generation, uploadstore and journal packages each own a typed Registry;
// backend packages register themselves from init() and are activated with a
// blank import, the same way database/sql drivers are.
package provider

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// Params carries backend settings as flat string pairs. Factories read the
// keys they understand and ignore the rest.
type Params map[string]string

// Get returns the value for key, or def when the key is absent or empty.
func (p Params) Get(key, def string) string {
	if v := p[key]; v != "" {
		return v
	}
	return def
}

// Int parses key as an integer, falling back to def.
func (p Params) Int(key string, def int) int {
	v, err := strconv.Atoi(p[key])
	if err != nil {
		return def
	}
	return v
}

// Factory builds a backend instance from its params.
type Factory[T any] func(ctx context.Context, params Params) (T, error)

// Registry is a concurrency-safe set of named factories for one backend
// interface T.
type Registry[T any] struct {
	subsystem string
	mu        sync.RWMutex
	factories map[string]Factory[T]
}

// NewRegistry creates an empty Registry. subsystem names the registry in
// error messages ("generation", "upload_store", ...).
func NewRegistry[T any](subsystem string) *Registry[T] {
	return &Registry[T]{
		subsystem: subsystem,
		factories: make(map[string]Factory[T]),
	}
}

// Register adds a named factory. Registering the same name twice panics so
// that conflicting init() functions fail at start-up.
func (r *Registry[T]) Register(name string, f Factory[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("provider: %s backend %q already registered", r.subsystem, name))
	}
	r.factories[name] = f
}

// Has reports whether name is registered.
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// New instantiates the backend registered under name.
func (r *Registry[T]) New(ctx context.Context, name string, params Params) (T, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown %s provider: %q (available: %v)", r.subsystem, name, r.Available())
	}
	if params == nil {
		params = Params{}
	}
	return f(ctx, params)
}

// Available returns the registered names in sorted order.
func (r *Registry[T]) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
