// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prototipo-projetos/docbrief/pkg/provider"
	"github.com/prototipo-projetos/docbrief/pkg/uploadstore"
)

func init() {
	uploadstore.Providers.Register("filesystem", func(_ context.Context, params provider.Params) (uploadstore.Store, error) {
		return New(params.Get("base_dir", "uploads"))
	})
}

// compile-time check
var _ uploadstore.Store = (*Store)(nil)

// Store implements uploadstore.Store on a local directory.
//
// Layout:
//
//	<baseDir>/<request_id>/<index>-<name>
type Store struct {
	baseDir string
}

// New creates a filesystem-backed Store, creating baseDir if it does not exist.
func New(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create base dir %s: %w", baseDir, err)
	}
	return &Store{baseDir: baseDir}, nil
}

// BaseDir returns the root directory.
func (s *Store) BaseDir() string { return s.baseDir }

func (s *Store) path(key string) (string, error) {
	if err := uploadstore.ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(key)), nil
}

// Put writes the content atomically (temp file + rename).
func (s *Store) Put(_ context.Context, obj *uploadstore.Object) error {
	p, err := s.path(obj.Key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create request dir: %w", err)
	}

	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, obj.Content, 0o600); err != nil {
		return fmt.Errorf("write content: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename content: %w", err)
	}
	return nil
}

// Get returns the staged bytes.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("upload %s: %w", key, uploadstore.ErrNotFound)
		}
		return nil, fmt.Errorf("read content: %w", err)
	}
	return data, nil
}

// Delete removes the file and, once empty, its request directory.
func (s *Store) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("upload %s: %w", key, uploadstore.ErrNotFound)
		}
		return fmt.Errorf("remove content: %w", err)
	}

	// Fails while sibling uploads of the same request remain; that is fine.
	if dir := filepath.Dir(p); dir != filepath.Clean(s.baseDir) {
		_ = os.Remove(dir)
	}
	return nil
}

// Close is a no-op; the base directory is left in place.
func (s *Store) Close(_ context.Context) error {
	return nil
}
