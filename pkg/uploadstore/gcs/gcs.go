// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

// Package gcs stages uploads in a Google Cloud Storage bucket.
package gcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/prototipo-projetos/docbrief/pkg/provider"
	"github.com/prototipo-projetos/docbrief/pkg/uploadstore"
)

func init() {
	uploadstore.Providers.Register("gcs", func(ctx context.Context, params provider.Params) (uploadstore.Store, error) {
		return New(ctx, Options{
			Bucket:   params["bucket"],
			Prefix:   params["prefix"],
			Endpoint: params["endpoint"],
		})
	})
}

// compile-time check
var _ uploadstore.Store = (*Store)(nil)

// Options configures the GCS backend.
type Options struct {
	Bucket   string // required
	Prefix   string
	Endpoint string // emulator endpoint; disables authentication
}

// Store implements uploadstore.Store on a GCS bucket.
type Store struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
}

// New creates a GCS-backed Store using application default credentials.
func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("gcs upload store: bucket is required")
	}

	var clientOpts []option.ClientOption
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint), option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &Store{client: client, bucket: client.Bucket(opts.Bucket), prefix: opts.Prefix}, nil
}

// Put writes the object only if it does not already exist. Keys are unique
// per request, so a precondition failure means a key collision.
func (s *Store) Put(ctx context.Context, obj *uploadstore.Object) error {
	if err := uploadstore.ValidateKey(obj.Key); err != nil {
		return err
	}

	w := s.bucket.Object(s.prefix + obj.Key).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = "application/octet-stream"
	if obj.Filename != "" {
		w.Metadata = map[string]string{"filename": uploadstore.SanitizeName(obj.Filename)}
	}

	if _, err := io.Copy(w, bytes.NewReader(obj.Content)); err != nil {
		_ = w.Close()
		return fmt.Errorf("write object %s: %w", obj.Key, err)
	}
	if err := w.Close(); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == 412 {
			return fmt.Errorf("upload %s already exists", obj.Key)
		}
		return fmt.Errorf("finalize object %s: %w", obj.Key, err)
	}
	return nil
}

// Get reads the object.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := s.bucket.Object(s.prefix + key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("upload %s: %w", key, uploadstore.ErrNotFound)
		}
		return nil, fmt.Errorf("open object: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	return data, nil
}

// Delete removes the object.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Object(s.prefix + key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("upload %s: %w", key, uploadstore.ErrNotFound)
		}
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// Close releases the storage client.
func (s *Store) Close(_ context.Context) error {
	return s.client.Close()
}
