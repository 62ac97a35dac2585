// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

// Package uploadstoretest provides a shared conformance test suite for
// uploadstore.Store implementations. Each backend should call
// RunConformanceTests from its own _test.go file.
package uploadstoretest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prototipo-projetos/docbrief/pkg/uploadstore"
)

// RunConformanceTests exercises a Store implementation against the shared
// contract. newStore is called once per sub-test.
func RunConformanceTests(t *testing.T, newStore func(t *testing.T) uploadstore.Store) {
	t.Helper()

	t.Run("PutAndGet", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		obj := &uploadstore.Object{
			Key:       uploadstore.Key("req-put", 0, "relatorio.docx"),
			Filename:  "relatorio.docx",
			Content:   []byte("PK\x03\x04 binary"),
			CreatedAt: time.Now(),
		}
		if err := store.Put(ctx, obj); err != nil {
			t.Fatalf("Put: %v", err)
		}

		got, err := store.Get(ctx, obj.Key)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(got) != string(obj.Content) {
			t.Errorf("content mismatch: got %q, want %q", got, obj.Content)
		}
	})

	t.Run("GetNotFound", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())

		_, err := store.Get(context.Background(), "req-none/0-missing.pdf")
		if !errors.Is(err, uploadstore.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		key := uploadstore.Key("req-del", 0, "plano.xlsx")
		if err := store.Put(ctx, &uploadstore.Object{Key: key, Content: []byte("x")}); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if err := store.Delete(ctx, key); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := store.Get(ctx, key); !errors.Is(err, uploadstore.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got: %v", err)
		}
	})

	t.Run("DeleteNotFound", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())

		err := store.Delete(context.Background(), "req-none/0-missing.pdf")
		if !errors.Is(err, uploadstore.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}
	})

	t.Run("SameNameDifferentRequests", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		a := &uploadstore.Object{Key: uploadstore.Key("req-a", 0, "report.pdf"), Content: []byte("A")}
		b := &uploadstore.Object{Key: uploadstore.Key("req-b", 0, "report.pdf"), Content: []byte("B")}
		for _, obj := range []*uploadstore.Object{a, b} {
			if err := store.Put(ctx, obj); err != nil {
				t.Fatalf("Put %s: %v", obj.Key, err)
			}
		}

		if err := store.Delete(ctx, a.Key); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		got, err := store.Get(ctx, b.Key)
		if err != nil {
			t.Fatalf("Get b after deleting a: %v", err)
		}
		if string(got) != "B" {
			t.Errorf("content = %q, want B", got)
		}
	})

	t.Run("RejectsInvalidKey", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())

		err := store.Put(context.Background(), &uploadstore.Object{Key: "../escape", Content: []byte("x")})
		if err == nil {
			t.Error("expected error for key with parent segment")
		}
	})

	t.Run("ConcurrentPut", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		const n = 8
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				key := uploadstore.Key(fmt.Sprintf("req-c%d", i), i, "f.pdf")
				errs <- store.Put(ctx, &uploadstore.Object{Key: key, Content: []byte{byte(i)}})
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Fatalf("concurrent Put: %v", err)
			}
		}

		for i := 0; i < n; i++ {
			got, err := store.Get(ctx, uploadstore.Key(fmt.Sprintf("req-c%d", i), i, "f.pdf"))
			if err != nil || len(got) != 1 || got[0] != byte(i) {
				t.Errorf("Get %d = %v, %v", i, got, err)
			}
		}
	})
}
