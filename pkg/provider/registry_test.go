// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package provider

import (
	"context"
	"testing"
)

type fakeBackend struct{ bucket string }

func TestRegistry_RegisterAndNew(t *testing.T) {
	r := NewRegistry[*fakeBackend]("upload_store")
	r.Register("s3", func(_ context.Context, params Params) (*fakeBackend, error) {
		return &fakeBackend{bucket: params.Get("bucket", "default")}, nil
	})

	b, err := r.New(context.Background(), "s3", Params{"bucket": "uploads"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.bucket != "uploads" {
		t.Errorf("bucket = %q, want %q", b.bucket, "uploads")
	}

	// nil params are replaced by an empty map before the factory runs.
	b, err = r.New(context.Background(), "s3", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.bucket != "default" {
		t.Errorf("bucket = %q, want default", b.bucket)
	}
}

func TestRegistry_UnknownProvider(t *testing.T) {
	r := NewRegistry[*fakeBackend]("generation")
	r.Register("gemini", func(_ context.Context, _ Params) (*fakeBackend, error) {
		return &fakeBackend{}, nil
	})

	_, err := r.New(context.Background(), "claude", nil)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	want := `unknown generation provider: "claude" (available: [gemini])`
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestRegistry_AvailableAndHas(t *testing.T) {
	r := NewRegistry[*fakeBackend]("journal")
	for _, name := range []string{"sqlite", "memory"} {
		r.Register(name, func(_ context.Context, _ Params) (*fakeBackend, error) {
			return &fakeBackend{}, nil
		})
	}

	avail := r.Available()
	if len(avail) != 2 || avail[0] != "memory" || avail[1] != "sqlite" {
		t.Errorf("Available() = %v, want [memory sqlite]", avail)
	}
	if !r.Has("sqlite") || r.Has("postgres") {
		t.Errorf("Has() mismatch: sqlite=%v postgres=%v", r.Has("sqlite"), r.Has("postgres"))
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry[*fakeBackend]("test")
	r.Register("dup", func(_ context.Context, _ Params) (*fakeBackend, error) {
		return &fakeBackend{}, nil
	})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	r.Register("dup", func(_ context.Context, _ Params) (*fakeBackend, error) {
		return &fakeBackend{}, nil
	})
}

func TestParams(t *testing.T) {
	p := Params{"limit": "25", "bad": "x"}

	if got := p.Int("limit", 1); got != 25 {
		t.Errorf("Int(limit) = %d, want 25", got)
	}
	if got := p.Int("bad", 7); got != 7 {
		t.Errorf("Int(bad) = %d, want fallback 7", got)
	}
	if got := p.Get("missing", "fallback"); got != "fallback" {
		t.Errorf("Get(missing) = %q", got)
	}
}
