// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

// Package uploadstore stages uploaded documents for the lifetime of one
// request. Nothing written here is meant to outlive the request that wrote it.
package uploadstore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/prototipo-projetos/docbrief/pkg/provider"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("upload not found")

// Providers is the registry of upload store backends.
// Import implementation packages with blank imports to register them:
//
//	import _ "github.com/prototipo-projetos/docbrief/pkg/uploadstore/filesystem"
//	import _ "github.com/prototipo-projetos/docbrief/pkg/uploadstore/s3"
var Providers = provider.NewRegistry[Store]("upload_store")

// Object is one staged upload.
type Object struct {
	Key       string
	Filename  string // original client-side name
	Content   []byte
	CreatedAt time.Time
}

// Store is a transient key/value blob store.
type Store interface {
	Put(ctx context.Context, obj *Object) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Close(ctx context.Context) error
}

// Key builds the storage key for the index-th file of a request. Distinct
// requests never share a key even when clients upload identical names.
func Key(requestID string, index int, filename string) string {
	return fmt.Sprintf("%s/%d-%s", requestID, index, SanitizeName(filename))
}

// SanitizeName reduces a client-supplied filename to its base name with a
// conservative character set. The extension is preserved.
func SanitizeName(filename string) string {
	filename = strings.ReplaceAll(filename, `\`, "/")
	base := path.Base(filename)

	var sb strings.Builder
	for _, r := range base {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			sb.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}

	name := strings.TrimLeft(sb.String(), ".")
	if name == "" {
		return "upload"
	}
	return name
}

// ValidateKey rejects keys that could escape a backend's namespace.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return fmt.Errorf("invalid upload key %q", key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("invalid upload key %q", key)
		}
	}
	return nil
}
