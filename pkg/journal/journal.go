// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

// Package journal records one metadata entry per processed request: file
// names and sizes, outcome, timings and counts. Document text and generated
// content are never recorded.
package journal

import (
	"context"
	"time"

	"github.com/prototipo-projetos/docbrief/pkg/provider"
)

// Providers is the registry of journal backends. "none" is always present.
var Providers = provider.NewRegistry[Store]("journal")

func init() {
	Providers.Register("none", func(_ context.Context, _ provider.Params) (Store, error) {
		return Nop{}, nil
	})
}

// Request outcomes.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Processing modes.
const (
	ModeSingle = "single"
	ModeMulti  = "multi"
)

// List limits.
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// FileMeta describes one uploaded file.
type FileMeta struct {
	Name    string `json:"name"`
	Bytes   int64  `json:"bytes"`
	Format  string `json:"format,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Entry is the journal record of one request.
type Entry struct {
	ID             string        `json:"id"`
	Mode           string        `json:"mode"`
	Files          []FileMeta    `json:"files"`
	Status         string        `json:"status"`
	ErrorKind      string        `json:"error_kind,omitempty"`
	ErrorMessage   string        `json:"error_message,omitempty"`
	Model          string        `json:"model,omitempty"`
	PromptChars    int           `json:"prompt_chars"`
	HTMLChars      int           `json:"html_chars"`
	DashboardItems int           `json:"dashboard_items"`
	DashboardValid bool          `json:"dashboard_valid"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration_ns"`
}

// Store persists entries.
type Store interface {
	Record(ctx context.Context, e *Entry) error
	// List returns up to limit entries, newest first.
	List(ctx context.Context, limit int) ([]*Entry, error)
	Close() error
}

// ClampLimit maps a requested page size into [1, MaxLimit], using
// DefaultLimit for non-positive values.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// Nop discards every entry.
type Nop struct{}

func (Nop) Record(context.Context, *Entry) error        { return nil }
func (Nop) List(context.Context, int) ([]*Entry, error) { return []*Entry{}, nil }
func (Nop) Close() error                                { return nil }
