// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

// Package firestore keeps the request journal in a Cloud Firestore
// collection, one document per request id.
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/prototipo-projetos/docbrief/pkg/journal"
	"github.com/prototipo-projetos/docbrief/pkg/provider"
)

// DefaultCollection is used when none is configured.
const DefaultCollection = "docbrief_requests"

func init() {
	journal.Providers.Register("firestore", func(ctx context.Context, p provider.Params) (journal.Store, error) {
		return New(ctx, p.Get("project", ""), p.Get("collection", DefaultCollection))
	})
}

// compile-time check
var _ journal.Store = (*Store)(nil)

// document is the stored shape. Durations are kept in milliseconds so the
// console shows readable numbers.
type document struct {
	Mode           string             `firestore:"mode"`
	Files          []journal.FileMeta `firestore:"files"`
	Status         string             `firestore:"status"`
	ErrorKind      string             `firestore:"errorKind,omitempty"`
	ErrorMessage   string             `firestore:"errorMessage,omitempty"`
	Model          string             `firestore:"model,omitempty"`
	PromptChars    int                `firestore:"promptChars"`
	HTMLChars      int                `firestore:"htmlChars"`
	DashboardItems int                `firestore:"dashboardItems"`
	DashboardValid bool               `firestore:"dashboardValid"`
	StartedAt      time.Time          `firestore:"startedAt"`
	DurationMS     int64              `firestore:"durationMs"`
}

// Store implements journal.Store on Firestore.
type Store struct {
	client     *firestore.Client
	collection string
}

// New connects to project's default database. The emulator is honoured
// through FIRESTORE_EMULATOR_HOST.
func New(ctx context.Context, project, collection string) (*Store, error) {
	if project == "" {
		return nil, fmt.Errorf("firestore journal: project is required")
	}
	client, err := firestore.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("firestore.NewClient: %w", err)
	}
	return &Store{client: client, collection: collection}, nil
}

func toDocument(e *journal.Entry) document {
	return document{
		Mode:           e.Mode,
		Files:          e.Files,
		Status:         e.Status,
		ErrorKind:      e.ErrorKind,
		ErrorMessage:   e.ErrorMessage,
		Model:          e.Model,
		PromptChars:    e.PromptChars,
		HTMLChars:      e.HTMLChars,
		DashboardItems: e.DashboardItems,
		DashboardValid: e.DashboardValid,
		StartedAt:      e.StartedAt,
		DurationMS:     e.Duration.Milliseconds(),
	}
}

func fromDocument(id string, d document) *journal.Entry {
	return &journal.Entry{
		ID:             id,
		Mode:           d.Mode,
		Files:          d.Files,
		Status:         d.Status,
		ErrorKind:      d.ErrorKind,
		ErrorMessage:   d.ErrorMessage,
		Model:          d.Model,
		PromptChars:    d.PromptChars,
		HTMLChars:      d.HTMLChars,
		DashboardItems: d.DashboardItems,
		DashboardValid: d.DashboardValid,
		StartedAt:      d.StartedAt,
		Duration:       time.Duration(d.DurationMS) * time.Millisecond,
	}
}

// Record writes e under its request id.
func (s *Store) Record(ctx context.Context, e *journal.Entry) error {
	if _, err := s.client.Collection(s.collection).Doc(e.ID).Set(ctx, toDocument(e)); err != nil {
		return fmt.Errorf("write journal entry %s: %w", e.ID, err)
	}
	return nil
}

// List returns up to limit entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]*journal.Entry, error) {
	docs, err := s.client.Collection(s.collection).
		OrderBy("startedAt", firestore.Desc).
		Limit(journal.ClampLimit(limit)).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}

	out := make([]*journal.Entry, 0, len(docs))
	for _, snap := range docs {
		var d document
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode journal entry %s: %w", snap.Ref.ID, err)
		}
		out = append(out, fromDocument(snap.Ref.ID, d))
	}
	return out, nil
}

// Close releases the Firestore client.
func (s *Store) Close() error {
	return s.client.Close()
}
