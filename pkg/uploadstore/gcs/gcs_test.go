// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package gcs_test

import (
	"context"
	"os"
	"testing"

	"github.com/prototipo-projetos/docbrief/pkg/uploadstore"
	"github.com/prototipo-projetos/docbrief/pkg/uploadstore/gcs"
	"github.com/prototipo-projetos/docbrief/pkg/uploadstore/uploadstoretest"
)

func TestGCSConformance(t *testing.T) {
	bucket := os.Getenv("UPLOAD_STORE_GCS_BUCKET")
	endpoint := os.Getenv("UPLOAD_STORE_GCS_ENDPOINT")
	if bucket == "" || endpoint == "" {
		t.Skip("Skipping GCS conformance tests: UPLOAD_STORE_GCS_BUCKET and UPLOAD_STORE_GCS_ENDPOINT must be set (e.g. with fake-gcs-server)")
	}

	uploadstoretest.RunConformanceTests(t, func(t *testing.T) uploadstore.Store {
		store, err := gcs.New(context.Background(), gcs.Options{
			Bucket:   bucket,
			Prefix:   "test-" + t.Name() + "/",
			Endpoint: endpoint,
		})
		if err != nil {
			t.Fatalf("gcs.New: %v", err)
		}
		return store
	})
}

func TestNew_RequiresBucket(t *testing.T) {
	if _, err := gcs.New(context.Background(), gcs.Options{}); err == nil {
		t.Fatal("expected error without bucket")
	}
}
