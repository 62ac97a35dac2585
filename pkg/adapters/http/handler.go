// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/prototipo-projetos/docbrief/pkg/core/pipeline"
	"github.com/prototipo-projetos/docbrief/pkg/journal"
	"github.com/prototipo-projetos/docbrief/pkg/observability/logging"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const defaultMaxUploadBytes = 32 << 20

// Processor runs the upload pipeline. Implemented by *pipeline.Pipeline.
type Processor interface {
	Process(ctx context.Context, req *pipeline.Request) (*pipeline.Result, error)
}

// Options configures a Handler.
type Options struct {
	// MaxUploadBytes caps the request body of POST /upload.
	MaxUploadBytes int64
}

// Handler implements the HTTP adapter
type Handler struct {
	processor      Processor
	journal        journal.Store
	logger         *logging.Logger
	mux            *http.ServeMux
	maxUploadBytes int64
}

// New creates a new HTTP handler. A nil journal serves an empty request list.
func New(processor Processor, store journal.Store, logger *logging.Logger, opts Options) *Handler {
	if store == nil {
		store = journal.Nop{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}

	h := &Handler{
		processor:      processor,
		journal:        store,
		logger:         logger,
		mux:            http.NewServeMux(),
		maxUploadBytes: opts.MaxUploadBytes,
	}

	// Register routes
	h.mux.HandleFunc("GET /{$}", h.handleIndex)
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /openapi.json", h.handleOpenAPI)
	h.mux.HandleFunc("POST /upload", h.handleUpload)
	h.mux.HandleFunc("GET /v1/requests", h.handleListRequests)

	return h
}

var validRequestID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id := r.Header.Get(RequestIDHeader)
	if !validRequestID.MatchString(id) {
		id = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, id)
	r = r.WithContext(withRequestID(r.Context(), id))

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	defer func() {
		if p := recover(); p != nil {
			if p == http.ErrAbortHandler {
				panic(p)
			}
			h.logger.Error("http.panic",
				"request_id", id,
				"panic", p,
				"stack", string(debug.Stack()))
			if !rec.wrote {
				h.writeError(rec, http.StatusInternalServerError, errUnexpected)
			}
		}
		h.logger.Info("http.request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"status", rec.status,
			"elapsed_ms", time.Since(start).Milliseconds())
	}()

	h.mux.ServeHTTP(rec, r)
}

// handleHealth handles health check requests
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// writeJSON writes v with the given status
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("http.write_failed", "error", err)
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"erro": message})
}

type ctxKey struct{}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the id assigned by ServeHTTP, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// statusRecorder remembers the status written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wrote {
		r.status = status
		r.wrote = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wrote = true
	return r.ResponseWriter.Write(b)
}
