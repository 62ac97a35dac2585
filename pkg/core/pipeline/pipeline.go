// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipeline runs one upload request from received files to the
// parsed communiqué and dashboard.
//
// States: Received, Saved, Extracted, Generated, Parsed, Cleaned, Responded.
// Saved uploads are always deleted before Process returns, whatever the
// outcome, and every request leaves one journal entry.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/sync/errgroup"

	"github.com/prototipo-projetos/docbrief/pkg/extractor"
	"github.com/prototipo-projetos/docbrief/pkg/generation"
	"github.com/prototipo-projetos/docbrief/pkg/journal"
	"github.com/prototipo-projetos/docbrief/pkg/observability/logging"
	"github.com/prototipo-projetos/docbrief/pkg/prompt"
	"github.com/prototipo-projetos/docbrief/pkg/response"
	"github.com/prototipo-projetos/docbrief/pkg/uploadstore"
)

const (
	defaultConcurrency = 4
	journalTimeout     = 5 * time.Second
	cleanupTimeout     = 30 * time.Second
)

// Upload is one file received from the caller.
type Upload struct {
	Filename string
	Content  []byte
}

// Request is one call to Process.
type Request struct {
	// CorrelationID is the caller's own request id. It only tags log
	// records; storage keys and journal entries use a generated id.
	CorrelationID string

	Files []Upload
	Focus string
}

// Result is the successful outcome of Process. RequestID is the generated
// id the journal entry is recorded under.
type Result struct {
	RequestID string `json:"-"`
	HTML      string `json:"html"`
	Dashboard string `json:"dashboard"`
}

// Options wires a Pipeline. Uploads and Generator are required.
type Options struct {
	Uploads   uploadstore.Store
	Generator generation.Generator
	Journal   journal.Store // nil discards entries
	Logger    *logging.Logger

	// GenerationTimeout bounds each call to Generator. Zero means no bound.
	GenerationTimeout time.Duration

	// Concurrency caps parallel extraction in multi-file requests.
	Concurrency int

	SanitizeHTML bool

	// DashboardSchema overrides the built-in dashboard schema.
	DashboardSchema *jsonschema.Schema

	Now   func() time.Time
	NewID func() string
}

// Pipeline processes upload requests. It is safe for concurrent use.
type Pipeline struct {
	uploads     uploadstore.Store
	gen         generation.Generator
	journal     journal.Store
	log         *logging.Logger
	concurrency int
	sanitize    bool
	schema      *jsonschema.Schema
	now         func() time.Time
	newID       func() string
}

// New validates opts and returns a Pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Uploads == nil {
		return nil, fmt.Errorf("upload store is required")
	}
	if opts.Generator == nil {
		return nil, fmt.Errorf("generator is required")
	}

	p := &Pipeline{
		uploads:     opts.Uploads,
		gen:         generation.WithTimeout(opts.Generator, opts.GenerationTimeout),
		journal:     opts.Journal,
		log:         opts.Logger,
		concurrency: opts.Concurrency,
		sanitize:    opts.SanitizeHTML,
		schema:      opts.DashboardSchema,
		now:         opts.Now,
		newID:       opts.NewID,
	}
	if p.journal == nil {
		p.journal = journal.Nop{}
	}
	if p.log == nil {
		p.log = logging.Discard()
	}
	if p.concurrency < 1 {
		p.concurrency = defaultConcurrency
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.newID == nil {
		p.newID = uuid.NewString
	}
	return p, nil
}

// Process runs req through every state. Failures are returned as *Error.
func (p *Pipeline) Process(ctx context.Context, req *Request) (*Result, error) {
	id := p.newID()
	started := p.now()
	log := p.log.ForRequest(id)
	if req.CorrelationID != "" && req.CorrelationID != id {
		log = log.With("correlation_id", req.CorrelationID)
	}

	entry := &journal.Entry{
		ID:        id,
		Mode:      journal.ModeSingle,
		Model:     p.gen.Model(),
		StartedAt: started,
	}
	if len(req.Files) > 1 {
		entry.Mode = journal.ModeMulti
	}

	res, err := p.process(ctx, id, req, log, entry)

	entry.Duration = p.now().Sub(started)
	if err != nil {
		var perr *Error
		if !errors.As(err, &perr) {
			perr = &Error{Kind: KindInternal, Message: msgInternal, Err: err}
			err = perr
		}
		entry.Status = journal.StatusError
		entry.ErrorKind = perr.Kind.String()
		entry.ErrorMessage = perr.Message
		log.Warn("pipeline.failed",
			"kind", perr.Kind.String(),
			"error", perr.Message,
			"cause", perr.Err,
			"elapsed_ms", entry.Duration.Milliseconds())
	} else {
		entry.Status = journal.StatusOK
		log.Info("pipeline.responded",
			"html_chars", entry.HTMLChars,
			"dashboard_items", entry.DashboardItems,
			"elapsed_ms", entry.Duration.Milliseconds())
	}
	p.record(ctx, log, entry)
	return res, err
}

// saved is one upload that reached the store.
type saved struct {
	index int
	name  string
	ext   string
	key   string
}

func (p *Pipeline) process(ctx context.Context, id string, req *Request, log *logging.Logger, entry *journal.Entry) (*Result, error) {
	// Received
	if len(req.Files) == 0 {
		return nil, &Error{Kind: KindInput, Message: msgNoFiles}
	}
	single := len(req.Files) == 1

	entry.Files = make([]journal.FileMeta, len(req.Files))
	var accepted []saved
	for i, f := range req.Files {
		name := strings.TrimSpace(f.Filename)
		if name == "" {
			return nil, &Error{Kind: KindInput, Message: msgNoFileSelected}
		}
		ext := extractor.NormalizeExt(filepath.Ext(name))
		entry.Files[i] = journal.FileMeta{
			Name:   name,
			Bytes:  int64(len(f.Content)),
			Format: extractor.FormatOf(ext),
		}
		if !extractor.Supported(ext) {
			unsupported := &extractor.UnsupportedFormatError{Ext: ext}
			if single {
				return nil, &Error{Kind: KindInput, Message: unsupported.Error(), Err: unsupported}
			}
			entry.Files[i].Skipped = true
			entry.Files[i].Error = unsupported.Error()
			log.Info("pipeline.skipped", "file", name, "reason", unsupported.Error())
			continue
		}
		accepted = append(accepted, saved{index: i, name: name, ext: ext})
	}
	log.Info("pipeline.received", "mode", entry.Mode, "files", len(req.Files), "accepted", len(accepted))

	// Saved. Cleanup is registered before the first Put so that a partial
	// save is still removed.
	var keys []string
	defer func() { p.cleanup(ctx, log, keys) }()

	for i := range accepted {
		s := &accepted[i]
		s.key = uploadstore.Key(id, s.index, s.name)
		err := p.uploads.Put(ctx, &uploadstore.Object{
			Key:       s.key,
			Filename:  s.name,
			Content:   req.Files[s.index].Content,
			CreatedAt: p.now(),
		})
		if err != nil {
			return nil, &Error{Kind: KindInternal, Message: msgInternal, Err: fmt.Errorf("save %s: %w", s.name, err)}
		}
		keys = append(keys, s.key)
	}
	log.Debug("pipeline.saved", "keys", len(keys))

	// Extracted
	docs, errs, err := p.extractAll(ctx, accepted)
	if err != nil {
		return nil, &Error{Kind: KindInternal, Message: msgInternal, Err: err}
	}

	var sources []prompt.Source
	for i, s := range accepted {
		meta := &entry.Files[s.index]
		if errs[i] != nil {
			perr := extractionError(errs[i])
			if single {
				return nil, perr
			}
			meta.Skipped = true
			meta.Error = perr.Message
			log.Warn("pipeline.extract_failed", "file", s.name, "error", errs[i])
			continue
		}
		if docs[i].Blank() {
			msg := msgNoContent
			if docs[i].Warning != "" {
				msg = docs[i].Warning
			}
			if single {
				return nil, &Error{Kind: KindExtraction, Message: msg}
			}
			meta.Skipped = true
			meta.Error = msg
			log.Warn("pipeline.extract_blank", "file", s.name, "reason", msg)
			continue
		}
		sources = append(sources, prompt.Source{Name: s.name, Text: docs[i].Text})
	}
	if len(sources) == 0 {
		return nil, &Error{Kind: KindExtraction, Message: msgNoneReadable}
	}
	log.Info("pipeline.extracted", "usable", len(sources))

	// Generated
	var text string
	if single {
		text = prompt.Single(sources[0].Text, req.Focus, p.now())
	} else {
		text = prompt.Multi(sources, req.Focus, p.now())
	}
	entry.PromptChars = len([]rune(text))

	callStart := time.Now()
	log.Debug("generation.call", "model", p.gen.Model(), "prompt_chars", entry.PromptChars)
	raw, err := p.gen.Generate(ctx, text)
	if err != nil {
		return nil, generationError(err)
	}
	log.Info("pipeline.generated",
		"model", p.gen.Model(),
		"answer_chars", len([]rune(raw)),
		"elapsed_ms", time.Since(callStart).Milliseconds())

	// Parsed
	parsed := response.Parse(raw)
	if !parsed.HTMLFound {
		log.Warn("pipeline.html_missing")
	}
	if !parsed.DashboardValid {
		log.Warn("pipeline.dashboard_invalid_json")
	}
	html := parsed.HTML
	if p.sanitize {
		html = response.Sanitize(html)
	}
	if parsed.DashboardValid {
		if err := p.checkDashboard(parsed.Dashboard); err != nil {
			log.Warn("pipeline.dashboard_schema", "error", err)
		}
	}

	entry.HTMLChars = len([]rune(response.VisibleText(html)))
	entry.DashboardItems = response.DashboardItems(parsed.Dashboard)
	entry.DashboardValid = parsed.DashboardValid
	log.Debug("pipeline.parsed", "html_found", parsed.HTMLFound, "dashboard_found", parsed.DashboardFound)

	return &Result{RequestID: id, HTML: html, Dashboard: parsed.Dashboard}, nil
}

// extractAll reads every saved upload back from the store and extracts it.
// Per-file failures land in errs; err is set only when the request itself
// was cancelled.
func (p *Pipeline) extractAll(ctx context.Context, files []saved) ([]*extractor.Document, []error, error) {
	docs := make([]*extractor.Document, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := p.uploads.Get(gctx, f.key)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				errs[i] = &Error{Kind: KindExtraction, Message: msgNoContent, Err: fmt.Errorf("read %s: %w", f.name, err)}
				return nil
			}
			docs[i], errs[i] = extractor.Extract(content, f.ext)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return docs, errs, nil
}

// extractionError keeps the typed extractor message and hides store errors
// behind the generic one.
func extractionError(err error) *Error {
	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}
	return &Error{Kind: KindExtraction, Message: err.Error(), Err: err}
}

func generationError(err error) *Error {
	switch {
	case errors.Is(err, generation.ErrTimeout):
		return &Error{Kind: KindTimeout, Message: msgTimeout, Err: err}
	case errors.Is(err, generation.ErrMissingCredential):
		return &Error{Kind: KindCredential, Message: msgCredential, Err: err}
	default:
		return &Error{Kind: KindGeneration, Message: fmt.Sprintf(msgGeneration, err), Err: err}
	}
}

func (p *Pipeline) checkDashboard(dashboard string) error {
	if p.schema != nil {
		return response.CheckDashboardWith(p.schema, dashboard)
	}
	return response.CheckDashboard(dashboard)
}

// cleanup deletes every saved upload. It runs detached from the request
// context so a disconnected client still leaves nothing behind.
func (p *Pipeline) cleanup(ctx context.Context, log *logging.Logger, keys []string) {
	if len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	removed := 0
	for _, key := range keys {
		err := p.uploads.Delete(ctx, key)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, uploadstore.ErrNotFound):
		default:
			log.Error("pipeline.cleanup_failed", "key", key, "error", err)
		}
	}
	log.Debug("pipeline.cleaned", "removed", removed, "saved", len(keys))
}

func (p *Pipeline) record(ctx context.Context, log *logging.Logger, entry *journal.Entry) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()

	if err := p.journal.Record(ctx, entry); err != nil {
		log.Error("journal.record_failed", "error", err)
	}
}
