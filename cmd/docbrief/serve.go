// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/cobra"

	httpAdapter "github.com/prototipo-projetos/docbrief/pkg/adapters/http"
	"github.com/prototipo-projetos/docbrief/pkg/core/config"
	"github.com/prototipo-projetos/docbrief/pkg/core/pipeline"
	"github.com/prototipo-projetos/docbrief/pkg/generation"
	"github.com/prototipo-projetos/docbrief/pkg/journal"
	"github.com/prototipo-projetos/docbrief/pkg/observability/logging"
	"github.com/prototipo-projetos/docbrief/pkg/response"
	"github.com/prototipo-projetos/docbrief/pkg/uploadstore"
)

const shutdownTimeout = 10 * time.Second

var (
	port     int
	logLevel string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	registerServeFlags(serveCmd)
}

func registerServeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port to listen on (overrides config and PORT)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, fromFile, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = port
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logger.Info("docbrief.starting",
		"version", Version,
		"build_time", BuildTime,
		"config_file", fromFile)
	if !fromFile {
		logger.Warn("config.defaults", "path", configPath)
	}

	initCtx := context.Background()

	uploads, err := uploadstore.Providers.New(initCtx, cfg.Uploads.Type, cfg.Uploads.Params())
	if err != nil {
		return fmt.Errorf("upload store: %w", err)
	}
	defer uploads.Close(context.Background())
	logger.Info("uploads.ready", "type", cfg.Uploads.Type)

	entries, err := journal.Providers.New(initCtx, cfg.Journal.Type, cfg.Journal.Params())
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	defer entries.Close()
	logger.Info("journal.ready", "type", cfg.Journal.Type)

	gen, err := newGenerator(initCtx, cfg.Generation, logger)
	if err != nil {
		return err
	}
	if c, ok := gen.(io.Closer); ok {
		defer c.Close()
	}

	schema, err := loadDashboardSchema(cfg.Response.DashboardSchema)
	if err != nil {
		return err
	}

	p, err := pipeline.New(pipeline.Options{
		Uploads:           uploads,
		Generator:         gen,
		Journal:           entries,
		Logger:            logger,
		GenerationTimeout: cfg.Generation.Timeout,
		Concurrency:       cfg.Extraction.Concurrency,
		SanitizeHTML:      cfg.Response.SanitizeHTML,
		DashboardSchema:   schema,
	})
	if err != nil {
		return err
	}

	handler := httpAdapter.New(p, entries, logger, httpAdapter.Options{
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http.listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	logger.Info("docbrief.shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("docbrief.stopped")
	return nil
}

// newGenerator builds the configured backend. A missing credential is only a
// warning here; every request then fails with the credential message.
func newGenerator(ctx context.Context, cfg config.GenerationConfig, logger *logging.Logger) (generation.Generator, error) {
	if cfg.MissingCredential() {
		logger.Warn("generation.missing_credential",
			"provider", cfg.Provider,
			"hint", "defina GEMINI_API_KEY (ou OPENAI_API_KEY para o provider openai)")
		return generation.Unavailable(cfg.Model, generation.ErrMissingCredential), nil
	}

	gen, err := generation.Providers.New(ctx, cfg.Provider, cfg.Params())
	if errors.Is(err, generation.ErrMissingCredential) {
		logger.Warn("generation.missing_credential", "provider", cfg.Provider, "error", err)
		return generation.Unavailable(cfg.Model, err), nil
	}
	if err != nil {
		return nil, fmt.Errorf("generation: %w", err)
	}
	logger.Info("generation.ready", "provider", cfg.Provider, "model", gen.Model())
	return gen, nil
}

func loadDashboardSchema(path string) (*jsonschema.Schema, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dashboard schema: %w", err)
	}
	return response.LoadSchema(filepath.Base(path), raw)
}

func backendSummary() []string {
	return []string{
		fmt.Sprintf("Generation: %v", generation.Providers.Available()),
		fmt.Sprintf("Uploads:    %v", uploadstore.Providers.Available()),
		fmt.Sprintf("Journal:    %v", journal.Providers.Available()),
	}
}
