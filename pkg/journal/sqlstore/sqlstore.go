// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlstore is a database/sql journal backend for SQLite
// (modernc.org/sqlite, no cgo) and PostgreSQL (pgx stdlib driver).
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/prototipo-projetos/docbrief/pkg/journal"
	"github.com/prototipo-projetos/docbrief/pkg/provider"
)

func init() {
	journal.Providers.Register("sqlite", func(ctx context.Context, p provider.Params) (journal.Store, error) {
		return New(ctx, SQLite, p.Get("path", "docbrief.db"))
	})
	journal.Providers.Register("postgres", func(ctx context.Context, p provider.Params) (journal.Store, error) {
		return New(ctx, Postgres, p.Get("dsn", ""))
	})
}

// Dialect selects the driver and placeholder style.
type Dialect struct {
	Name   string
	Driver string
	// numbered placeholders ($1, $2) instead of ?
	numbered bool
}

// Supported dialects.
var (
	SQLite   = Dialect{Name: "sqlite", Driver: "sqlite"}
	Postgres = Dialect{Name: "postgres", Driver: "pgx", numbered: true}
)

func (d Dialect) placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		if d.numbered {
			ph[i] = "$" + strconv.Itoa(i+1)
		} else {
			ph[i] = "?"
		}
	}
	return strings.Join(ph, ", ")
}

// compile-time check
var _ journal.Store = (*Store)(nil)

// Store is a SQL-backed journal.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New opens dsn with the dialect's driver and creates the schema. For
// SQLite, dsn is a file path or ":memory:".
func New(ctx context.Context, d Dialect, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%s journal: dsn is required", d.Name)
	}

	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s open: %w", d.Name, err)
	}
	if d == SQLite {
		// :memory: databases are per connection.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s ping: %w", d.Name, err)
	}

	s := &Store{db: db, dialect: d}
	if err := s.createTables(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// DB exposes the handle for maintenance tasks and tests.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS request_journal (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL DEFAULT '',
			files TEXT NOT NULL DEFAULT '[]',
			status TEXT NOT NULL DEFAULT '',
			error_kind TEXT NOT NULL DEFAULT '',
			error_message TEXT NOT NULL DEFAULT '',
			model TEXT NOT NULL DEFAULT '',
			prompt_chars INTEGER NOT NULL DEFAULT 0,
			html_chars INTEGER NOT NULL DEFAULT 0,
			dashboard_items INTEGER NOT NULL DEFAULT 0,
			dashboard_valid INTEGER NOT NULL DEFAULT 0,
			started_at BIGINT NOT NULL,
			duration_ns BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_request_journal_started ON request_journal(started_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s create tables: %w", s.dialect.Name, err)
		}
	}
	return nil
}

const columns = `id, mode, files, status, error_kind, error_message, model,
	prompt_chars, html_chars, dashboard_items, dashboard_valid, started_at, duration_ns`

// Record inserts e. Recording the same id twice is an error.
func (s *Store) Record(ctx context.Context, e *journal.Entry) error {
	files, err := json.Marshal(e.Files)
	if err != nil {
		return fmt.Errorf("marshal files: %w", err)
	}
	if e.Files == nil {
		files = []byte("[]")
	}

	valid := 0
	if e.DashboardValid {
		valid = 1
	}

	query := `INSERT INTO request_journal (` + columns + `) VALUES (` + s.dialect.placeholders(13) + `)`
	_, err = s.db.ExecContext(ctx, query,
		e.ID, e.Mode, string(files), e.Status, e.ErrorKind, e.ErrorMessage, e.Model,
		e.PromptChars, e.HTMLChars, e.DashboardItems, valid,
		e.StartedAt.UnixNano(), int64(e.Duration),
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]*journal.Entry, error) {
	query := `SELECT ` + columns + ` FROM request_journal ORDER BY started_at DESC LIMIT ` + s.dialect.placeholders(1)
	rows, err := s.db.QueryContext(ctx, query, journal.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	out := []*journal.Entry{}
	for rows.Next() {
		var (
			e                  journal.Entry
			files              string
			valid              int64
			startedAt, elapsed int64
		)
		if err := rows.Scan(&e.ID, &e.Mode, &files, &e.Status, &e.ErrorKind, &e.ErrorMessage, &e.Model,
			&e.PromptChars, &e.HTMLChars, &e.DashboardItems, &valid, &startedAt, &elapsed); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		if err := json.Unmarshal([]byte(files), &e.Files); err != nil {
			return nil, fmt.Errorf("unmarshal files: %w", err)
		}
		e.DashboardValid = valid != 0
		e.StartedAt = time.Unix(0, startedAt).UTC()
		e.Duration = time.Duration(elapsed)
		out = append(out, &e)
	}
	return out, rows.Err()
}
