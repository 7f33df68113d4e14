// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotFound = errors.New("history entry not found")
	ErrClosed   = errors.New("history store closed")
)

// =============================================================================
// ENTRY
// =============================================================================

// Status is the outcome of a run.
type Status string

const (
	StatusCreated Status = "created"
	StatusExists  Status = "exists"
)

// Entry is one ledger row.
type Entry struct {
	ID        int64
	RunID     string
	Source    string
	Name      string
	Kind      string
	Period    string
	Path      string
	Status    Status
	Messages  int
	Pages     int
	CreatedAt time.Time
}

// =============================================================================
// STORE
// =============================================================================

// Store is a SQLite-backed ledger. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// Open opens or creates the ledger at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Record inserts e. Missing RunID and CreatedAt are filled in, and e.ID is
// set to the new row id.
func (s *Store) Record(ctx context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return ErrClosed
	}
	if e.RunID == "" {
		e.RunID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	if e.Status == "" {
		e.Status = StatusCreated
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO exports (run_id, source, name, kind, period, path, status, messages, pages, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Source, e.Name, e.Kind, e.Period, e.Path, string(e.Status),
		e.Messages, e.Pages, e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("record export: %w", err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("record export: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, source, name, kind, period, path, status, messages, pages, created_at
		FROM exports
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list exports: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PublishedEntry returns the newest run that created path. Runs that found
// the document already in place are ignored.
func (s *Store) PublishedEntry(ctx context.Context, path string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return Entry{}, ErrClosed
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, run_id, source, name, kind, period, path, status, messages, pages, created_at
		FROM exports
		WHERE path = ? AND status = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, path, string(StatusCreated))

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("lookup export: %w", err)
	}
	return e, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var e Entry
	var status string
	var created int64
	err := sc.Scan(&e.ID, &e.RunID, &e.Source, &e.Name, &e.Kind, &e.Period, &e.Path,
		&status, &e.Messages, &e.Pages, &created)
	if err != nil {
		return Entry{}, err
	}
	e.Status = Status(status)
	e.CreatedAt = time.Unix(0, created)
	return e, nil
}
