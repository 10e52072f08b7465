// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal records conversion passes in a SQLite database so past
// runs can be listed. The journal is write-only history: the driver never
// consults it when deciding whether to convert a file.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/docsweep/pkg/types"
)

const defaultLimit = 20

// Journal manages the run history database.
type Journal struct {
	db *sql.DB
}

// Run is one recorded pass.
type Run struct {
	ID          int64     `json:"id" yaml:"id"`
	Dir         string    `json:"dir" yaml:"dir"`
	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt  time.Time `json:"finished_at" yaml:"finished_at"`
	Converted   int       `json:"converted" yaml:"converted"`
	Skipped     int       `json:"skipped" yaml:"skipped"`
	Failed      int       `json:"failed" yaml:"failed"`
	Unsupported int       `json:"unsupported" yaml:"unsupported"`
	Final       int       `json:"final" yaml:"final"`
}

// Open opens or creates the journal database at path and its schema.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	j := &Journal{db: db}
	if err := j.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return j, nil
}

// Close releases the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			dir TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			converted INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			unsupported INTEGER NOT NULL,
			final INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			source TEXT NOT NULL,
			kind TEXT NOT NULL,
			status TEXT NOT NULL,
			targets TEXT,
			error TEXT,
			duration_ms INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_files_run_id ON files(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_files_source ON files(source)`,
	}
	for _, stmt := range statements {
		if _, err := j.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores a pass and its per-file results in one transaction and
// returns the new run ID.
func (j *Journal) Record(ctx context.Context, s types.RunSummary) (int64, error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (dir, started_at, finished_at, converted, skipped, failed, unsupported, final)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Dir, formatTime(s.StartedAt), formatTime(s.FinishedAt),
		s.Converted, s.Skipped, s.Failed, s.Unsupported, s.Final,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO files (run_id, source, kind, status, targets, error, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing file insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range s.Results {
		if _, err := stmt.ExecContext(ctx, runID, r.Source, string(r.Kind), string(r.Status),
			strings.Join(r.Targets, "\n"), r.Error, r.Duration.Milliseconds()); err != nil {
			return 0, fmt.Errorf("inserting file %s: %w", r.Source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Runs returns the most recent runs, newest first. A limit of zero or less
// uses the default of 20.
func (j *Journal) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, dir, started_at, finished_at, converted, skipped, failed, unsupported, final
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                 Run
			started, finished string
		)
		if err := rows.Scan(&r.ID, &r.Dir, &started, &finished,
			&r.Converted, &r.Skipped, &r.Failed, &r.Unsupported, &r.Final); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt = parseTime(started)
		r.FinishedAt = parseTime(finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Files returns the per-file results recorded for a run, ordered by source.
func (j *Journal) Files(ctx context.Context, runID int64) ([]types.FileResult, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT source, kind, status, targets, error, duration_ms
		 FROM files WHERE run_id = ? ORDER BY source`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	var files []types.FileResult
	for rows.Next() {
		var (
			r          types.FileResult
			kind, st   string
			targets    sql.NullString
			errMsg     sql.NullString
			durationMS int64
		)
		if err := rows.Scan(&r.Source, &kind, &st, &targets, &errMsg, &durationMS); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		r.Kind = types.FileKind(kind)
		r.Status = types.FileStatus(st)
		if targets.String != "" {
			r.Targets = strings.Split(targets.String, "\n")
		}
		r.Error = errMsg.String
		r.Duration = time.Duration(durationMS) * time.Millisecond
		files = append(files, r)
	}
	return files, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
