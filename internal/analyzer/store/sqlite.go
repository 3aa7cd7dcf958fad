package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	mdwerror "github.com/msto63/jackc/foundation/core/error"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path string
}

// DefaultSQLiteConfig returns default configuration
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path: "./data/history.db",
	}
}

// NewSQLiteStore opens or creates the history database
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, dbError(err, "failed to create directory")
	}

	// WAL so that `jackc history` can read while a run writes
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, dbError(err, "failed to open database")
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "failed to initialize schema")
	}
	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		root TEXT NOT NULL,
		style TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME,
		status TEXT NOT NULL,
		files INTEGER NOT NULL DEFAULT 0,
		succeeded INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS results (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		source TEXT NOT NULL,
		output TEXT NOT NULL,
		status TEXT NOT NULL,
		error_code TEXT,
		error TEXT,
		tokens INTEGER NOT NULL,
		lines INTEGER NOT NULL,
		duration_ns INTEGER NOT NULL,
		sha256 TEXT,
		recorded_at DATETIME NOT NULL,
		PRIMARY KEY (run_id, source)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	CREATE INDEX IF NOT EXISTS idx_results_source ON results(source);
	`

	_, err := s.db.Exec(schema)
	return err
}

// BeginRun records a new running run
func (s *SQLiteStore) BeginRun(ctx context.Context, root, style string) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := &Run{
		ID:        uuid.New().String(),
		Root:      root,
		Style:     style,
		StartedAt: time.Now().UTC(),
		Status:    RunRunning,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, root, style, started_at, status)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.Root, run.Style, run.StartedAt, run.Status)
	if err != nil {
		return nil, dbError(err, "failed to insert run")
	}
	return run, nil
}

// RecordResult stores one file result. Recording the same source twice in
// a run replaces the earlier result.
func (s *SQLiteStore) RecordResult(ctx context.Context, result *FileResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result.RecordedAt.IsZero() {
		result.RecordedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO results
			(run_id, source, output, status, error_code, error, tokens, lines, duration_ns, sha256, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, result.RunID, result.Source, result.Output, result.Status, nullString(result.ErrorCode),
		nullString(result.Error), result.Tokens, result.Lines, int64(result.Duration),
		nullString(result.SHA256), result.RecordedAt)
	if err != nil {
		return dbError(err, "failed to insert result").WithDetail("source", result.Source)
	}
	return nil
}

// FinishRun stores the final status and counters of run
func (s *SQLiteStore) FinishRun(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, status = ?, files = ?, succeeded = ?, failed = ?
		WHERE id = ?
	`, run.FinishedAt, run.Status, run.Files, run.Succeeded, run.Failed, run.ID)
	if err != nil {
		return dbError(err, "failed to update run")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(run.ID)
	}
	return nil
}

// GetRun returns one run by id
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, root, style, started_at, finished_at, status, files, succeeded, failed
		FROM runs WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, dbError(err, "failed to scan run")
	}
	return run, nil
}

// ListRuns returns runs, newest first
func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, root, style, started_at, finished_at, status, files, succeeded, failed FROM runs WHERE 1=1`
	var args []interface{}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Root != "" {
		query += " AND root = ?"
		args = append(args, filter.Root)
	}
	if !filter.Since.IsZero() {
		query += " AND started_at >= ?"
		args = append(args, filter.Since.UTC())
	}

	query += " ORDER BY started_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err, "failed to query runs")
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, dbError(err, "failed to scan run")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to iterate runs")
	}
	return runs, nil
}

// Results returns the file results of a run in source order
func (s *SQLiteStore) Results(ctx context.Context, runID string) ([]*FileResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, source, output, status, error_code, error, tokens, lines, duration_ns, sha256, recorded_at
		FROM results WHERE run_id = ? ORDER BY source
	`, runID)
	if err != nil {
		return nil, dbError(err, "failed to query results")
	}
	defer rows.Close()

	var results []*FileResult
	for rows.Next() {
		var r FileResult
		var code, msg, sum sql.NullString
		var durationNs int64
		if err := rows.Scan(&r.RunID, &r.Source, &r.Output, &r.Status, &code, &msg,
			&r.Tokens, &r.Lines, &durationNs, &sum, &r.RecordedAt); err != nil {
			return nil, dbError(err, "failed to scan result")
		}
		r.ErrorCode, r.Error, r.SHA256 = code.String, msg.String, sum.String
		r.Duration = time.Duration(durationNs)
		results = append(results, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to iterate results")
	}
	return results, nil
}

// Prune removes finished runs older than the specified duration
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, dbError(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	selectOld := `SELECT id FROM runs WHERE status != 'running' AND started_at < ?`
	if _, err := tx.ExecContext(ctx, `DELETE FROM results WHERE run_id IN (`+selectOld+`)`, cutoff); err != nil {
		return 0, dbError(err, "failed to prune results")
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE status != 'running' AND started_at < ?`, cutoff)
	if err != nil {
		return 0, dbError(err, "failed to prune runs")
	}
	deleted, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, dbError(err, "failed to commit transaction")
	}
	return deleted, nil
}

// Ping checks that the database is reachable
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return dbError(err, "database unreachable")
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var finished sql.NullTime
	if err := row.Scan(&run.ID, &run.Root, &run.Style, &run.StartedAt, &finished,
		&run.Status, &run.Files, &run.Succeeded, &run.Failed); err != nil {
		return nil, err
	}
	if finished.Valid {
		run.FinishedAt = finished.Time
	}
	return &run, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func dbError(err error, msg string) *mdwerror.Error {
	return mdwerror.Wrap(err, msg).WithCode(mdwerror.CodeDatabaseError).WithOperation("history")
}

func notFound(id string) *mdwerror.Error {
	return mdwerror.Newf("run %s not found", id).WithCode(mdwerror.CodeNotFound).WithDetail("run_id", id)
}
