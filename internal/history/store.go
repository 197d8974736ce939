package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	session_id      TEXT PRIMARY KEY,
	started_at      DATETIME NOT NULL,
	finished_at     DATETIME NOT NULL,
	input_language  TEXT NOT NULL DEFAULT '',
	output_language TEXT NOT NULL,
	total           INTEGER NOT NULL,
	succeeded       INTEGER NOT NULL,
	failed          INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS run_jobs (
	session_id        TEXT NOT NULL REFERENCES runs(session_id) ON DELETE CASCADE,
	video_path        TEXT NOT NULL,
	status            TEXT NOT NULL,
	detected_language TEXT NOT NULL DEFAULT '',
	error             TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (session_id, video_path)
);
`

// RunRecord is one batch run as persisted in the history database.
type RunRecord struct {
	SessionID      string
	StartedAt      time.Time
	FinishedAt     time.Time
	InputLanguage  string
	OutputLanguage string
	Total          int
	Succeeded      int
	Failed         int
}

// JobRecord is one video's outcome within a run.
type JobRecord struct {
	SessionID        string
	VideoPath        string
	Status           string
	DetectedLanguage string
	Error            string
}

// Job outcome statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Store keeps past run outcomes in a local sqlite database so the
// history command can report on earlier batches.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the history database at path.
func NewStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// RecordRun writes a run and its per-job outcomes in one transaction.
func (s *Store) RecordRun(ctx context.Context, run RunRecord, jobs []JobRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(
		ctx,
		`INSERT INTO runs (
			session_id, started_at, finished_at, input_language, output_language, total, succeeded, failed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.SessionID,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
		run.InputLanguage,
		run.OutputLanguage,
		run.Total,
		run.Succeeded,
		run.Failed,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, job := range jobs {
		if _, err = tx.ExecContext(
			ctx,
			`INSERT INTO run_jobs (session_id, video_path, status, detected_language, error)
			 VALUES (?, ?, ?, ?, ?)`,
			run.SessionID,
			job.VideoPath,
			job.Status,
			job.DetectedLanguage,
			job.Error,
		); err != nil {
			return fmt.Errorf("insert job %s: %w", job.VideoPath, err)
		}
	}

	return tx.Commit()
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT session_id, started_at, finished_at, input_language, output_language, total, succeeded, failed
		 FROM runs
		 ORDER BY started_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]RunRecord, 0)
	for rows.Next() {
		var run RunRecord
		if err := rows.Scan(
			&run.SessionID,
			&run.StartedAt,
			&run.FinishedAt,
			&run.InputLanguage,
			&run.OutputLanguage,
			&run.Total,
			&run.Succeeded,
			&run.Failed,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// RunJobs returns every job outcome recorded for one session.
func (s *Store) RunJobs(ctx context.Context, sessionID string) ([]JobRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT session_id, video_path, status, detected_language, error
		 FROM run_jobs
		 WHERE session_id = ?
		 ORDER BY video_path ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]JobRecord, 0)
	for rows.Next() {
		var job JobRecord
		if err := rows.Scan(
			&job.SessionID,
			&job.VideoPath,
			&job.Status,
			&job.DetectedLanguage,
			&job.Error,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}
