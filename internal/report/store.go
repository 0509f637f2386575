package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"subforce/internal/config"
)

// timeLayout keeps trailing fractional zeros, unlike RFC3339Nano, so the
// stored strings sort lexicographically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the report database and applies the
// schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "report.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) applySchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    library_root TEXT NOT NULL,
    dry_run INTEGER NOT NULL DEFAULT 0,
    files_total INTEGER NOT NULL DEFAULT 0,
    files_ok INTEGER NOT NULL DEFAULT 0,
    files_partial INTEGER NOT NULL DEFAULT 0,
    files_skipped INTEGER NOT NULL DEFAULT 0,
    tracks_changed INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS file_outcomes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    path TEXT NOT NULL,
    status TEXT NOT NULL,
    changed_tracks TEXT,
    error TEXT
);
CREATE INDEX IF NOT EXISTS idx_file_outcomes_run ON file_outcomes(run_id);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// SaveRun persists a completed run and its per-file outcomes in one
// transaction.
func (s *Store) SaveRun(ctx context.Context, run Run, outcomes []FileOutcome) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (
            id, started_at, finished_at, library_root, dry_run,
            files_total, files_ok, files_partial, files_skipped, tracks_changed
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(timeLayout),
		run.FinishedAt.UTC().Format(timeLayout),
		run.LibraryRoot,
		boolToInt(run.DryRun),
		run.FilesTotal,
		run.FilesOK,
		run.FilesPartial,
		run.FilesSkipped,
		run.TracksChanged,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, outcome := range outcomes {
		changed, err := encodeChanges(outcome.Changed)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO file_outcomes (run_id, path, status, changed_tracks, error)
             VALUES (?, ?, ?, ?, ?)`,
			run.ID,
			outcome.Path,
			outcome.Status,
			changed,
			nullableString(outcome.Error),
		)
		if err != nil {
			return fmt.Errorf("insert outcome for %s: %w", outcome.Path, err)
		}
	}
	return tx.Commit()
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, library_root, dry_run,
                files_total, files_ok, files_partial, files_skipped, tracks_changed
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished string
		var dryRun int
		if err := rows.Scan(&run.ID, &started, &finished, &run.LibraryRoot, &dryRun,
			&run.FilesTotal, &run.FilesOK, &run.FilesPartial, &run.FilesSkipped, &run.TracksChanged); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(timeLayout, started)
		run.FinishedAt, _ = time.Parse(timeLayout, finished)
		run.DryRun = dryRun != 0
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunOutcomes returns the per-file records of one run in insertion order.
func (s *Store) RunOutcomes(ctx context.Context, runID string) ([]FileOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, status, changed_tracks, error
         FROM file_outcomes WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []FileOutcome
	for rows.Next() {
		outcome := FileOutcome{RunID: runID}
		var changed, errText sql.NullString
		if err := rows.Scan(&outcome.Path, &outcome.Status, &changed, &errText); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		if changed.Valid && changed.String != "" {
			if err := json.Unmarshal([]byte(changed.String), &outcome.Changed); err != nil {
				return nil, fmt.Errorf("decode changed tracks for %s: %w", outcome.Path, err)
			}
		}
		outcome.Error = errText.String
		outcomes = append(outcomes, outcome)
	}
	return outcomes, rows.Err()
}

func encodeChanges(changes []TrackChange) (any, error) {
	if len(changes) == 0 {
		return nil, nil
	}
	payload, err := json.Marshal(changes)
	if err != nil {
		return nil, fmt.Errorf("encode changed tracks: %w", err)
	}
	return string(payload), nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
