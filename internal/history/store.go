// Package history records migration runs in a SQLite database.
//
// The store is the authoritative manifest for rollback: instead of guessing
// the most recent backup from directory-name sort order, rollback asks the
// store which backup the last real migration wrote. It also backs the
// pm_migration_status tool with an audit trail of past runs. Dry runs are
// never recorded: a dry run must leave the project tree untouched, and the
// database lives inside it.
//
// The database lives next to the backups it describes, under
// <root>/08-archive/migration-backups/history.db.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"planfold/internal/project"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// DBFile is the history database filename inside the backups directory.
const DBFile = "history.db"

// Run is one recorded migration invocation.
type Run struct {
	ID             int64    `json:"id"`
	ProjectRoot    string   `json:"project_root"`
	BackupPath     string   `json:"backup_path,omitempty"`
	DryRun         bool     `json:"dry_run"`
	FoldersCreated int      `json:"folders_created"`
	FilesCreated   int      `json:"files_created"`
	FilesMoved     int      `json:"files_moved"`
	Warnings       []string `json:"warnings,omitempty"`
	Errors         []string `json:"errors,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

// Store persists migration runs.
type Store struct {
	db *sql.DB
}

// DBPath returns the history database path for a project root.
func DBPath(root string) string {
	return filepath.Join(project.BackupsPath(root), DBFile)
}

// Open opens (creating if needed) the history database at dbPath and runs
// the schema migration.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("history: create data dir: %w", err)
	}

	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return s, nil
}

// OpenForProject opens the history store for a project root.
func OpenForProject(root string) (*Store, error) {
	return Open(DBPath(root))
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS migration_runs (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			project_root    TEXT    NOT NULL,
			backup_path     TEXT    NOT NULL DEFAULT '',
			dry_run         INTEGER NOT NULL DEFAULT 0,
			folders_created INTEGER NOT NULL DEFAULT 0,
			files_created   INTEGER NOT NULL DEFAULT 0,
			files_moved     INTEGER NOT NULL DEFAULT 0,
			warnings        TEXT    NOT NULL DEFAULT '[]',
			errors          TEXT    NOT NULL DEFAULT '[]',
			created_at      TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_runs_root
			ON migration_runs(project_root, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordRun inserts a run and returns its id.
func (s *Store) RecordRun(run Run) (int64, error) {
	warnings, err := json.Marshal(emptyIfNil(run.Warnings))
	if err != nil {
		return 0, fmt.Errorf("history: encode warnings: %w", err)
	}
	errs, err := json.Marshal(emptyIfNil(run.Errors))
	if err != nil {
		return 0, fmt.Errorf("history: encode errors: %w", err)
	}

	res, err := s.db.Exec(`
		INSERT INTO migration_runs
			(project_root, backup_path, dry_run, folders_created, files_created, files_moved, warnings, errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ProjectRoot, run.BackupPath, boolToInt(run.DryRun),
		run.FoldersCreated, run.FilesCreated, run.FilesMoved,
		string(warnings), string(errs),
	)
	if err != nil {
		return 0, fmt.Errorf("history: insert run: %w", err)
	}
	return res.LastInsertId()
}

// LatestBackup returns the backup path of the most recent non-dry run that
// created a backup, or "" if none is recorded.
func (s *Store) LatestBackup(projectRoot string) (string, error) {
	var path string
	err := s.db.QueryRow(`
		SELECT backup_path FROM migration_runs
		WHERE project_root = ? AND dry_run = 0 AND backup_path != ''
		ORDER BY id DESC LIMIT 1`,
		projectRoot,
	).Scan(&path)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("history: latest backup: %w", err)
	}
	return path, nil
}

// Runs returns the most recent runs for a project, newest first.
func (s *Store) Runs(projectRoot string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, project_root, backup_path, dry_run,
		       folders_created, files_created, files_moved,
		       warnings, errors, created_at
		FROM migration_runs
		WHERE project_root = ?
		ORDER BY id DESC LIMIT ?`,
		projectRoot, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var dry int
		var warnings, errs string
		if err := rows.Scan(&r.ID, &r.ProjectRoot, &r.BackupPath, &dry,
			&r.FoldersCreated, &r.FilesCreated, &r.FilesMoved,
			&warnings, &errs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		r.DryRun = dry != 0
		if err := json.Unmarshal([]byte(warnings), &r.Warnings); err != nil {
			return nil, fmt.Errorf("history: decode warnings: %w", err)
		}
		if err := json.Unmarshal([]byte(errs), &r.Errors); err != nil {
			return nil, fmt.Errorf("history: decode errors: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
