package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"aw-go/internal/aw"
	"aw-go/internal/database/migrations"
	"aw-go/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements the Database interface using SQLite.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

// NewSQLiteDatabase creates a new SQLite database connection.
// path can be a file path or ":memory:" for in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteDatabase{db: db, path: path}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{db: db, path: ""}
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// This is exported for tests that need a properly configured SQLite connection.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Future SQLite optimizations can be added here:
	// - PRAGMA journal_mode = WAL  (Write-Ahead Logging for better concurrency)
	// - PRAGMA busy_timeout = 5000 (Wait up to 5s for locks)

	return db, nil
}

// Migrate brings the database schema up to the latest version.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// runColumns selects everything a model.Run needs, including the
// derived change count.
const runColumns = `r.id, r.created_at, r.prompt, r.overall_status, r.error,
	r.status_message, r.context_files, r.duration_ms, r.archive_key,
	(SELECT COUNT(*) FROM file_changes fc WHERE fc.run_id = r.id)`

// InsertRun records a run and its file changes in a single transaction.
func (s *SQLiteDatabase) InsertRun(run *model.Run, changes []model.FileChange) error {
	contextFiles := run.ContextFiles
	if contextFiles == nil {
		contextFiles = []string{}
	}
	contextJSON, err := json.Marshal(contextFiles)
	if err != nil {
		return fmt.Errorf("encoding context files: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(id, created_at, prompt, overall_status, error, status_message, context_files, duration_ms, archive_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt, run.Prompt, run.OverallStatus, nullString(run.Error),
		run.StatusMessage, string(contextJSON), run.DurationMillis, nullString(run.ArchiveKey))
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for _, change := range changes {
		_, err = tx.Exec(`INSERT INTO file_changes
			(run_id, filename, change_type, has_content, has_diff)
			VALUES (?, ?, ?, ?, ?)`,
			run.ID, change.Filename, string(change.ChangeType), change.HasContent, change.HasDiff)
		if err != nil {
			return fmt.Errorf("inserting file change for %s: %w", change.Filename, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetRun fetches one run by ID.
func (s *SQLiteDatabase) GetRun(id string) (*model.Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs r WHERE r.id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding run by id: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteDatabase) ListRuns(limit int64) ([]*model.Run, error) {
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM runs r
		ORDER BY r.created_at DESC, r.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// FileLog returns every recorded change for filename joined with its
// run, newest first.
func (s *SQLiteDatabase) FileLog(filename string) ([]*model.FileLogRow, error) {
	rows, err := s.db.Query(`SELECT fc.run_id, r.created_at, fc.filename, fc.change_type,
			fc.has_content, fc.has_diff, r.overall_status, r.prompt
		FROM file_changes fc
		JOIN runs r ON r.id = fc.run_id
		WHERE fc.filename = ?
		ORDER BY r.created_at DESC, fc.id DESC`, filename)
	if err != nil {
		return nil, fmt.Errorf("loading file log: %w", err)
	}
	defer rows.Close()

	var entries []*model.FileLogRow
	for rows.Next() {
		var entry model.FileLogRow
		var changeType string
		err := rows.Scan(&entry.RunID, &entry.CreatedAt, &entry.Filename, &changeType,
			&entry.HasContent, &entry.HasDiff, &entry.OverallStatus, &entry.Prompt)
		if err != nil {
			return nil, fmt.Errorf("scanning file log row: %w", err)
		}
		entry.ChangeType = model.ChangeType(changeType)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading file log: %w", err)
	}
	return entries, nil
}

// SetRunArchiveKey marks a run as archived under the given key.
func (s *SQLiteDatabase) SetRunArchiveKey(id, key string) error {
	res, err := s.db.Exec(`UPDATE runs SET archive_key = ? WHERE id = ?`, key, id)
	if err != nil {
		return fmt.Errorf("updating archive key: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating archive key: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.Run, error) {
	var run model.Run
	var errMsg, archiveKey sql.NullString
	var contextJSON string
	err := row.Scan(&run.ID, &run.CreatedAt, &run.Prompt, &run.OverallStatus, &errMsg,
		&run.StatusMessage, &contextJSON, &run.DurationMillis, &archiveKey, &run.ChangeCount)
	if err != nil {
		return nil, err
	}
	if errMsg.Valid {
		run.Error = &errMsg.String
	}
	if archiveKey.Valid {
		run.ArchiveKey = &archiveKey.String
	}
	if err := json.Unmarshal([]byte(contextJSON), &run.ContextFiles); err != nil {
		return nil, fmt.Errorf("decoding context files: %w", err)
	}
	return &run, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Compile-time check that SQLiteDatabase implements aw.Database interface
var _ aw.Database = (*SQLiteDatabase)(nil)
