package aw

import "aw-go/internal/model"

// Database stores run metadata and per-file change rows. Lookups for
// absent rows return (nil, nil), not an error.
type Database interface {
	// InsertRun records a run and its file changes atomically.
	InsertRun(run *model.Run, changes []model.FileChange) error

	// GetRun fetches one run by ID.
	GetRun(id string) (*model.Run, error)

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int64) ([]*model.Run, error)

	// FileLog returns every recorded change for filename, newest first,
	// joined with the run each change belongs to.
	FileLog(filename string) ([]*model.FileLogRow, error)

	// SetRunArchiveKey marks a run as archived under the given key.
	SetRunArchiveKey(id, key string) error

	Close() error
}
