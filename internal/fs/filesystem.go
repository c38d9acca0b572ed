package fs

import (
	"errors"
	"io/fs"
	"os"

	"aw-go/internal/aw"
)

// OSFilesystemManager is the real filesystem implementation of
// FilesystemManager, backed by the os package.
type OSFilesystemManager struct{}

// NewOSFilesystemManager creates a new filesystem manager that operates on the real filesystem.
func NewOSFilesystemManager() *OSFilesystemManager {
	return &OSFilesystemManager{}
}

// ReadFile reads the entire file at path.
func (m *OSFilesystemManager) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Exists reports whether anything exists at path. A stat failure other
// than "not exist" is returned so the caller can decide what absence
// means for it.
func (m *OSFilesystemManager) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Compile-time check that OSFilesystemManager implements aw.FilesystemManager interface
var _ aw.FilesystemManager = (*OSFilesystemManager)(nil)
