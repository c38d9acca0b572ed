// Package archive implements long-term storage for run reports on the
// local filesystem, in memory, and in S3.
package archive

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"aw-go/internal/aw"
)

// FileSystemArchive stores objects as files under a root directory. A
// key like "runs/<id>/report.json" maps directly onto the directory
// structure beneath the root.
type FileSystemArchive struct {
	root string
}

// NewFileSystemArchive creates a new filesystem archive rooted at the given path.
func NewFileSystemArchive(root string) (*FileSystemArchive, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &FileSystemArchive{root: root}, nil
}

// Store writes the object under key using atomic write (temp file + rename).
func (a *FileSystemArchive) Store(key string, r io.Reader) error {
	destPath, err := a.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	// Create temp file in the same directory to ensure atomic rename works
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on failure
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, r); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Retrieve opens the object stored under key.
func (a *FileSystemArchive) Retrieve(key string) (io.ReadCloser, error) {
	srcPath, err := a.keyPath(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("archive object not found: %s", key)
		}
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return f, nil
}

// Exists reports whether an object is stored under key.
func (a *FileSystemArchive) Exists(key string) (bool, error) {
	p, err := a.keyPath(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return true, nil
}

// List returns all stored keys beginning with prefix, sorted.
func (a *FileSystemArchive) List(prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(a.root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(a.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking archive: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// keyPath maps a key onto a filesystem path beneath the root, rejecting
// keys that would escape it.
func (a *FileSystemArchive) keyPath(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid archive key: %q", key)
	}
	cleaned := path.Clean(key)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("invalid archive key: %q", key)
	}
	return filepath.Join(a.root, filepath.FromSlash(cleaned)), nil
}

// Compile-time check that FileSystemArchive implements aw.Archive interface
var _ aw.Archive = (*FileSystemArchive)(nil)
