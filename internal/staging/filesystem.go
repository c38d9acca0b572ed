package staging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"aw-go/internal/aw"
)

// NewFileSystemStagingArea creates a staging area spooling bundles under
// root, one directory per bundle.
func NewFileSystemStagingArea(root string, maxSize int64) (aw.StagingArea, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	return &bundleArea{store: &fileStore{root: root}, maxSize: maxSize}, nil
}

// fileStore lays bundles out as directories under root. Blob names may
// contain slashes, which become subdirectories.
type fileStore struct {
	root string
}

var _ blobStore = (*fileStore)(nil)

func (s *fileStore) Create(bundleID string) error {
	dir := filepath.Join(s.root, bundleID)
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("bundle already exists: %s", bundleID)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking for existing bundle: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating bundle directory: %w", err)
	}
	return nil
}

func (s *fileStore) Put(bundleID, name string, r io.Reader) (int64, error) {
	path := s.blobPath(bundleID, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("creating blob directory: %w", err)
	}

	// Write to a temp file first so a crash never leaves a torn blob
	// under its final name.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	written, err := io.Copy(tmp, r)
	if err != nil {
		return 0, fmt.Errorf("writing blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("renaming temp file: %w", err)
	}
	success = true
	return written, nil
}

func (s *fileStore) Get(bundleID, name string) (io.ReadCloser, error) {
	f, err := os.Open(s.blobPath(bundleID, name))
	if err != nil {
		return nil, fmt.Errorf("opening blob: %w", err)
	}
	return f, nil
}

func (s *fileStore) Remove(bundleID, name string) error {
	if err := os.Remove(s.blobPath(bundleID, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing blob: %w", err)
	}
	return nil
}

func (s *fileStore) Drop(bundleID string) error {
	if err := os.RemoveAll(filepath.Join(s.root, bundleID)); err != nil {
		return fmt.Errorf("removing bundle directory: %w", err)
	}
	return nil
}

func (s *fileStore) blobPath(bundleID, name string) string {
	return filepath.Join(s.root, bundleID, filepath.FromSlash(name))
}
