package testutil

import (
	"fmt"

	"aw-go/internal/aw"
)

// MockFilesystemManager is an in-memory filesystem for testing.
type MockFilesystemManager struct {
	files    map[string][]byte
	readErrs map[string]error
}

// NewMockFilesystemManager creates a new mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files:    make(map[string][]byte),
		readErrs: make(map[string]error),
	}
}

// AddFile adds a file to the mock filesystem.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	m.files[path] = content
}

// RemoveFile removes a file from the mock filesystem.
func (m *MockFilesystemManager) RemoveFile(path string) {
	delete(m.files, path)
}

// FailReads makes ReadFile return err for path while Exists still reports true.
func (m *MockFilesystemManager) FailReads(path string, err error) {
	m.files[path] = nil
	m.readErrs[path] = err
}

func (m *MockFilesystemManager) ReadFile(path string) ([]byte, error) {
	if err, ok := m.readErrs[path]; ok {
		return nil, err
	}
	content, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return content, nil
}

func (m *MockFilesystemManager) Exists(path string) (bool, error) {
	if _, ok := m.readErrs[path]; ok {
		return true, nil
	}
	_, ok := m.files[path]
	return ok, nil
}

// Compile-time check
var _ aw.FilesystemManager = (*MockFilesystemManager)(nil)
