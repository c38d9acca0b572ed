package staging

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"aw-go/internal/aw"
)

// NewMemoryStagingArea creates a staging area that keeps bundles in
// memory. Used in tests and for runs whose reports never need to
// survive the process.
func NewMemoryStagingArea(maxSize int64) aw.StagingArea {
	return &bundleArea{store: newMemoryStore(), maxSize: maxSize}
}

// memoryStore keeps blobs in nested maps.
type memoryStore struct {
	mu      sync.Mutex
	bundles map[string]map[string][]byte
}

var _ blobStore = (*memoryStore)(nil)

func newMemoryStore() *memoryStore {
	return &memoryStore{bundles: make(map[string]map[string][]byte)}
}

func (s *memoryStore) Create(bundleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bundles[bundleID]; ok {
		return fmt.Errorf("bundle already exists: %s", bundleID)
	}
	s.bundles[bundleID] = make(map[string][]byte)
	return nil
}

func (s *memoryStore) Put(bundleID, name string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	blobs, ok := s.bundles[bundleID]
	if !ok {
		return 0, fmt.Errorf("no such bundle: %s", bundleID)
	}
	blobs[name] = data
	return int64(len(data)), nil
}

func (s *memoryStore) Get(bundleID, name string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blobs, ok := s.bundles[bundleID]
	if !ok {
		return nil, fmt.Errorf("no such bundle: %s", bundleID)
	}
	data, ok := blobs[name]
	if !ok {
		return nil, fmt.Errorf("no such blob: %s", name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memoryStore) Remove(bundleID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if blobs, ok := s.bundles[bundleID]; ok {
		delete(blobs, name)
	}
	return nil
}

func (s *memoryStore) Drop(bundleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bundles, bundleID)
	return nil
}
