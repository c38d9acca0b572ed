package archive

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"aw-go/internal/aw"
)

// MemoryArchive is an in-memory implementation of the Archive interface,
// used in tests.
type MemoryArchive struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryArchive creates a new empty in-memory archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{objects: make(map[string][]byte)}
}

func (a *MemoryArchive) Store(key string, r io.Reader) error {
	if key == "" {
		return fmt.Errorf("invalid archive key: %q", key)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading object: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.objects[key] = data
	return nil
}

func (a *MemoryArchive) Retrieve(key string) (io.ReadCloser, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	data, ok := a.objects[key]
	if !ok {
		return nil, fmt.Errorf("archive object not found: %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (a *MemoryArchive) Exists(key string) (bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.objects[key]
	return ok, nil
}

func (a *MemoryArchive) List(prefix string) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var keys []string
	for k := range a.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Compile-time check that MemoryArchive implements aw.Archive interface
var _ aw.Archive = (*MemoryArchive)(nil)
