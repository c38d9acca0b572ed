package staging

import (
	"fmt"
	"io"
	"sync"

	"aw-go/internal/aw"
)

// bundle is one in-progress staged bundle. It tracks names and total
// size and holds the size limit; the bytes live in the store.
type bundle struct {
	store   blobStore
	id      string
	maxSize int64

	mu        sync.Mutex
	names     []string
	seen      map[string]bool
	size      int64
	discarded bool
}

var _ aw.StagedBundle = (*bundle)(nil)

func newBundle(store blobStore, id string, maxSize int64) *bundle {
	return &bundle{
		store:   store,
		id:      id,
		maxSize: maxSize,
		seen:    make(map[string]bool),
	}
}

// Add stores one named blob, enforcing the bundle size limit.
func (b *bundle) Add(name string, r io.Reader) error {
	if err := validateBlobName(name); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.discarded {
		return fmt.Errorf("bundle %s was discarded", b.id)
	}
	if b.seen[name] {
		return fmt.Errorf("blob %s already staged in bundle %s", name, b.id)
	}

	remaining := b.maxSize - b.size
	if remaining <= 0 {
		return fmt.Errorf("bundle %s is full (max %d bytes)", b.id, b.maxSize)
	}
	// One byte of headroom distinguishes "exactly fits" from "too big".
	n, err := b.store.Put(b.id, name, io.LimitReader(r, remaining+1))
	if err != nil {
		return fmt.Errorf("storing blob %s: %w", name, err)
	}
	if n > remaining {
		if rmErr := b.store.Remove(b.id, name); rmErr != nil {
			return fmt.Errorf("removing oversize blob %s: %v (after: bundle exceeds max size %d)", name, rmErr, b.maxSize)
		}
		return fmt.Errorf("blob %s exceeds bundle max size %d", name, b.maxSize)
	}

	b.size += n
	b.seen[name] = true
	b.names = append(b.names, name)
	return nil
}

// Open reads back a previously added blob.
func (b *bundle) Open(name string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.discarded {
		return nil, fmt.Errorf("bundle %s was discarded", b.id)
	}
	if !b.seen[name] {
		return nil, fmt.Errorf("blob %s not staged in bundle %s", name, b.id)
	}
	return b.store.Get(b.id, name)
}

// Names lists the staged blobs in insertion order.
func (b *bundle) Names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string{}, b.names...)
}

// Size is the total byte size staged so far.
func (b *bundle) Size() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Discard removes the bundle and everything in it. Discarding twice is
// harmless.
func (b *bundle) Discard() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.discarded {
		return nil
	}
	b.discarded = true
	if err := b.store.Drop(b.id); err != nil {
		return fmt.Errorf("dropping bundle %s: %w", b.id, err)
	}
	return nil
}
