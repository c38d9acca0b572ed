package staging

import (
	"fmt"
	"strings"

	"aw-go/internal/aw"
)

// bundleArea implements aw.StagingArea using a pluggable blobStore for
// the storage mechanics. All shared bundle logic lives here.
type bundleArea struct {
	store   blobStore
	maxSize int64
}

var _ aw.StagingArea = (*bundleArea)(nil)

// Begin opens a new empty bundle identified by id.
func (a *bundleArea) Begin(id string) (aw.StagedBundle, error) {
	if id == "" {
		return nil, fmt.Errorf("bundle id must not be empty")
	}
	if strings.ContainsAny(id, "/\\") {
		return nil, fmt.Errorf("bundle id must not contain path separators: %s", id)
	}
	if err := a.store.Create(id); err != nil {
		return nil, fmt.Errorf("creating bundle %s: %w", id, err)
	}
	return newBundle(a.store, id, a.maxSize), nil
}

// validateBlobName rejects names that could escape the bundle. Names are
// slash-separated relative paths.
func validateBlobName(name string) error {
	if name == "" {
		return fmt.Errorf("blob name must not be empty")
	}
	if strings.HasPrefix(name, "/") {
		return fmt.Errorf("blob name must be relative: %s", name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("invalid blob name: %s", name)
		}
	}
	return nil
}
