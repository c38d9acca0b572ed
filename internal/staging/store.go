package staging

import "io"

// blobStore provides the raw storage mechanics underneath a staging
// area: named blobs grouped by bundle. All shared bundle logic lives in
// the area; stores only move bytes.
type blobStore interface {
	// Create prepares an empty bundle. Creating an existing bundle is an
	// error.
	Create(bundleID string) error

	// Put stores one blob and reports how many bytes were written.
	Put(bundleID, name string, r io.Reader) (int64, error)

	// Get opens a stored blob for reading.
	Get(bundleID, name string) (io.ReadCloser, error)

	// Remove deletes one blob from a bundle.
	Remove(bundleID, name string) error

	// Drop deletes a bundle and everything in it.
	Drop(bundleID string) error
}
