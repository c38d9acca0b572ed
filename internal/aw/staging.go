package aw

import "io"

// StagingArea spools report bundles locally before they are uploaded, so
// a half-built bundle never reaches the archive.
type StagingArea interface {
	// Begin opens a new empty bundle identified by id.
	Begin(id string) (StagedBundle, error)
}

// StagedBundle collects named blobs destined for one archive upload.
// Names are slash-separated relative paths within the bundle.
type StagedBundle interface {
	// Add stores a named blob. Adding a name twice is an error, as is
	// growing the bundle past the staging area's size limit.
	Add(name string, r io.Reader) error

	// Open reads back a previously added blob.
	Open(name string) (io.ReadCloser, error)

	// Names lists the blobs added so far, in insertion order.
	Names() []string

	// Size is the total byte size of the bundle so far.
	Size() int64

	// Discard removes the bundle and everything in it.
	Discard() error
}
