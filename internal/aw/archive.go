package aw

import "io"

// Archive is long-term storage for run reports. Keys are slash-separated
// relative paths, for example "runs/<id>/report.json". Implementations
// exist for the local filesystem, in-memory use in tests, and S3.
type Archive interface {
	// Store writes the object under key, replacing any previous object.
	Store(key string, r io.Reader) error

	// Retrieve opens the object stored under key. The caller closes the
	// returned reader.
	Retrieve(key string) (io.ReadCloser, error)

	// Exists reports whether an object is stored under key.
	Exists(key string) (bool, error)

	// List returns all stored keys beginning with prefix, sorted.
	List(prefix string) ([]string, error)
}
