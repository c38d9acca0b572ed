package aw

// FilesystemManager abstracts the file reads the engine performs when
// resolving change content, so tests run without touching the real
// filesystem.
type FilesystemManager interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)

	// Exists reports whether anything exists at path. A false result with
	// a non-nil error means existence could not be established.
	Exists(path string) (bool, error)
}

// PathMatcher decides whether a detected path is excluded from change
// reports.
type PathMatcher interface {
	Match(path string) bool
}
