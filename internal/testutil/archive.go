package testutil

import (
	"aw-go/internal/archive"
	"aw-go/internal/aw"
)

// NewTestArchive creates a new in-memory archive for testing.
func NewTestArchive() aw.Archive {
	return archive.NewMemoryArchive()
}
