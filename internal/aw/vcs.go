package aw

import (
	"context"
	"fmt"

	"aw-go/internal/model"
)

// References a VCS implementation must accept for Diff.
const (
	DiffReferenceHead   = "HEAD"
	DiffReferenceStaged = "--cached"
)

// VCS is the version-control backend the change detection engine reads
// from. The engine needs exactly three primitives: a status listing, a
// per-file diff, and the working tree root. Implementations either shell
// out to the git binary or read the repository directly.
type VCS interface {
	// Status returns the current working tree status entries. The entries
	// carry raw paths; no quote or rename normalization is applied. A
	// failure here means no snapshot is possible and the returned error
	// wraps *BackendUnavailableError.
	Status(ctx context.Context) ([]model.StatusEntry, error)

	// Diff returns the textual diff for path against reference, one of
	// DiffReferenceHead or DiffReferenceStaged. An empty diff with a nil
	// error is a valid result. Any error means the diff is unattainable
	// and callers degrade instead of failing.
	Diff(ctx context.Context, reference, path string) (string, error)

	// Root returns the absolute path of the working tree root.
	Root() string
}

// BackendUnavailableError reports that the status query itself failed,
// usually because the directory is not under version control or the
// backend cannot run at all. It is the engine's only fatal fault.
type BackendUnavailableError struct {
	Dir string
	Err error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("version control backend unavailable in %s: %v", e.Dir, e.Err)
}

func (e *BackendUnavailableError) Unwrap() error {
	return e.Err
}
