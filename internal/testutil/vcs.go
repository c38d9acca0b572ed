package testutil

import (
	"context"
	"fmt"

	"aw-go/internal/aw"
	"aw-go/internal/model"
)

// FakeVCS serves scripted status listings and diffs. Each Status call
// consumes the next queued listing; when the queue runs out the last
// listing repeats, so a tree that stops changing keeps reporting the
// same state.
type FakeVCS struct {
	RootDir string

	statusQueue [][]model.StatusEntry
	statusErrs  map[int]error
	statusCalls int

	diffs    map[string]string
	diffErrs map[string]error
	DiffErr  error
}

// NewFakeVCS creates a FakeVCS rooted at root with an empty status queue.
func NewFakeVCS(root string) *FakeVCS {
	return &FakeVCS{
		RootDir:    root,
		statusErrs: make(map[int]error),
		diffs:      make(map[string]string),
		diffErrs:   make(map[string]error),
	}
}

// PushStatus queues one status listing.
func (v *FakeVCS) PushStatus(entries ...model.StatusEntry) {
	v.statusQueue = append(v.statusQueue, entries)
}

// FailStatusAt makes the n-th Status call (1-based) fail with err.
func (v *FakeVCS) FailStatusAt(call int, err error) {
	v.statusErrs[call] = err
}

// SetDiff fixes the diff returned for the given reference and path.
func (v *FakeVCS) SetDiff(reference, path, diff string) {
	v.diffs[reference+" "+path] = diff
}

// FailDiff makes Diff fail for the given reference and path only.
// DiffErr fails every diff instead.
func (v *FakeVCS) FailDiff(reference, path string, err error) {
	v.diffErrs[reference+" "+path] = err
}

func (v *FakeVCS) Status(_ context.Context) ([]model.StatusEntry, error) {
	v.statusCalls++
	if err, ok := v.statusErrs[v.statusCalls]; ok {
		return nil, fmt.Errorf("querying status: %w", &aw.BackendUnavailableError{Dir: v.RootDir, Err: err})
	}
	if len(v.statusQueue) == 0 {
		return nil, nil
	}
	idx := v.statusCalls - 1
	if idx >= len(v.statusQueue) {
		idx = len(v.statusQueue) - 1
	}
	return v.statusQueue[idx], nil
}

func (v *FakeVCS) Diff(_ context.Context, reference, path string) (string, error) {
	if v.DiffErr != nil {
		return "", v.DiffErr
	}
	if err, ok := v.diffErrs[reference+" "+path]; ok {
		return "", err
	}
	if diff, ok := v.diffs[reference+" "+path]; ok {
		return diff, nil
	}
	return "", nil
}

func (v *FakeVCS) Root() string {
	return v.RootDir
}

// Compile-time check
var _ aw.VCS = (*FakeVCS)(nil)
