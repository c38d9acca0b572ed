package aw

import (
	"context"
	"fmt"
	"path/filepath"

	"aw-go/internal/model"
)

// resolveRecord attaches best-effort content and diff to one classified
// change. Nothing in here aborts a run: a failed read degrades into the
// record itself and a failed diff degrades to nil.
func (s *AWService) resolveRecord(ctx context.Context, filename string, kind model.ChangeType) model.ChangeRecord {
	rec := model.ChangeRecord{Filename: filename, Type: kind}
	if kind == model.ChangeDeleted {
		// A deleted file is expected to be gone; no reads are attempted.
		return rec
	}

	abs := filepath.Join(s.vcs.Root(), filename)
	if exists, _ := s.fsmgr.Exists(abs); exists {
		data, err := s.fsmgr.ReadFile(abs)
		if err != nil {
			// The record still ships, carrying the fault where content
			// would have been.
			msg := fmt.Sprintf("error reading file content: %v", err)
			rec.Content = &msg
			s.logger.Warn("reading change content failed", "filename", filename, "err", err)
		} else {
			content := string(data)
			rec.Content = &content
		}
	}

	if kind == model.ChangeModified {
		rec.Diff = s.resolveDiff(ctx, filename)
	}
	return rec
}

// resolveDiff asks the backend for a diff against the last commit, then
// against the staged index for files not yet committed. Both failing
// means no diff is attainable.
func (s *AWService) resolveDiff(ctx context.Context, filename string) *string {
	diff, err := s.vcs.Diff(ctx, DiffReferenceHead, filename)
	if err == nil {
		return &diff
	}
	diff, err = s.vcs.Diff(ctx, DiffReferenceStaged, filename)
	if err == nil {
		return &diff
	}
	s.logger.Debug("diff unattainable", "filename", filename, "err", err)
	return nil
}
