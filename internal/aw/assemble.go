package aw

import (
	"context"
	"path/filepath"

	"aw-go/internal/model"
)

// assembleChangeSet turns a snapshot difference into the final change
// records. Appeared entries drive classification; vanished entries feed
// deletion bookkeeping. Added and modified records come first, deletions
// last, and a path never carries both a deleted and a non-deleted record.
func (s *AWService) assembleChangeSet(ctx context.Context, appeared, vanished []model.StatusEntry) []model.ChangeRecord {
	var records []model.ChangeRecord
	var deletions []model.ChangeRecord
	live := make(map[string]bool)
	deleted := make(map[string]bool)

	for _, e := range appeared {
		kind, ok := classifyCode(e.Code)
		if !ok {
			continue
		}
		name := normalizeStatusPath(e.Path, newSide)
		if name == "" {
			continue
		}
		if s.ignore.Match(name) {
			s.logger.Debug("change ignored", "filename", name)
			continue
		}
		rec := s.resolveRecord(ctx, name, kind)
		if kind == model.ChangeDeleted {
			if !deleted[name] {
				deletions = append(deletions, rec)
				deleted[name] = true
			}
			continue
		}
		records = append(records, rec)
		live[name] = true
	}

	for _, e := range vanished {
		if e.Code == "??" {
			// An untracked entry that vanished became tracked, it did not
			// leave the working tree.
			continue
		}
		name := normalizeStatusPath(e.Path, oldSide)
		if name == "" || live[name] || deleted[name] {
			continue
		}
		if s.ignore.Match(name) {
			continue
		}
		if s.presentOnDisk(name) {
			// Still on disk, so the vanished entry was a state change
			// rather than a deletion. Committing staged work looks like
			// this.
			continue
		}
		deletions = append(deletions, model.ChangeRecord{Filename: name, Type: model.ChangeDeleted})
		deleted[name] = true
	}

	for _, rec := range deletions {
		// A path deleted and recreated within one run keeps only its
		// non-deleted record.
		if live[rec.Filename] {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// presentOnDisk reports whether the working tree still holds the file.
// An existence check that fails counts as absent, the same answer an
// unreadable path would give a plain stat.
func (s *AWService) presentOnDisk(name string) bool {
	abs := filepath.Join(s.vcs.Root(), name)
	exists, err := s.fsmgr.Exists(abs)
	if err != nil {
		s.logger.Debug("existence check failed", "filename", name, "err", err)
		return false
	}
	return exists
}
