package aw

import (
	"context"
	"fmt"

	"aw-go/internal/model"
)

// Snapshot is the set of status entries observed at one point in time.
// Membership is over full entries, code and path together, so the same
// path under two different status codes is two distinct members.
type Snapshot map[model.StatusEntry]struct{}

// NewSnapshot builds a deduplicated snapshot from a status listing.
func NewSnapshot(entries []model.StatusEntry) Snapshot {
	snap := make(Snapshot, len(entries))
	for _, e := range entries {
		snap[e] = struct{}{}
	}
	return snap
}

// captureSnapshot queries the backend for the current status. This is the
// engine's only fatal path: when the backend cannot answer there is
// nothing to compare and the whole run aborts.
func (s *AWService) captureSnapshot(ctx context.Context) (Snapshot, error) {
	entries, err := s.vcs.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("capturing status snapshot: %w", err)
	}
	return NewSnapshot(entries), nil
}
