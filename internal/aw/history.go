package aw

import (
	"fmt"

	"aw-go/internal/model"
)

// DefaultHistoryLimit caps history listings when the caller does not ask
// for a specific count.
const DefaultHistoryLimit = 50

// GetHistory returns the most recent recorded runs, newest first.
func (s *AWService) GetHistory(limit int64) ([]*model.Run, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	runs, err := s.database.ListRuns(limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one recorded run, or nil when the ID is unknown.
func (s *AWService) GetRun(id string) (*model.Run, error) {
	run, err := s.database.GetRun(id)
	if err != nil {
		return nil, fmt.Errorf("looking up run: %w", err)
	}
	return run, nil
}
