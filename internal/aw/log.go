package aw

import (
	"fmt"

	"aw-go/internal/model"
)

// FileLog returns the recorded change log for one file across all runs,
// newest first. An unknown filename yields an empty log, not an error.
func (s *AWService) FileLog(filename string) ([]*model.FileLogRow, error) {
	rows, err := s.database.FileLog(filename)
	if err != nil {
		return nil, fmt.Errorf("loading file log: %w", err)
	}
	return rows, nil
}
