package aw

import (
	"strings"

	"aw-go/internal/model"
)

// classifyCode maps a status token to a change kind. The token is the
// first whitespace-delimited field of a status line, so index codes and
// working tree codes collapse into the same letter. Staged additions
// deliberately classify as modified, matching how runs are reported when
// an agent stages its own work. Tokens outside the table, copies and
// unmerged states among them, produce no record at all rather than a
// wrong one.
func classifyCode(code string) (model.ChangeType, bool) {
	switch {
	case code == "??":
		return model.ChangeAdded, true
	case strings.HasPrefix(code, "M"), strings.HasPrefix(code, "A"):
		return model.ChangeModified, true
	case strings.HasPrefix(code, "D"):
		return model.ChangeDeleted, true
	case strings.HasPrefix(code, "R"):
		// Renames report the destination as a modification; the vanished
		// source is picked up by deletion bookkeeping.
		return model.ChangeModified, true
	default:
		return "", false
	}
}
