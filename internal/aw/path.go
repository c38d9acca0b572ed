package aw

import "strings"

// renameMarker separates the old and new path in a rename status line.
const renameMarker = " -> "

// pathSide selects which side of a rename marker to keep when
// normalizing a raw status path.
type pathSide int

const (
	// newSide keeps the right-hand side, the path after a rename.
	newSide pathSide = iota
	// oldSide keeps the left-hand side, the path before a rename.
	oldSide
)

// normalizeStatusPath turns a raw status path into a plain filename.
// The rename marker is split first since the backend quotes each side of
// a rename independently, then one pair of surrounding double quotes is
// stripped. No other unescaping is performed.
func normalizeStatusPath(raw string, side pathSide) string {
	p := raw
	if i := strings.Index(p, renameMarker); i >= 0 {
		if side == newSide {
			p = p[i+len(renameMarker):]
		} else {
			p = p[:i]
		}
	}
	if len(p) >= 2 && strings.HasPrefix(p, `"`) && strings.HasSuffix(p, `"`) {
		p = p[1 : len(p)-1]
	}
	return p
}
