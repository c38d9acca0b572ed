package app

import "time"

// Operation identifies a single CLI invocation. Its ID stamps every log
// line written while the command runs, so interleaved invocations can be
// told apart in the shared log file.
type Operation struct {
	ID   string
	Name string
}

// NewOperation creates an operation for the named CLI command, with an ID
// derived from the given time.
func NewOperation(name string, now time.Time) *Operation {
	return &Operation{
		ID:   now.UTC().Format("20060102T150405Z"),
		Name: name,
	}
}
