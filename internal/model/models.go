package model

import (
	"encoding/json"
	"time"
)

// ChangeType is the kind of change detected for a single file.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeModified ChangeType = "modified"
	ChangeDeleted  ChangeType = "deleted"
)

// StatusEntry is one parsed line of version-control status output: the
// whitespace-delimited status token and the raw path remainder. The path
// may still carry backend escaping, surrounding double quotes or a
// " -> " rename marker. Normalization happens during classification, not
// here, so a status transition for the same file shows up as two distinct
// entries.
type StatusEntry struct {
	Code string
	Path string
}

// ChangeRecord describes one detected file change. Content and Diff are
// nil when unattainable, which is not an error condition. Deleted records
// always carry nil Content and nil Diff.
type ChangeRecord struct {
	Filename string
	Type     ChangeType
	Content  *string
	Diff     *string
}

// Event type discriminators used in run result event lists.
const (
	EventFileChange    = "file_change"
	EventStatusMessage = "status_message"
	EventTextResponse  = "text_response"
)

// FileChangeEvent is the wire form of a ChangeRecord. Content and Diff
// serialize as explicit nulls when absent.
type FileChangeEvent struct {
	Type       string     `json:"type"`
	Filename   string     `json:"filename"`
	ChangeType ChangeType `json:"change_type"`
	Content    *string    `json:"content"`
	Diff       *string    `json:"diff"`
}

// NewFileChangeEvent wraps a change record for the event list.
func NewFileChangeEvent(rec ChangeRecord) FileChangeEvent {
	return FileChangeEvent{
		Type:       EventFileChange,
		Filename:   rec.Filename,
		ChangeType: rec.Type,
		Content:    rec.Content,
		Diff:       rec.Diff,
	}
}

// StatusMessageEvent is the run summary appended after all file change
// events.
type StatusMessageEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// TextResponseEvent carries free-form textual output from an agent.
type TextResponseEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Run statuses for RunResult.OverallStatus.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// RunResult is the single JSON document emitted for one run. Events
// preserves agent events byte for byte ahead of the detection events, so
// unknown event kinds survive a round trip through the wrapper.
type RunResult struct {
	OverallStatus        string            `json:"overall_status"`
	Error                *string           `json:"error"`
	Events               []json.RawMessage `json:"events"`
	ReceivedContextFiles []string          `json:"received_context_files"`
}

// Run is one recorded wrapper run.
type Run struct {
	ID             string
	CreatedAt      time.Time
	Prompt         string
	OverallStatus  string
	Error          *string
	StatusMessage  string
	ContextFiles   []string
	DurationMillis int64
	ArchiveKey     *string
	ChangeCount    int64
}

// FileChange is one recorded per-file change belonging to a run. Content
// and diffs live in the archived report, so the row only records whether
// they were captured.
type FileChange struct {
	ID         int64
	RunID      string
	Filename   string
	ChangeType ChangeType
	HasContent bool
	HasDiff    bool
}

// FileLogRow is one entry of a file's change log, joined with the run it
// belongs to.
type FileLogRow struct {
	RunID         string
	CreatedAt     time.Time
	Filename      string
	ChangeType    ChangeType
	HasContent    bool
	HasDiff       bool
	OverallStatus string
	Prompt        string
}
