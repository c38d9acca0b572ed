package aw

import (
	"testing"

	"aw-go/internal/model"
)

func TestClassifyCode(t *testing.T) {
	tests := []struct {
		code     string
		want     model.ChangeType
		wantSeen bool
	}{
		{code: "??", want: model.ChangeAdded, wantSeen: true},
		{code: "M", want: model.ChangeModified, wantSeen: true},
		{code: "MM", want: model.ChangeModified, wantSeen: true},
		{code: "A", want: model.ChangeModified, wantSeen: true},
		{code: "AM", want: model.ChangeModified, wantSeen: true},
		{code: "D", want: model.ChangeDeleted, wantSeen: true},
		{code: "R", want: model.ChangeModified, wantSeen: true},
		{code: "RM", want: model.ChangeModified, wantSeen: true},
		// Copies, unmerged states, and unknown tokens produce no record.
		{code: "C", wantSeen: false},
		{code: "UU", wantSeen: false},
		{code: "!!", wantSeen: false},
		{code: "T", wantSeen: false},
		{code: "", wantSeen: false},
	}

	for _, tt := range tests {
		t.Run("code "+tt.code, func(t *testing.T) {
			got, seen := classifyCode(tt.code)
			if seen != tt.wantSeen {
				t.Fatalf("classifyCode(%q) seen = %v, want %v", tt.code, seen, tt.wantSeen)
			}
			if seen && got != tt.want {
				t.Errorf("classifyCode(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestNormalizeStatusPath(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		side pathSide
		want string
	}{
		{name: "plain path", raw: "main.go", side: newSide, want: "main.go"},
		{name: "nested path", raw: "internal/aw/run.go", side: newSide, want: "internal/aw/run.go"},
		{name: "quoted path", raw: `"has space.go"`, side: newSide, want: "has space.go"},
		{name: "rename keeps destination", raw: "old.go -> new.go", side: newSide, want: "new.go"},
		{name: "rename keeps source", raw: "old.go -> new.go", side: oldSide, want: "old.go"},
		{name: "quoted rename destination", raw: `"old name.go" -> "new name.go"`, side: newSide, want: "new name.go"},
		{name: "quoted rename source", raw: `"old name.go" -> "new name.go"`, side: oldSide, want: "old name.go"},
		{name: "unterminated quote is kept", raw: `"unterminated`, side: newSide, want: `"unterminated`},
		{name: "single quote character is kept", raw: `"`, side: newSide, want: `"`},
		{name: "empty path", raw: "", side: newSide, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeStatusPath(tt.raw, tt.side); got != tt.want {
				t.Errorf("normalizeStatusPath(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
