package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"aw-go/internal/aw"
	"aw-go/internal/model"
	"aw-go/internal/testutil"
)

func TestStatusToken(t *testing.T) {
	tests := []struct {
		name string
		fst  *gogit.FileStatus
		want string
	}{
		{
			name: "untracked",
			fst:  &gogit.FileStatus{Staging: gogit.Untracked, Worktree: gogit.Untracked},
			want: "??",
		},
		{
			name: "worktree modified",
			fst:  &gogit.FileStatus{Staging: gogit.Unmodified, Worktree: gogit.Modified},
			want: "M",
		},
		{
			name: "staged modified",
			fst:  &gogit.FileStatus{Staging: gogit.Modified, Worktree: gogit.Unmodified},
			want: "M",
		},
		{
			name: "staged add",
			fst:  &gogit.FileStatus{Staging: gogit.Added, Worktree: gogit.Unmodified},
			want: "A",
		},
		{
			name: "worktree delete",
			fst:  &gogit.FileStatus{Staging: gogit.Unmodified, Worktree: gogit.Deleted},
			want: "D",
		},
		{
			name: "staged and worktree changes keep both codes",
			fst:  &gogit.FileStatus{Staging: gogit.Modified, Worktree: gogit.Modified},
			want: "MM",
		},
		{
			name: "rename",
			fst:  &gogit.FileStatus{Staging: gogit.Renamed, Worktree: gogit.Unmodified},
			want: "R",
		},
		{
			name: "clean file yields empty token",
			fst:  &gogit.FileStatus{Staging: gogit.Unmodified, Worktree: gogit.Unmodified},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusToken(tt.fst); got != tt.want {
				t.Errorf("statusToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusPath(t *testing.T) {
	tests := []struct {
		name string
		fst  *gogit.FileStatus
		path string
		want string
	}{
		{
			name: "plain path",
			fst:  &gogit.FileStatus{Staging: gogit.Unmodified, Worktree: gogit.Modified},
			path: "main.go",
			want: "main.go",
		},
		{
			name: "rename joins old and new",
			fst:  &gogit.FileStatus{Staging: gogit.Renamed, Extra: "old.go"},
			path: "new.go",
			want: "old.go -> new.go",
		},
		{
			name: "rename without extra stays plain",
			fst:  &gogit.FileStatus{Staging: gogit.Renamed},
			path: "new.go",
			want: "new.go",
		},
		{
			name: "path with space is quoted",
			fst:  &gogit.FileStatus{Worktree: gogit.Untracked},
			path: "a b.txt",
			want: "\"a b.txt\"",
		},
		{
			name: "rename quotes each side independently",
			fst:  &gogit.FileStatus{Staging: gogit.Renamed, Extra: "old name.txt"},
			path: "new.txt",
			want: "\"old name.txt\" -> new.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusPath(tt.fst, tt.path); got != tt.want {
				t.Errorf("statusPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuotePorcelainPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "plain", path: "src/main.go", want: "src/main.go"},
		{name: "space", path: "a b.txt", want: "\"a b.txt\""},
		{name: "embedded quote", path: `say"hi".txt`, want: `"say\"hi\".txt"`},
		{name: "backslash", path: `dir\file`, want: `"dir\\file"`},
		{name: "tab", path: "tab\there", want: `"tab\there"`},
		{name: "unicode stays raw", path: "héllo.txt", want: "héllo.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quotePorcelainPath(tt.path); got != tt.want {
				t.Errorf("quotePorcelainPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

// initRepo creates a git repository in a temp directory using go-git only,
// so the tests never depend on a git binary.
func initRepo(t *testing.T) (string, *gogit.Worktree) {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit() error = %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree() error = %v", err)
	}
	return dir, wt
}

func commitAll(t *testing.T, wt *gogit.Worktree, msg string) {
	t.Helper()

	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		t.Fatalf("AddWithOptions() error = %v", err)
	}
	_, err := wt.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.invalid", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
}

func writeWorktreeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func newGoGitTestBackend(dir string) *GoGitBackend {
	return NewGoGitBackend(dir, NewExecBackend(dir, "", testutil.NewFakeRunner()))
}

func TestGoGitBackend_Status(t *testing.T) {
	t.Run("untracked files", func(t *testing.T) {
		dir, _ := initRepo(t)
		writeWorktreeFile(t, dir, "b.txt", "two")
		writeWorktreeFile(t, dir, "a.txt", "one")

		b := newGoGitTestBackend(dir)
		entries, err := b.Status(context.Background())
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}

		want := []model.StatusEntry{
			{Code: "??", Path: "a.txt"},
			{Code: "??", Path: "b.txt"},
		}
		if len(entries) != len(want) {
			t.Fatalf("Status() = %v, want %v", entries, want)
		}
		for i := range want {
			if entries[i] != want[i] {
				t.Errorf("entry %d = %v, want %v", i, entries[i], want[i])
			}
		}
	})

	t.Run("modified and deleted tracked files", func(t *testing.T) {
		dir, wt := initRepo(t)
		writeWorktreeFile(t, dir, "keep.txt", "v1")
		writeWorktreeFile(t, dir, "gone.txt", "v1")
		commitAll(t, wt, "initial")

		writeWorktreeFile(t, dir, "keep.txt", "v2")
		if err := os.Remove(filepath.Join(dir, "gone.txt")); err != nil {
			t.Fatalf("removing gone.txt: %v", err)
		}

		b := newGoGitTestBackend(dir)
		entries, err := b.Status(context.Background())
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}

		got := map[string]string{}
		for _, e := range entries {
			got[e.Path] = e.Code
		}
		if got["keep.txt"] != "M" {
			t.Errorf("keep.txt code = %q, want M", got["keep.txt"])
		}
		if got["gone.txt"] != "D" {
			t.Errorf("gone.txt code = %q, want D", got["gone.txt"])
		}
	})

	t.Run("clean tree yields no entries", func(t *testing.T) {
		dir, wt := initRepo(t)
		writeWorktreeFile(t, dir, "only.txt", "v1")
		commitAll(t, wt, "initial")

		b := newGoGitTestBackend(dir)
		entries, err := b.Status(context.Background())
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("Status() = %v, want empty", entries)
		}
	})

	t.Run("path with spaces comes back quoted", func(t *testing.T) {
		dir, _ := initRepo(t)
		writeWorktreeFile(t, dir, "a b.txt", "spaced")

		b := newGoGitTestBackend(dir)
		entries, err := b.Status(context.Background())
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("Status() = %v, want one entry", entries)
		}
		if entries[0].Path != "\"a b.txt\"" {
			t.Errorf("Path = %q, want quoted", entries[0].Path)
		}
	})

	t.Run("not a repository is backend unavailable", func(t *testing.T) {
		dir := t.TempDir()

		b := newGoGitTestBackend(dir)
		_, err := b.Status(context.Background())
		if err == nil {
			t.Fatal("Status() expected error")
		}

		var unavailable *aw.BackendUnavailableError
		if !errors.As(err, &unavailable) {
			t.Fatalf("error = %v, want BackendUnavailableError", err)
		}
	})
}

func TestGoGitBackend_Root(t *testing.T) {
	t.Run("finds the repository root from a subdirectory", func(t *testing.T) {
		dir, wt := initRepo(t)
		writeWorktreeFile(t, dir, "top.txt", "v1")
		commitAll(t, wt, "initial")

		sub := filepath.Join(dir, "nested")
		if err := os.MkdirAll(sub, 0755); err != nil {
			t.Fatalf("creating subdirectory: %v", err)
		}

		b := newGoGitTestBackend(sub)

		want, err := filepath.EvalSymlinks(dir)
		if err != nil {
			t.Fatalf("EvalSymlinks() error = %v", err)
		}
		got, err := filepath.EvalSymlinks(b.Root())
		if err != nil {
			t.Fatalf("EvalSymlinks(Root()) error = %v", err)
		}
		if got != want {
			t.Errorf("Root() = %q, want %q", got, want)
		}
	})

	t.Run("falls back to the configured directory outside a repository", func(t *testing.T) {
		dir := t.TempDir()
		b := newGoGitTestBackend(dir)

		abs, err := filepath.Abs(dir)
		if err != nil {
			t.Fatalf("filepath.Abs() error = %v", err)
		}
		if got := b.Root(); got != abs {
			t.Errorf("Root() = %q, want %q", got, abs)
		}
	})
}
