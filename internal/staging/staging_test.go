package staging

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"aw-go/internal/aw"
)

// areaImpl builds a staging area for each store so the shared bundle
// behavior runs against both.
type areaImpl struct {
	name    string
	newArea func(t *testing.T, maxSize int64) aw.StagingArea
}

func areaImpls() []areaImpl {
	return []areaImpl{
		{
			name: "memory",
			newArea: func(t *testing.T, maxSize int64) aw.StagingArea {
				t.Helper()
				return NewMemoryStagingArea(maxSize)
			},
		},
		{
			name: "filesystem",
			newArea: func(t *testing.T, maxSize int64) aw.StagingArea {
				t.Helper()
				area, err := NewFileSystemStagingArea(t.TempDir(), maxSize)
				if err != nil {
					t.Fatalf("NewFileSystemStagingArea() error = %v", err)
				}
				return area
			},
		},
	}
}

func addBlob(t *testing.T, b aw.StagedBundle, name, content string) {
	t.Helper()
	if err := b.Add(name, strings.NewReader(content)); err != nil {
		t.Fatalf("Add(%q) error = %v", name, err)
	}
}

func readBlob(t *testing.T, b aw.StagedBundle, name string) string {
	t.Helper()
	rc, err := b.Open(name)
	if err != nil {
		t.Fatalf("Open(%q) error = %v", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("reading blob %q: %v", name, err)
	}
	return string(data)
}

func TestBundleArea_Begin(t *testing.T) {
	for _, impl := range areaImpls() {
		t.Run(impl.name, func(t *testing.T) {
			t.Run("opens an empty bundle", func(t *testing.T) {
				area := impl.newArea(t, DefaultMaxSize)
				b, err := area.Begin("run-1")
				if err != nil {
					t.Fatalf("Begin() error = %v", err)
				}
				if got := b.Names(); len(got) != 0 {
					t.Errorf("Names() = %v, want empty", got)
				}
				if got := b.Size(); got != 0 {
					t.Errorf("Size() = %d, want 0", got)
				}
			})

			t.Run("rejects empty id", func(t *testing.T) {
				area := impl.newArea(t, DefaultMaxSize)
				if _, err := area.Begin(""); err == nil {
					t.Error("Begin(\"\") expected error")
				}
			})

			t.Run("rejects path separators in id", func(t *testing.T) {
				area := impl.newArea(t, DefaultMaxSize)
				for _, id := range []string{"a/b", `a\b`, "../escape"} {
					if _, err := area.Begin(id); err == nil {
						t.Errorf("Begin(%q) expected error", id)
					}
				}
			})

			t.Run("rejects duplicate id", func(t *testing.T) {
				area := impl.newArea(t, DefaultMaxSize)
				if _, err := area.Begin("run-1"); err != nil {
					t.Fatalf("first Begin() error = %v", err)
				}
				_, err := area.Begin("run-1")
				if err == nil {
					t.Fatal("second Begin() expected error")
				}
				if !strings.Contains(err.Error(), "already exists") {
					t.Errorf("error = %v, want 'already exists'", err)
				}
			})
		})
	}
}

func TestBundle_AddOpen(t *testing.T) {
	for _, impl := range areaImpls() {
		t.Run(impl.name, func(t *testing.T) {
			t.Run("round-trips a blob", func(t *testing.T) {
				area := impl.newArea(t, DefaultMaxSize)
				b, _ := area.Begin("run-1")
				addBlob(t, b, "report.json", `{"ok":true}`)

				if got := readBlob(t, b, "report.json"); got != `{"ok":true}` {
					t.Errorf("Open() content = %q, want %q", got, `{"ok":true}`)
				}
			})

			t.Run("nested names become paths", func(t *testing.T) {
				area := impl.newArea(t, DefaultMaxSize)
				b, _ := area.Begin("run-1")
				addBlob(t, b, "diffs/cmd/main.go.diff", "--- a\n+++ b\n")

				if got := readBlob(t, b, "diffs/cmd/main.go.diff"); got != "--- a\n+++ b\n" {
					t.Errorf("Open() content = %q", got)
				}
			})

			t.Run("names keep insertion order", func(t *testing.T) {
				area := impl.newArea(t, DefaultMaxSize)
				b, _ := area.Begin("run-1")
				addBlob(t, b, "b.txt", "2")
				addBlob(t, b, "a.txt", "1")
				addBlob(t, b, "c.txt", "3")

				want := []string{"b.txt", "a.txt", "c.txt"}
				if got := b.Names(); !reflect.DeepEqual(got, want) {
					t.Errorf("Names() = %v, want %v", got, want)
				}
			})

			t.Run("size sums staged bytes", func(t *testing.T) {
				area := impl.newArea(t, DefaultMaxSize)
				b, _ := area.Begin("run-1")
				addBlob(t, b, "a.txt", "12345")
				addBlob(t, b, "b.txt", "678")

				if got := b.Size(); got != 8 {
					t.Errorf("Size() = %d, want 8", got)
				}
			})

			t.Run("rejects duplicate names", func(t *testing.T) {
				area := impl.newArea(t, DefaultMaxSize)
				b, _ := area.Begin("run-1")
				addBlob(t, b, "report.json", "first")

				err := b.Add("report.json", strings.NewReader("second"))
				if err == nil {
					t.Fatal("duplicate Add() expected error")
				}
				if !strings.Contains(err.Error(), "already staged") {
					t.Errorf("error = %v, want 'already staged'", err)
				}
				if got := readBlob(t, b, "report.json"); got != "first" {
					t.Errorf("blob content = %q, want original %q", got, "first")
				}
			})

			t.Run("rejects unsafe names", func(t *testing.T) {
				area := impl.newArea(t, DefaultMaxSize)
				b, _ := area.Begin("run-1")
				for _, name := range []string{"", "/etc/passwd", "../escape", "a/../b", "a//b", "a/./b"} {
					if err := b.Add(name, strings.NewReader("x")); err == nil {
						t.Errorf("Add(%q) expected error", name)
					}
				}
			})

			t.Run("open of unstaged name fails", func(t *testing.T) {
				area := impl.newArea(t, DefaultMaxSize)
				b, _ := area.Begin("run-1")
				if _, err := b.Open("missing.txt"); err == nil {
					t.Error("Open() expected error for unstaged blob")
				}
			})
		})
	}
}

func TestBundle_SizeLimit(t *testing.T) {
	for _, impl := range areaImpls() {
		t.Run(impl.name, func(t *testing.T) {
			t.Run("exact fit is accepted", func(t *testing.T) {
				area := impl.newArea(t, 10)
				b, _ := area.Begin("run-1")
				addBlob(t, b, "a.txt", "0123456789")

				if got := b.Size(); got != 10 {
					t.Errorf("Size() = %d, want 10", got)
				}
			})

			t.Run("full bundle rejects further blobs", func(t *testing.T) {
				area := impl.newArea(t, 10)
				b, _ := area.Begin("run-1")
				addBlob(t, b, "a.txt", "0123456789")

				err := b.Add("b.txt", strings.NewReader("x"))
				if err == nil {
					t.Fatal("Add() on full bundle expected error")
				}
				if !strings.Contains(err.Error(), "full") {
					t.Errorf("error = %v, want 'full'", err)
				}
			})

			t.Run("oversize blob is rejected and cleaned up", func(t *testing.T) {
				area := impl.newArea(t, 10)
				b, _ := area.Begin("run-1")

				err := b.Add("big.txt", strings.NewReader("01234567890"))
				if err == nil {
					t.Fatal("oversize Add() expected error")
				}
				if !strings.Contains(err.Error(), "exceeds bundle max size") {
					t.Errorf("error = %v, want 'exceeds bundle max size'", err)
				}
				if got := b.Size(); got != 0 {
					t.Errorf("Size() after rejected blob = %d, want 0", got)
				}
				if _, err := b.Open("big.txt"); err == nil {
					t.Error("Open() of rejected blob expected error")
				}

				// The name is free again once the oversize attempt is
				// rolled back.
				addBlob(t, b, "big.txt", "small")
				if got := readBlob(t, b, "big.txt"); got != "small" {
					t.Errorf("retry content = %q, want %q", got, "small")
				}
			})
		})
	}
}

func TestBundle_Discard(t *testing.T) {
	for _, impl := range areaImpls() {
		t.Run(impl.name, func(t *testing.T) {
			area := impl.newArea(t, DefaultMaxSize)
			b, _ := area.Begin("run-1")
			addBlob(t, b, "report.json", "data")

			if err := b.Discard(); err != nil {
				t.Fatalf("Discard() error = %v", err)
			}

			if err := b.Add("late.txt", strings.NewReader("x")); err == nil {
				t.Error("Add() after Discard() expected error")
			}
			if _, err := b.Open("report.json"); err == nil {
				t.Error("Open() after Discard() expected error")
			}

			// Discarding twice is harmless.
			if err := b.Discard(); err != nil {
				t.Errorf("second Discard() error = %v", err)
			}
		})
	}
}

func TestFileStore_Layout(t *testing.T) {
	root := t.TempDir()
	area, err := NewFileSystemStagingArea(root, DefaultMaxSize)
	if err != nil {
		t.Fatalf("NewFileSystemStagingArea() error = %v", err)
	}

	b, err := area.Begin("run-1")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	addBlob(t, b, "diffs/main.go.diff", "diff body")

	t.Run("blobs land under root/bundle", func(t *testing.T) {
		path := filepath.Join(root, "run-1", "diffs", "main.go.diff")
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading staged blob: %v", err)
		}
		if string(data) != "diff body" {
			t.Errorf("blob content = %q, want %q", data, "diff body")
		}
	})

	t.Run("no temp files left behind", func(t *testing.T) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if strings.HasPrefix(d.Name(), ".tmp-") {
				t.Errorf("temp file left behind: %s", path)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("walking staging root: %v", err)
		}
	})

	t.Run("discard removes the bundle directory", func(t *testing.T) {
		if err := b.Discard(); err != nil {
			t.Fatalf("Discard() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(root, "run-1")); !os.IsNotExist(err) {
			t.Errorf("bundle directory still present after Discard(), stat err = %v", err)
		}
	})
}

func TestStagedContentSurvivesSourceChange(t *testing.T) {
	// Staged bytes are a copy, not a reference to the caller's buffer.
	area := NewMemoryStagingArea(DefaultMaxSize)
	b, _ := area.Begin("run-1")

	src := bytes.NewBufferString("original")
	if err := b.Add("file.txt", src); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	src.Reset()
	src.WriteString("mutated")

	if got := readBlob(t, b, "file.txt"); got != "original" {
		t.Errorf("blob content = %q, want %q", got, "original")
	}
}
