// Package git provides the version control backends used for change
// detection: one shelling out to the git binary and one reading the
// repository with go-git.
package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"aw-go/internal/aw"
	"aw-go/internal/model"
	"aw-go/internal/runner"
)

// DefaultGitBinary is used when the configuration names no binary.
const DefaultGitBinary = "git"

// ExecBackend drives the git binary through a runner. Construction never
// fails: a directory that is not a repository surfaces as a backend
// unavailable error on the first status query, which is where the
// engine expects it.
type ExecBackend struct {
	dir    string
	root   string
	binary string
	runner runner.Runner
}

// Compile-time check that ExecBackend implements the VCS interface.
var _ aw.VCS = (*ExecBackend)(nil)

func NewExecBackend(dir, binary string, r runner.Runner) *ExecBackend {
	if binary == "" {
		binary = DefaultGitBinary
	}
	b := &ExecBackend{dir: dir, binary: binary, runner: r}
	b.root = b.resolveRoot()
	return b
}

// resolveRoot asks git for the working tree top level. When that fails
// the backend falls back to the configured directory; the subsequent
// status query reports the real problem.
func (b *ExecBackend) resolveRoot() string {
	res, err := b.runner.Run(context.Background(), runner.Command{
		Name: b.binary,
		Args: []string{"rev-parse", "--show-toplevel"},
		Dir:  b.dir,
	})
	if err == nil && res.ExitCode == 0 {
		if root := strings.TrimSpace(string(res.Stdout)); root != "" {
			return root
		}
	}
	abs, err := filepath.Abs(b.dir)
	if err != nil {
		return b.dir
	}
	return abs
}

func (b *ExecBackend) Status(ctx context.Context) ([]model.StatusEntry, error) {
	res, err := b.runner.Run(ctx, runner.Command{
		Name: b.binary,
		Args: []string{"status", "--porcelain"},
		Dir:  b.dir,
	})
	if err != nil {
		return nil, &aw.BackendUnavailableError{Dir: b.dir, Err: err}
	}
	if res.ExitCode != 0 {
		return nil, &aw.BackendUnavailableError{
			Dir: b.dir,
			Err: fmt.Errorf("git status exited %d: %s", res.ExitCode, strings.TrimSpace(string(res.Stderr))),
		}
	}
	return ParsePorcelain(string(res.Stdout)), nil
}

func (b *ExecBackend) Diff(ctx context.Context, reference, path string) (string, error) {
	res, err := b.runner.Run(ctx, runner.Command{
		Name: b.binary,
		Args: []string{"diff", reference, "--", path},
		Dir:  b.dir,
	})
	if err != nil {
		return "", fmt.Errorf("running git diff: %w", err)
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("git diff against %s exited %d: %s",
			reference, res.ExitCode, strings.TrimSpace(string(res.Stderr)))
	}
	return string(res.Stdout), nil
}

func (b *ExecBackend) Root() string {
	return b.root
}

// ParsePorcelain parses `git status --porcelain` output into status
// entries. Each line splits into a status token and the raw path
// remainder; lines without both parts are dropped.
func ParsePorcelain(out string) []model.StatusEntry {
	var entries []model.StatusEntry
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		code, path, ok := splitStatusLine(line)
		if !ok {
			continue
		}
		entries = append(entries, model.StatusEntry{Code: code, Path: path})
	}
	return entries
}

// splitStatusLine divides a status line into its first whitespace
// delimited token and the rest of the line with leading whitespace
// removed. Both parts must be non-empty for the line to count.
func splitStatusLine(line string) (code, path string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	i := strings.IndexAny(trimmed, " \t")
	if i < 0 {
		return "", "", false
	}
	code = trimmed[:i]
	path = strings.TrimLeft(trimmed[i:], " \t")
	if code == "" || path == "" {
		return "", "", false
	}
	return code, path, true
}
