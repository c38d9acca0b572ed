package git

import (
	"context"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"aw-go/internal/aw"
	"aw-go/internal/model"
)

// GoGitBackend reads repository status in-process with go-git, with no
// git binary involved. Diffs are delegated to an exec backend because
// go-git has no equivalent of a pathspec-limited worktree diff.
type GoGitBackend struct {
	dir  string
	root string
	diff *ExecBackend
}

// Compile-time check that GoGitBackend implements the VCS interface.
var _ aw.VCS = (*GoGitBackend)(nil)

func NewGoGitBackend(dir string, diff *ExecBackend) *GoGitBackend {
	b := &GoGitBackend{dir: dir, diff: diff}
	b.root = b.resolveRoot()
	return b
}

func (b *GoGitBackend) resolveRoot() string {
	if wt, err := b.worktree(); err == nil {
		return wt.Filesystem.Root()
	}
	abs, err := filepath.Abs(b.dir)
	if err != nil {
		return b.dir
	}
	return abs
}

// worktree opens the repository fresh so every status query sees the
// current on-disk state.
func (b *GoGitBackend) worktree() (*gogit.Worktree, error) {
	repo, err := gogit.PlainOpenWithOptions(b.dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	return repo.Worktree()
}

func (b *GoGitBackend) Status(ctx context.Context) ([]model.StatusEntry, error) {
	wt, err := b.worktree()
	if err != nil {
		return nil, &aw.BackendUnavailableError{Dir: b.dir, Err: err}
	}
	status, err := wt.Status()
	if err != nil {
		return nil, &aw.BackendUnavailableError{Dir: b.dir, Err: err}
	}

	// Sorted iteration keeps repeated captures byte-stable, which the
	// snapshot comparison itself does not need but logs benefit from.
	paths := make([]string, 0, len(status))
	for p := range status {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var entries []model.StatusEntry
	for _, p := range paths {
		fst := status[p]
		code := statusToken(fst)
		if code == "" {
			continue
		}
		entries = append(entries, model.StatusEntry{Code: code, Path: statusPath(fst, p)})
	}
	return entries, nil
}

func (b *GoGitBackend) Diff(ctx context.Context, reference, path string) (string, error) {
	return b.diff.Diff(ctx, reference, path)
}

func (b *GoGitBackend) Root() string {
	return b.root
}

// statusToken renders a go-git file status as the token an exec backend
// would produce: index code then worktree code, surrounding blanks
// dropped. A clean file yields the empty token.
func statusToken(fst *gogit.FileStatus) string {
	pair := string(rune(fst.Staging)) + string(rune(fst.Worktree))
	return strings.TrimSpace(pair)
}

// statusPath renders the raw path the way the git binary would, joining
// renames into the "old -> new" form and quoting each side when it
// contains characters porcelain output escapes.
func statusPath(fst *gogit.FileStatus, path string) string {
	if fst.Staging == gogit.Renamed && fst.Extra != "" {
		return quotePorcelainPath(fst.Extra) + renamedPathSeparator + quotePorcelainPath(path)
	}
	return quotePorcelainPath(path)
}

// quotePorcelainPath wraps a path in double quotes when it contains a
// space, quote, backslash, or control character, matching the git
// binary's porcelain escaping for such paths.
func quotePorcelainPath(path string) string {
	if !strings.ContainsAny(path, " \"\\") && !strings.ContainsFunc(path, func(r rune) bool { return r < 0x20 }) {
		return path
	}
	return strconv.Quote(path)
}

const renamedPathSeparator = " -> "
