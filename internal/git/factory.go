package git

import (
	"fmt"

	"aw-go/internal/aw"
	"aw-go/internal/config"
	"aw-go/internal/runner"
)

// NewBackendFromConfig creates the VCS backend for a working directory
// based on the configuration.
func NewBackendFromConfig(cfg config.VCSConfig, dir string, r runner.Runner) (aw.VCS, error) {
	switch cfg.Type {
	case "exec", "":
		return NewExecBackend(dir, cfg.GitBinary, r), nil
	case "gogit":
		// go-git handles status; the exec backend underneath serves diffs.
		return NewGoGitBackend(dir, NewExecBackend(dir, cfg.GitBinary, r)), nil
	default:
		return nil, fmt.Errorf("unknown vcs type: %s", cfg.Type)
	}
}
