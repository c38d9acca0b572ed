package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"aw-go/internal/agent"
	"aw-go/internal/archive"
	"aw-go/internal/aw"
	"aw-go/internal/config"
	"aw-go/internal/database"
	"aw-go/internal/encryption"
	"aw-go/internal/fs"
	"aw-go/internal/git"
	"aw-go/internal/model"
	"aw-go/internal/runner"
	"aw-go/internal/staging"
)

// AWApp is the application layer between the CLI and AWService.
// It constructs all dependencies from config, exposes high-level operations
// for the commands to call, and manages the DB lifecycle on Close.
type AWApp struct {
	cfg     *config.Config
	db      aw.Database
	vcs     aw.VCS
	staging aw.StagingArea
	fsmgr   aw.FilesystemManager
	service *aw.AWService
	op      *Operation
	logFile *os.File
}

// NewAWApp creates a fully wired AWApp from the given config.
// workDir is the working tree the agent operates in. operation identifies
// the CLI command being run (e.g. "Run", "GetHistory"). The caller must
// call Close when done.
func NewAWApp(cfg *config.Config, workDir string, operation string) (*AWApp, error) {
	fsmgr := fs.NewOSFilesystemManager()
	cmdRunner := runner.OSRunner{}

	backend, err := git.NewBackendFromConfig(cfg.VCS, workDir, cmdRunner)
	if err != nil {
		return nil, fmt.Errorf("creating vcs backend: %w", err)
	}

	ag, err := agent.NewAgentFromConfig(cfg.Agent, cmdRunner)
	if err != nil {
		return nil, fmt.Errorf("creating agent: %w", err)
	}

	sa, err := staging.NewStagingAreaFromConfig(cfg.Staging)
	if err != nil {
		return nil, fmt.Errorf("creating staging area: %w", err)
	}

	arch, err := archive.NewArchiveFromConfig(cfg.Archive)
	if err != nil {
		return nil, fmt.Errorf("creating archive: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	matcher, err := fs.NewMatcherForRoot(backend.Root(), cfg.Detection.Ignore)
	if err != nil {
		return nil, fmt.Errorf("loading ignore patterns: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	op := NewOperation(operation, time.Now())
	logger, logFile, err := newLogger(cfg.LogDir, op.ID, parseLogLevel(cfg.LogLevel))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc := aw.NewAWService(db, backend, ag, arch, enc, sa, fsmgr, matcher,
		&slogAdapter{l: logger}, aw.RealClock{}, aw.UUIDGenerator{})

	return &AWApp{
		cfg:     cfg,
		db:      db,
		vcs:     backend,
		staging: sa,
		fsmgr:   fsmgr,
		service: svc,
		op:      op,
		logFile: logFile,
	}, nil
}

// Run invokes the agent with the given prompt and returns the run result
// document. The result is non-nil even when err is non-nil, so callers can
// render what was detected before reporting the fault.
func (a *AWApp) Run(ctx context.Context, prompt string, contextFiles []string, archiveRun bool) (*model.RunResult, error) {
	return a.service.Run(ctx, aw.RunRequest{
		Prompt:       prompt,
		ContextFiles: contextFiles,
		Archive:      archiveRun,
	})
}

// GetHistory returns the most recent recorded runs, newest first.
func (a *AWApp) GetHistory(limit int64) ([]*model.Run, error) {
	return a.service.GetHistory(limit)
}

// GetRun returns one recorded run, or nil when the ID is unknown.
func (a *AWApp) GetRun(id string) (*model.Run, error) {
	return a.service.GetRun(id)
}

// FileLog returns the recorded change log for one file across all runs.
func (a *AWApp) FileLog(filename string) ([]*model.FileLogRow, error) {
	return a.service.FileLog(filename)
}

// ShowReport returns the archived report document for one run.
func (a *AWApp) ShowReport(id string) ([]byte, error) {
	return a.service.ShowReport(id)
}

// Close closes the database and the log file.
func (a *AWApp) Close() error {
	var firstErr error

	if err := a.db.Close(); err != nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
