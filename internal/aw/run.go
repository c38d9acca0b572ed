package aw

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"aw-go/internal/model"
)

// RunRequest carries everything one run needs from the caller.
type RunRequest struct {
	Prompt       string
	ContextFiles []string
	// Archive uploads the run report to the configured archive after
	// detection completes.
	Archive bool
}

// Run executes the full pipeline: snapshot, agent invocation, second
// snapshot, change detection, persistence and optional archival. A
// result document is returned even when the run fails; the error return
// is non-nil only for faults the caller should treat as its own failure,
// a dead backend or a recording problem. An agent that fails is reported
// inside the result, not as an error here, because detection over its
// partial work is still wanted.
func (s *AWService) Run(ctx context.Context, req RunRequest) (*model.RunResult, error) {
	runID := s.idgen.NewID()
	started := s.clock.Now()
	s.logger.Info("run started", "run_id", runID)
	s.checkContextFiles(req.ContextFiles)

	result, records, runErr := s.detect(ctx, req)
	finished := s.clock.Now()

	statusMsg := ""
	if runErr == nil {
		statusMsg = statusMessage(len(records))
	}

	run := &model.Run{
		ID:             runID,
		CreatedAt:      started,
		Prompt:         req.Prompt,
		OverallStatus:  result.OverallStatus,
		Error:          result.Error,
		StatusMessage:  statusMsg,
		ContextFiles:   req.ContextFiles,
		DurationMillis: finished.Sub(started).Milliseconds(),
		ChangeCount:    int64(len(records)),
	}
	changes := make([]model.FileChange, 0, len(records))
	for _, rec := range records {
		changes = append(changes, model.FileChange{
			RunID:      runID,
			Filename:   rec.Filename,
			ChangeType: rec.Type,
			HasContent: rec.Content != nil,
			HasDiff:    rec.Diff != nil,
		})
	}
	if err := s.database.InsertRun(run, changes); err != nil {
		// The result has already been built; it is still handed to the
		// caller alongside the recording fault.
		err = fmt.Errorf("recording run: %w", err)
		s.logger.Error("recording run failed", "run_id", runID, "err", err)
		if runErr == nil {
			runErr = err
		}
	}

	if req.Archive {
		if err := s.archiveRun(runID, result, records); err != nil {
			s.logger.Error("archiving run failed", "run_id", runID, "err", err)
			if runErr == nil {
				runErr = err
			}
		}
	}

	s.logger.Info("run finished",
		"run_id", runID,
		"status", result.OverallStatus,
		"changes", len(records),
		"duration_ms", run.DurationMillis)
	return result, runErr
}

// detect runs both snapshots around the agent and assembles the change
// records. The returned error marks a fatal detection fault; agent
// trouble is absorbed into the result instead.
func (s *AWService) detect(ctx context.Context, req RunRequest) (*model.RunResult, []model.ChangeRecord, error) {
	result := &model.RunResult{
		OverallStatus:        model.StatusSuccess,
		Events:               []json.RawMessage{},
		ReceivedContextFiles: emptyIfNil(req.ContextFiles),
	}

	before, err := s.captureSnapshot(ctx)
	if err != nil {
		return s.failRun(result, err), nil, err
	}

	agentRes, agentErr := s.agent.Run(ctx, AgentRequest{
		Prompt:       req.Prompt,
		ContextFiles: req.ContextFiles,
		Dir:          s.vcs.Root(),
	})
	switch {
	case agentErr != nil:
		s.logger.Warn("agent invocation failed", "err", agentErr)
		s.markFailure(result, agentErr.Error())
	case agentRes != nil:
		result.Events = append(result.Events, agentRes.Events...)
		if len(agentRes.ReceivedContextFiles) > 0 {
			result.ReceivedContextFiles = agentRes.ReceivedContextFiles
		}
		if agentRes.OverallStatus != model.StatusSuccess {
			s.logger.Warn("agent reported failure",
				"status", agentRes.OverallStatus, "err", agentRes.Error)
			s.markFailure(result, agentFailureMessage(agentRes))
		}
	}

	after, err := s.captureSnapshot(ctx)
	if err != nil {
		return s.failRun(result, err), nil, err
	}

	appeared, vanished := diffSnapshots(before, after)
	records := s.assembleChangeSet(ctx, appeared, vanished)
	for _, rec := range records {
		s.appendEvent(result, model.NewFileChangeEvent(rec))
	}
	s.appendEvent(result, model.StatusMessageEvent{
		Type:    model.EventStatusMessage,
		Content: statusMessage(len(records)),
	})
	return result, records, nil
}

// markFailure flips the result to failure. The first recorded fault
// stays the headline error.
func (s *AWService) markFailure(result *model.RunResult, msg string) {
	result.OverallStatus = model.StatusFailure
	if result.Error == nil {
		result.Error = &msg
	}
}

// failRun shapes the result for a fatal fault: failure status, the fault
// as error, and no events. Partial detection output is never emitted.
func (s *AWService) failRun(result *model.RunResult, err error) *model.RunResult {
	s.markFailure(result, err.Error())
	result.Events = []json.RawMessage{}
	return result
}

func (s *AWService) appendEvent(result *model.RunResult, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("encoding event failed", "err", err)
		return
	}
	result.Events = append(result.Events, data)
}

// checkContextFiles warns about context files the agent will not find.
// Missing files are the user's most common run mistake and the agent's
// own report of them is easy to overlook.
func (s *AWService) checkContextFiles(files []string) {
	for _, f := range files {
		p := f
		if !filepath.IsAbs(p) {
			p = filepath.Join(s.vcs.Root(), p)
		}
		if exists, err := s.fsmgr.Exists(p); err == nil && !exists {
			s.logger.Warn("context file not found", "path", f)
		}
	}
}

func agentFailureMessage(res *AgentResult) string {
	if res.Error != nil && *res.Error != "" {
		return fmt.Sprintf("agent reported %s: %s", res.OverallStatus, *res.Error)
	}
	return fmt.Sprintf("agent reported %s", res.OverallStatus)
}

func statusMessage(count int) string {
	return fmt.Sprintf("%d file change(s) detected", count)
}

func emptyIfNil(files []string) []string {
	if files == nil {
		return []string{}
	}
	return files
}
