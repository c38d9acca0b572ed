package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"aw-go/internal/aw"
	"aw-go/internal/config"
	"aw-go/internal/model"
)

// Step operations a test agent script may use.
const (
	StepWrite  = "write"
	StepAppend = "append"
	StepDelete = "delete"
	StepRename = "rename"
)

// TestAgent applies a scripted list of file mutations to the working
// tree and reports a canned successful result. Wired through the factory
// as type "test" so the full pipeline can run without a real agent.
type TestAgent struct {
	steps []config.TestAgentStep
}

// Compile-time check that TestAgent implements the Agent interface.
var _ aw.Agent = (*TestAgent)(nil)

func NewTestAgent(steps []config.TestAgentStep) *TestAgent {
	return &TestAgent{steps: append([]config.TestAgentStep{}, steps...)}
}

func (a *TestAgent) Run(ctx context.Context, req aw.AgentRequest) (*aw.AgentResult, error) {
	for i, step := range a.steps {
		if err := applyStep(req.Dir, step); err != nil {
			return nil, fmt.Errorf("applying step %d (%s %s): %w", i+1, step.Op, step.Path, err)
		}
	}

	msg, err := json.Marshal(model.TextResponseEvent{
		Type:    model.EventTextResponse,
		Content: fmt.Sprintf("applied %d scripted step(s) for prompt: %s", len(a.steps), req.Prompt),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding agent event: %w", err)
	}
	files := req.ContextFiles
	if files == nil {
		files = []string{}
	}
	return &aw.AgentResult{
		OverallStatus:        model.StatusSuccess,
		Events:               []json.RawMessage{msg},
		ReceivedContextFiles: files,
	}, nil
}

func applyStep(dir string, step config.TestAgentStep) error {
	if step.Path == "" {
		return fmt.Errorf("step has no path")
	}
	target := filepath.Join(dir, step.Path)
	switch step.Op {
	case StepWrite:
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		return os.WriteFile(target, []byte(step.Content), 0644)
	case StepAppend:
		f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		if _, err := f.Write([]byte(step.Content)); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	case StepDelete:
		return os.Remove(target)
	case StepRename:
		if step.To == "" {
			return fmt.Errorf("rename step has no destination")
		}
		dest := filepath.Join(dir, step.To)
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		return os.Rename(target, dest)
	default:
		return fmt.Errorf("unknown step op: %s", step.Op)
	}
}
