package agent

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aw-go/internal/aw"
	"aw-go/internal/config"
	"aw-go/internal/model"
)

func readTreeFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}

func TestTestAgent_Run(t *testing.T) {
	t.Run("write creates files and parent directories", func(t *testing.T) {
		dir := t.TempDir()
		a := NewTestAgent([]config.TestAgentStep{
			{Op: StepWrite, Path: "src/lib/util.go", Content: "package lib\n"},
		})

		if _, err := a.Run(context.Background(), aw.AgentRequest{Prompt: "p", Dir: dir}); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if got := readTreeFile(t, dir, "src/lib/util.go"); got != "package lib\n" {
			t.Errorf("file content = %q", got)
		}
	})

	t.Run("write truncates an existing file", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("old old old"), 0644); err != nil {
			t.Fatalf("seeding file: %v", err)
		}
		a := NewTestAgent([]config.TestAgentStep{
			{Op: StepWrite, Path: "a.txt", Content: "new"},
		})

		if _, err := a.Run(context.Background(), aw.AgentRequest{Dir: dir}); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if got := readTreeFile(t, dir, "a.txt"); got != "new" {
			t.Errorf("file content = %q, want truncated", got)
		}
	})

	t.Run("append extends and creates", func(t *testing.T) {
		dir := t.TempDir()
		a := NewTestAgent([]config.TestAgentStep{
			{Op: StepAppend, Path: "log.txt", Content: "one\n"},
			{Op: StepAppend, Path: "log.txt", Content: "two\n"},
		})

		if _, err := a.Run(context.Background(), aw.AgentRequest{Dir: dir}); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if got := readTreeFile(t, dir, "log.txt"); got != "one\ntwo\n" {
			t.Errorf("file content = %q", got)
		}
	})

	t.Run("delete removes a file", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "gone.txt"), []byte("x"), 0644); err != nil {
			t.Fatalf("seeding file: %v", err)
		}
		a := NewTestAgent([]config.TestAgentStep{{Op: StepDelete, Path: "gone.txt"}})

		if _, err := a.Run(context.Background(), aw.AgentRequest{Dir: dir}); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "gone.txt")); !os.IsNotExist(err) {
			t.Errorf("file still present after delete (err = %v)", err)
		}
	})

	t.Run("delete of a missing file fails with the step position", func(t *testing.T) {
		dir := t.TempDir()
		a := NewTestAgent([]config.TestAgentStep{
			{Op: StepWrite, Path: "ok.txt", Content: "x"},
			{Op: StepDelete, Path: "missing.txt"},
		})

		_, err := a.Run(context.Background(), aw.AgentRequest{Dir: dir})
		if err == nil {
			t.Fatal("Run() expected error")
		}
		if !strings.Contains(err.Error(), "step 2") {
			t.Errorf("error = %v, want step position", err)
		}
	})

	t.Run("rename moves a file", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "old.go"), []byte("content"), 0644); err != nil {
			t.Fatalf("seeding file: %v", err)
		}
		a := NewTestAgent([]config.TestAgentStep{
			{Op: StepRename, Path: "old.go", To: "pkg/new.go"},
		})

		if _, err := a.Run(context.Background(), aw.AgentRequest{Dir: dir}); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if got := readTreeFile(t, dir, "pkg/new.go"); got != "content" {
			t.Errorf("file content = %q", got)
		}
		if _, err := os.Stat(filepath.Join(dir, "old.go")); !os.IsNotExist(err) {
			t.Errorf("old path still present after rename (err = %v)", err)
		}
	})

	t.Run("rename requires a destination", func(t *testing.T) {
		dir := t.TempDir()
		a := NewTestAgent([]config.TestAgentStep{{Op: StepRename, Path: "old.go"}})

		if _, err := a.Run(context.Background(), aw.AgentRequest{Dir: dir}); err == nil {
			t.Fatal("Run() expected error")
		}
	})

	t.Run("unknown op fails", func(t *testing.T) {
		dir := t.TempDir()
		a := NewTestAgent([]config.TestAgentStep{{Op: "truncate", Path: "x.txt"}})

		if _, err := a.Run(context.Background(), aw.AgentRequest{Dir: dir}); err == nil {
			t.Fatal("Run() expected error")
		}
	})

	t.Run("step without a path fails", func(t *testing.T) {
		dir := t.TempDir()
		a := NewTestAgent([]config.TestAgentStep{{Op: StepWrite}})

		if _, err := a.Run(context.Background(), aw.AgentRequest{Dir: dir}); err == nil {
			t.Fatal("Run() expected error")
		}
	})

	t.Run("reports a successful result", func(t *testing.T) {
		dir := t.TempDir()
		a := NewTestAgent([]config.TestAgentStep{
			{Op: StepWrite, Path: "a.txt", Content: "x"},
			{Op: StepWrite, Path: "b.txt", Content: "y"},
		})

		res, err := a.Run(context.Background(), aw.AgentRequest{
			Prompt:       "make files",
			ContextFiles: []string{"notes.md"},
			Dir:          dir,
		})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if res.OverallStatus != model.StatusSuccess {
			t.Errorf("OverallStatus = %q, want success", res.OverallStatus)
		}
		if len(res.Events) != 1 {
			t.Fatalf("len(Events) = %d, want 1", len(res.Events))
		}
		var ev model.TextResponseEvent
		if err := json.Unmarshal(res.Events[0], &ev); err != nil {
			t.Fatalf("decoding event: %v", err)
		}
		if ev.Type != model.EventTextResponse {
			t.Errorf("event type = %q, want text_response", ev.Type)
		}
		if !strings.Contains(ev.Content, "2 scripted step(s)") {
			t.Errorf("event content = %q, want step count", ev.Content)
		}
		if len(res.ReceivedContextFiles) != 1 || res.ReceivedContextFiles[0] != "notes.md" {
			t.Errorf("ReceivedContextFiles = %v", res.ReceivedContextFiles)
		}
	})

	t.Run("nil context files echo as empty list", func(t *testing.T) {
		a := NewTestAgent(nil)
		res, err := a.Run(context.Background(), aw.AgentRequest{Dir: t.TempDir()})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if res.ReceivedContextFiles == nil {
			t.Error("ReceivedContextFiles = nil, want empty slice")
		}
		if len(res.ReceivedContextFiles) != 0 {
			t.Errorf("ReceivedContextFiles = %v, want empty", res.ReceivedContextFiles)
		}
	})
}
