// Package agent provides the code-modification agent adapters: a CLI
// adapter driving an external command and a scripted test agent.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"aw-go/internal/aw"
	"aw-go/internal/config"
	"aw-go/internal/runner"
)

// CLIAgent invokes an external agent command. The agent receives the
// prompt and context files as flags, works inside the request directory,
// and prints a single JSON result document to stdout. A non-zero exit is
// an invocation failure; whatever the process wrote to stdout is not
// trusted in that case.
type CLIAgent struct {
	command string
	args    []string
	env     []string
	timeout time.Duration
	runner  runner.Runner
}

// Compile-time check that CLIAgent implements the Agent interface.
var _ aw.Agent = (*CLIAgent)(nil)

func NewCLIAgent(cfg config.AgentConfig, r runner.Runner) (*CLIAgent, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("agent command is required")
	}
	return &CLIAgent{
		command: cfg.Command,
		args:    append([]string{}, cfg.Args...),
		env:     flattenEnv(cfg.Env),
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		runner:  r,
	}, nil
}

func (a *CLIAgent) Run(ctx context.Context, req aw.AgentRequest) (*aw.AgentResult, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	args := append([]string{}, a.args...)
	args = append(args, "--prompt", req.Prompt)
	for _, f := range req.ContextFiles {
		args = append(args, "--context-file", f)
	}

	res, err := a.runner.Run(ctx, runner.Command{
		Name: a.command,
		Args: args,
		Dir:  req.Dir,
		Env:  a.env,
	})
	if err != nil {
		return nil, fmt.Errorf("running agent %s: %w", a.command, err)
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("agent %s exited %d: %s", a.command, res.ExitCode, stderrTail(res.Stderr))
	}

	var result aw.AgentResult
	if err := json.Unmarshal(bytes.TrimSpace(res.Stdout), &result); err != nil {
		return nil, fmt.Errorf("parsing agent result: %w", err)
	}
	return &result, nil
}

// flattenEnv renders the configured environment map as KEY=value pairs
// in a stable order.
func flattenEnv(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+env[k])
	}
	return pairs
}

// stderrTail keeps error messages readable when the agent dumps a long
// trace before dying.
func stderrTail(stderr []byte) string {
	s := strings.TrimSpace(string(stderr))
	if s == "" {
		return "(no stderr output)"
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, "\n")
}
