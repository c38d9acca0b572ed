package testutil

import (
	"context"

	"aw-go/internal/runner"
)

// CannedResult is one queued FakeRunner response.
type CannedResult struct {
	Result runner.Result
	Err    error
}

// FakeRunner records every command it is asked to run and pops queued
// responses in order. An empty queue yields a zero Result: exit 0 with
// no output.
type FakeRunner struct {
	Commands []runner.Command
	queue    []CannedResult
}

func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// Queue appends one canned response.
func (r *FakeRunner) Queue(res runner.Result, err error) {
	r.queue = append(r.queue, CannedResult{Result: res, Err: err})
}

// QueueStdout appends a successful response with the given stdout.
func (r *FakeRunner) QueueStdout(stdout string) {
	r.Queue(runner.Result{Stdout: []byte(stdout)}, nil)
}

func (r *FakeRunner) Run(_ context.Context, cmd runner.Command) (runner.Result, error) {
	r.Commands = append(r.Commands, cmd)
	if len(r.queue) == 0 {
		return runner.Result{}, nil
	}
	head := r.queue[0]
	r.queue = r.queue[1:]
	return head.Result, head.Err
}

// LastCommand returns the most recent recorded command, or a zero value
// when nothing ran.
func (r *FakeRunner) LastCommand() runner.Command {
	if len(r.Commands) == 0 {
		return runner.Command{}
	}
	return r.Commands[len(r.Commands)-1]
}

// Compile-time check
var _ runner.Runner = (*FakeRunner)(nil)
