package aw

import (
	"context"
	"encoding/json"
)

// AgentRequest carries the inputs for one agent invocation.
type AgentRequest struct {
	Prompt       string
	ContextFiles []string
	// Dir is the working tree the agent operates in.
	Dir string
}

// AgentResult is the result document an agent reports when it finishes.
// Events stay raw so event kinds this program does not know about pass
// through to the run result untouched.
type AgentResult struct {
	OverallStatus        string            `json:"overall_status"`
	Error                *string           `json:"error"`
	Events               []json.RawMessage `json:"events"`
	ReceivedContextFiles []string          `json:"received_context_files"`
}

// Agent runs an external code-modification agent against a working tree.
// The agent is a black box: it may create, edit, rename or delete files
// under the request dir. What actually changed is established by the
// engine's own snapshots, never by trusting the agent's report.
type Agent interface {
	Run(ctx context.Context, req AgentRequest) (*AgentResult, error)
}
