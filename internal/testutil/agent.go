package testutil

import (
	"context"
	"encoding/json"

	"aw-go/internal/aw"
	"aw-go/internal/model"
)

// FakeAgent records the requests it receives and returns a canned result.
// OnRun, when set, runs before the result is returned; tests use it to
// mutate the fake VCS or filesystem mid-run.
type FakeAgent struct {
	Result   *aw.AgentResult
	Err      error
	OnRun    func(req aw.AgentRequest)
	Requests []aw.AgentRequest
}

func (a *FakeAgent) Run(_ context.Context, req aw.AgentRequest) (*aw.AgentResult, error) {
	a.Requests = append(a.Requests, req)
	if a.OnRun != nil {
		a.OnRun(req)
	}
	if a.Err != nil {
		return nil, a.Err
	}
	if a.Result != nil {
		return a.Result, nil
	}
	files := req.ContextFiles
	if files == nil {
		files = []string{}
	}
	return &aw.AgentResult{
		OverallStatus:        model.StatusSuccess,
		Events:               []json.RawMessage{},
		ReceivedContextFiles: files,
	}, nil
}

// Compile-time check
var _ aw.Agent = (*FakeAgent)(nil)
