package agent

import (
	"fmt"

	"aw-go/internal/aw"
	"aw-go/internal/config"
	"aw-go/internal/runner"
)

// NewAgentFromConfig creates the agent described by the configuration.
func NewAgentFromConfig(cfg config.AgentConfig, r runner.Runner) (aw.Agent, error) {
	switch cfg.Type {
	case "cli", "":
		return NewCLIAgent(cfg, r)
	case "test":
		return NewTestAgent(cfg.Steps), nil
	default:
		return nil, fmt.Errorf("unknown agent type: %s", cfg.Type)
	}
}
