package agentkit

import "errors"

// Sentinel errors returned by the agent loop and registry operations.
var (
	ErrUnknownAgentType = errors.New("agentkit: unknown agent type")
	ErrUnknownTool      = errors.New("agentkit: unknown tool")
	ErrMaxTurns         = errors.New("agentkit: max turns reached")
	ErrBudgetExhausted  = errors.New("agentkit: budget exhausted")
	ErrModelProtocol    = errors.New("agentkit: invalid model response")
	ErrNoSessionStore   = errors.New("agentkit: no session store configured")
)
