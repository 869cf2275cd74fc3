package agentkit

import (
	"fmt"
	"sort"
)

// AgentType names a preset restricting which tools a loop instance may use.
type AgentType string

// Recognized agent types.
const (
	AgentExplore AgentType = "explore"
	AgentCode    AgentType = "code"
	AgentPlan    AgentType = "plan"
	AgentCustom  AgentType = "custom"
)

// TypeConfig describes one agent type: its permitted tools, in the order they
// are presented to the model, and a human-readable description.
type TypeConfig struct {
	Description string
	Tools       []string
}

// TypeRegistry maps agent types to their tool presets. It is constructed once
// at process start and passed into the subagent runner; it is not mutated
// while loops are running.
type TypeRegistry struct {
	types map[AgentType]TypeConfig
}

// NewTypeRegistry returns a registry populated with the built-in presets.
//
//	explore — read-only tools, for investigating a codebase
//	plan    — read-only tools, for producing a design without modifying anything
//	code    — full read/write/execute tools plus the Task spawn tool
//	custom  — caller-specified tool subset
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		types: map[AgentType]TypeConfig{
			AgentExplore: {
				Description: "Read-only exploration agent",
				Tools:       []string{"Read", "Glob", "Grep"},
			},
			AgentPlan: {
				Description: "Design agent without modifying capabilities",
				Tools:       []string{"Read", "Glob", "Grep"},
			},
			AgentCode: {
				Description: "Full implementation access agent",
				Tools:       []string{"Bash", "Read", "Write", "Edit", "Glob", "Grep", "TodoWrite", "Task"},
			},
			AgentCustom: {
				Description: "Custom agent with caller-specified tools",
				Tools:       nil, // resolved per spawn from the request
			},
		},
	}
}

// Register adds or replaces an agent type preset.
func (r *TypeRegistry) Register(t AgentType, cfg TypeConfig) {
	r.types[t] = cfg
}

// Lookup returns the config for an agent type.
func (r *TypeRegistry) Lookup(t AgentType) (TypeConfig, bool) {
	cfg, ok := r.types[t]
	return cfg, ok
}

// Types returns the registered agent type names, sorted.
func (r *TypeRegistry) Types() []AgentType {
	names := make([]AgentType, 0, len(r.types))
	for t := range r.types {
		names = append(names, t)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// ResolveTools returns the permitted tool names for a spawn request. For the
// custom type the requested subset is validated against known; every name
// must refer to a tool the process actually has. For preset types the
// requested list is ignored.
func (r *TypeRegistry) ResolveTools(t AgentType, requested []string, known func(string) bool) ([]string, error) {
	cfg, ok := r.types[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAgentType, t)
	}

	if t != AgentCustom {
		out := make([]string, len(cfg.Tools))
		copy(out, cfg.Tools)
		return out, nil
	}

	if len(requested) == 0 {
		return nil, fmt.Errorf("agent type %q requires an explicit tool list", t)
	}
	for _, name := range requested {
		if !known(name) {
			return nil, fmt.Errorf("%w: %q requested for custom agent", ErrUnknownTool, name)
		}
	}
	out := make([]string, len(requested))
	copy(out, requested)
	return out, nil
}
