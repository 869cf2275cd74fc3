// Package permission decides which tools an agent may invoke. A Policy is
// built once from the agent type's tool list and consulted before every tool
// call, so a denied tool never runs.
package permission

import (
	"fmt"
	"sort"
)

// Policy is an allowlist of tool names for one agent. The zero value denies
// everything; use NewPolicy or AllowAll.
type Policy struct {
	agentType string
	allowed   map[string]struct{}
	allowAll  bool
}

// NewPolicy builds a policy permitting exactly the named tools.
func NewPolicy(agentType string, tools []string) *Policy {
	allowed := make(map[string]struct{}, len(tools))
	for _, name := range tools {
		allowed[name] = struct{}{}
	}
	return &Policy{agentType: agentType, allowed: allowed}
}

// AllowAll builds a policy that permits every tool.
func AllowAll() *Policy {
	return &Policy{allowAll: true}
}

// Allows reports whether the named tool is permitted.
func (p *Policy) Allows(toolName string) bool {
	if p.allowAll {
		return true
	}
	_, ok := p.allowed[toolName]
	return ok
}

// Check returns nil when the tool is permitted, or a descriptive error naming
// the tool and the agent type otherwise. The error text is written to be
// shown back to the model as a tool result.
func (p *Policy) Check(toolName string) error {
	if p.Allows(toolName) {
		return nil
	}
	if p.agentType != "" {
		return fmt.Errorf("tool %q is not permitted for agent type %q (allowed: %v)",
			toolName, p.agentType, p.Tools())
	}
	return fmt.Errorf("tool %q is not permitted", toolName)
}

// Tools returns the sorted list of permitted tool names.
func (p *Policy) Tools() []string {
	names := make([]string, 0, len(p.allowed))
	for name := range p.allowed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
