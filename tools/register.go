package tools

import (
	"github.com/voidarchive/agentkit"
	"github.com/voidarchive/agentkit/subagent"
)

// builtinNames lists every tool this package can build, including Task.
var builtinNames = map[string]struct{}{
	"Bash":      {},
	"Read":      {},
	"Write":     {},
	"Edit":      {},
	"Glob":      {},
	"Grep":      {},
	"TodoWrite": {},
	"Task":      {},
}

// IsBuiltin reports whether name is a built-in tool.
func IsBuiltin(name string) bool {
	_, ok := builtinNames[name]
	return ok
}

// Install registers the named built-in tools on the agent. Stateful tools
// (TodoWrite) get a fresh instance per agent. Task is special: it is only
// registered when the agent sits below its depth bound, so an agent at the
// bound never sees a spawn capability at all.
func Install(a *agentkit.Agent, types *agentkit.TypeRegistry, names []string) {
	registry := a.Tools()

	for _, name := range names {
		switch name {
		case "Bash":
			agentkit.RegisterTool(registry, &BashTool{})
		case "Read":
			agentkit.RegisterTool(registry, &ReadTool{})
		case "Write":
			agentkit.RegisterTool(registry, &WriteTool{})
		case "Edit":
			agentkit.RegisterTool(registry, &EditTool{})
		case "Glob":
			agentkit.RegisterTool(registry, &GlobTool{})
		case "Grep":
			agentkit.RegisterTool(registry, &GrepTool{})
		case "TodoWrite":
			agentkit.RegisterTool(registry, NewTodoTool())
		case "Task":
			if a.Depth() < a.MaxDepth() {
				runner := subagent.NewRunner(a, types, childBuilder(types), IsBuiltin)
				agentkit.RegisterTool(registry, NewTaskTool(runner))
			}
		}
	}
}

// childBuilder returns the ToolBuilder used for spawned children: it
// installs the child's resolved tool set, recursing for the next depth.
func childBuilder(types *agentkit.TypeRegistry) subagent.ToolBuilder {
	return func(child *agentkit.Agent, toolNames []string) {
		Install(child, types, toolNames)
	}
}

// ForAgentType builds the options wiring an agent type preset: the type tag,
// its allowed tool set, and registration of those tools at init. For the
// custom type, tools names the explicit subset and is validated.
func ForAgentType(types *agentkit.TypeRegistry, t agentkit.AgentType, tools ...string) ([]agentkit.AgentOption, error) {
	names, err := types.ResolveTools(t, tools, IsBuiltin)
	if err != nil {
		return nil, err
	}

	return []agentkit.AgentOption{
		agentkit.WithAgentType(t),
		agentkit.WithAllowedTools(names...),
		agentkit.WithOnInit(func(a *agentkit.Agent) {
			Install(a, types, names)
		}),
	}, nil
}

// AllNames returns every built-in tool name in presentation order.
func AllNames() []string {
	return []string{"Bash", "Read", "Write", "Edit", "Glob", "Grep", "TodoWrite", "Task"}
}

// RegisterAll installs the full built-in tool set on an agent, Task
// included when depth allows.
func RegisterAll(a *agentkit.Agent, types *agentkit.TypeRegistry) {
	Install(a, types, AllNames())
}
