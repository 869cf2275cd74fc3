package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/voidarchive/agentkit"
	"github.com/voidarchive/agentkit/subagent"
)

// TaskInput defines the input for the Task tool.
type TaskInput struct {
	AgentType string   `json:"agent_type" jsonschema:"required,description=Type of agent to spawn: explore, plan, code, or custom"`
	Task      string   `json:"task" jsonschema:"required,description=Short label for the delegated task"`
	Prompt    string   `json:"prompt" jsonschema:"required,description=Full instructions for the sub-agent"`
	Tools     []string `json:"tools,omitempty" jsonschema:"description=Explicit tool list, required for the custom agent type"`
}

// TaskTool spawns a sub-agent and blocks until it completes. Every failure
// mode (unknown type, bad tool list, depth bound, child run error) comes
// back as an error result the model can read and react to.
type TaskTool struct {
	runner *subagent.Runner
}

// NewTaskTool creates a TaskTool backed by the given Runner.
func NewTaskTool(runner *subagent.Runner) *TaskTool {
	return &TaskTool{runner: runner}
}

var _ agentkit.Tool[TaskInput] = (*TaskTool)(nil)

func (t *TaskTool) Name() string { return "Task" }

func (t *TaskTool) Description() string {
	types := t.runner.Types().Types()
	names := make([]string, len(types))
	for i, typ := range types {
		names[i] = string(typ)
	}
	return fmt.Sprintf("Spawn a sub-agent (%s) to perform a task and return its final report", strings.Join(names, ", "))
}

func (t *TaskTool) Execute(ctx context.Context, input TaskInput) (*agentkit.ToolResult, error) {
	if input.AgentType == "" {
		return agentkit.ErrorResult("agent_type is required"), nil
	}
	if input.Prompt == "" {
		return agentkit.ErrorResult("prompt is required"), nil
	}

	result, err := t.runner.Run(ctx, subagent.Request{
		AgentType: agentkit.AgentType(input.AgentType),
		Task:      input.Task,
		Prompt:    input.Prompt,
		Tools:     input.Tools,
	})
	if err != nil {
		return agentkit.ErrorResult(fmt.Sprintf("failed to spawn sub-agent: %s", err.Error())), nil
	}

	if result.Err != nil {
		return agentkit.ErrorResult(result.Err.Error()), nil
	}

	if result.Output == "" {
		return agentkit.TextResult("(sub-agent completed with no output)"), nil
	}

	return agentkit.TextResult(result.Output), nil
}
