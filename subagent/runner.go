// Package subagent spawns child agent loops on behalf of a parent. A child
// gets a brand-new session seeded only with its task description, a tool set
// resolved from its agent type, and a depth one greater than its parent's.
// The parent blocks until the child finishes and sees only its final text.
package subagent

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/voidarchive/agentkit"
)

// Sentinel errors for the subagent package.
var (
	// ErrMaxDepth is returned when an agent at the depth bound tries to
	// spawn. The error text doubles as guidance shown back to the model.
	ErrMaxDepth = errors.New("subagent: maximum spawn depth reached, handle the task in this conversation instead of delegating")
)

// RunFunc executes a child agent with the given prompt and returns a Result.
// The default implementation calls Agent.Run and drains the stream. Tests
// replace this to avoid real API calls.
type RunFunc func(ctx context.Context, child *agentkit.Agent, prompt string) *Result

// ToolBuilder installs tools on a freshly created child agent. The tools
// package supplies the implementation; keeping it a function value here
// avoids a subagent -> tools import cycle.
type ToolBuilder func(child *agentkit.Agent, toolNames []string)

// Request describes one spawn: which preset to run, a short task label, the
// full prompt, and, for the custom type only, an explicit tool subset.
type Request struct {
	AgentType agentkit.AgentType
	Task      string
	Prompt    string
	Tools     []string
}

// Result holds the output of a completed child run.
type Result struct {
	// Output is the child's final text response.
	Output string

	// Session is the child's conversation history, useful for debugging.
	Session *agentkit.Session

	// Usage and Cost cover the whole child run.
	Usage agentkit.Usage
	Cost  decimal.Decimal

	// Err is non-nil when the child run failed.
	Err error
}

// Runner spawns child agents for one parent. Each Run call builds a fresh
// child agent and blocks until it completes; children never share state with
// the parent or each other.
type Runner struct {
	parent  *agentkit.Agent
	types   *agentkit.TypeRegistry
	build   ToolBuilder
	known   func(string) bool
	runFunc RunFunc
}

// NewRunner creates a Runner for the given parent. known reports whether a
// tool name can be built, used to validate custom tool lists.
func NewRunner(parent *agentkit.Agent, types *agentkit.TypeRegistry, build ToolBuilder, known func(string) bool) *Runner {
	return &Runner{
		parent:  parent,
		types:   types,
		build:   build,
		known:   known,
		runFunc: defaultRunFunc,
	}
}

// SetRunFunc replaces the child execution function. Tests use this to stub
// out the model call.
func (r *Runner) SetRunFunc(fn RunFunc) { r.runFunc = fn }

// Types returns the agent type registry backing this runner.
func (r *Runner) Types() *agentkit.TypeRegistry { return r.types }

// Run spawns a child agent and blocks until it finishes. Unknown agent
// types, invalid custom tool lists, and spawning at the depth bound are
// returned as errors; the caller is expected to surface them to the model
// as error tool results rather than abort.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if r.parent.Depth() >= r.parent.MaxDepth() {
		return nil, fmt.Errorf("%w (depth %d)", ErrMaxDepth, r.parent.Depth())
	}

	toolNames, err := r.types.ResolveTools(req.AgentType, req.Tools, r.known)
	if err != nil {
		return nil, err
	}

	child := agentkit.NewAgent(
		agentkit.WithModel(r.parent.Model()),
		agentkit.WithWorkDir(r.parent.WorkDir()),
		agentkit.WithDepth(r.parent.Depth()+1),
		agentkit.WithMaxDepth(r.parent.MaxDepth()),
		agentkit.WithAgentType(req.AgentType),
		agentkit.WithAllowedTools(toolNames...),
		agentkit.WithSystemPrompt(childSystemPrompt(r.types, req.AgentType)),
		agentkit.WithOnInit(func(a *agentkit.Agent) {
			if r.build != nil {
				r.build(a, toolNames)
			}
		}),
	)

	return r.runFunc(ctx, child, SeedPrompt(req.Task, req.Prompt)), nil
}

// SeedPrompt formats the single user message a child session starts with.
func SeedPrompt(task, prompt string) string {
	if task == "" {
		return prompt
	}
	return fmt.Sprintf("Task: %s\n\n%s", task, prompt)
}

// childSystemPrompt derives the child's system prompt from its type's
// description.
func childSystemPrompt(types *agentkit.TypeRegistry, t agentkit.AgentType) string {
	cfg, ok := types.Lookup(t)
	if !ok || cfg.Description == "" {
		return ""
	}
	return fmt.Sprintf("You are a %s sub-agent: %s. Complete the assigned task and reply with a concise final report; your reply is the only thing the caller sees.", t, cfg.Description)
}

// defaultRunFunc runs the child for real and drains its stream.
func defaultRunFunc(ctx context.Context, child *agentkit.Agent, prompt string) *Result {
	return DrainStream(child.Run(ctx, prompt))
}

// DrainStream iterates a stream to completion and collects the Result.
func DrainStream(stream *agentkit.AgentStream) *Result {
	result := &Result{
		Session: stream.Session(),
	}

	for stream.Next() {
		switch e := stream.Current().(type) {
		case *agentkit.ResultEvent:
			result.Output = e.Result
			result.Usage = e.Usage
			result.Cost = e.TotalCost
			if e.IsError {
				msg := e.Subtype
				if len(e.Errors) > 0 {
					msg = e.Errors[0]
				}
				result.Err = fmt.Errorf("subagent run failed: %s", msg)
			}
		}
	}

	return result
}
