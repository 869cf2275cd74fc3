package agentkit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/voidarchive/agentkit/internal/budget"
	"github.com/voidarchive/agentkit/internal/config"
	"github.com/voidarchive/agentkit/internal/engine"
	"github.com/voidarchive/agentkit/permission"
)

// Agent is a stateless execution engine holding configuration and tools. The
// same Agent can be shared across goroutines and Clients; all conversation
// state lives in the Session passed to each run.
type Agent struct {
	apiClient *anthropic.Client
	tools     *ToolRegistry
	policy    *permission.Policy
	opts      agentOptions
}

// NewAgent creates an Agent with the given options. Settings files fill in
// fields the caller did not set explicitly; skills are prepended to the
// system prompt; onInit hooks run last, once the tool registry exists.
func NewAgent(opts ...AgentOption) *Agent {
	// Capture user-set values before defaults, so file settings never
	// override an explicit option.
	var userSet agentOptions
	for _, fn := range opts {
		fn(&userSet)
	}

	resolved := resolveOptions(opts)

	if len(resolved.settingsPaths) > 0 {
		merged := &config.Settings{}
		for _, path := range resolved.settingsPaths {
			if settings, err := config.LoadSettings(path); err == nil {
				config.Merge(merged, settings)
			}
		}
		applySettings(&resolved, merged, &userSet)
	}

	if len(resolved.skillDirs) > 0 {
		if skills, err := config.LoadSkills(resolved.skillDirs...); err == nil && len(skills) > 0 {
			resolved.systemPrompt = config.FormatSkillsPrompt(skills) + resolved.systemPrompt
		}
	}

	client := anthropic.NewClient()

	a := &Agent{
		apiClient: &client,
		tools:     NewToolRegistry(),
		opts:      resolved,
	}

	if len(resolved.allowedTools) > 0 {
		a.policy = permission.NewPolicy(string(resolved.agentType), resolved.allowedTools)
	}

	for _, fn := range resolved.onInit {
		fn(a)
	}

	return a
}

// applySettings merges file settings into resolved options, skipping any
// field the user set explicitly.
func applySettings(o *agentOptions, s *config.Settings, userSet *agentOptions) {
	if userSet.model == "" && s.Model != "" {
		o.model = anthropic.Model(s.Model)
	}
	if userSet.systemPrompt == "" && s.SystemPrompt != "" {
		o.systemPrompt = s.SystemPrompt
	}
	if userSet.maxTurns == 0 && s.MaxTurns > 0 {
		o.maxTurns = s.MaxTurns
	}
	if userSet.maxDepth == 0 && s.MaxDepth > 0 {
		o.maxDepth = s.MaxDepth
	}
	if userSet.workDir == "" && s.Workspace != "" {
		o.workDir = s.Workspace
	}
	if len(userSet.skillDirs) == 0 && len(s.SkillDirs) > 0 {
		o.skillDirs = s.SkillDirs
	}
	if len(userSet.allowedTools) == 0 && len(s.Tools) > 0 {
		o.allowedTools = s.Tools
	}
}

// Tools returns the agent's tool registry for registering custom tools.
func (a *Agent) Tools() *ToolRegistry { return a.tools }

// Model returns the configured model.
func (a *Agent) Model() anthropic.Model { return a.opts.model }

// WorkDir returns the workspace directory, empty when unconfined.
func (a *Agent) WorkDir() string { return a.opts.workDir }

// Depth returns how many spawn hops separate this agent from the root loop.
func (a *Agent) Depth() int { return a.opts.depth }

// MaxDepth returns the spawn chain bound.
func (a *Agent) MaxDepth() int { return a.opts.maxDepth }

// Type returns the agent type tag, empty when untyped.
func (a *Agent) Type() AgentType { return a.opts.agentType }

// Options returns a copy of the resolved agent options, for inspection.
func (a *Agent) Options() agentOptions { return a.opts }

// Run starts a single-shot execution with a new session and returns a stream
// of events. The loop runs in its own goroutine; iterate the stream to
// observe progress and collect the result.
func (a *Agent) Run(ctx context.Context, prompt string) *AgentStream {
	session := NewSession()
	session.AgentType = a.opts.agentType
	return a.RunWithSession(ctx, session, prompt)
}

// RunWithSession starts an execution extending an existing session's history.
func (a *Agent) RunWithSession(ctx context.Context, session *Session, prompt string) *AgentStream {
	session.Messages = append(session.Messages,
		anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)))

	eventCh := make(chan Event, a.opts.streamBufferSize)
	stream := newStream(eventCh, session)

	tracker := budget.NewTracker(a.opts.maxBudget, budget.DefaultPricing)

	cfg := engine.LoopConfig{
		Streamer:  engine.NewMessageStreamer(&a.apiClient.Messages),
		Tools:     &toolExecutorAdapter{registry: a.tools},
		Model:     a.opts.model,
		MaxTokens: a.opts.maxOutputTokens,
		MaxTurns:  a.opts.maxTurns,
		Messages:  &session.Messages,
		SessionID: session.ID,
		Sink:      &channelSink{ch: eventCh, session: session, tracker: tracker},
		Budget:    &budgetAdapter{tracker: tracker},
	}

	if a.opts.systemPrompt != "" {
		cfg.SystemPrompt = []anthropic.TextBlockParam{{Text: a.opts.systemPrompt}}
	}
	if a.policy != nil {
		cfg.Permission = a.policy
	}

	if a.opts.workDir != "" {
		ctx = WithContextWorkDir(ctx, a.opts.workDir)
	}

	go func() {
		engine.RunLoop(ctx, cfg)
		close(eventCh)
	}()

	return stream
}

// toolExecutorAdapter wraps ToolRegistry to implement engine.ToolExecutor.
type toolExecutorAdapter struct {
	registry *ToolRegistry
}

func (t *toolExecutorAdapter) Execute(ctx context.Context, name string, input json.RawMessage) (string, bool, error) {
	result, err := t.registry.Execute(ctx, name, input)
	if err != nil {
		return "", false, err
	}
	return extractTextFromBlocks(result.Content), result.IsError, nil
}

func (t *toolExecutorAdapter) ListForAPI() []anthropic.ToolUnionParam {
	return t.registry.ListForAPI()
}

// extractTextFromBlocks extracts text from content block param unions.
func extractTextFromBlocks(blocks []anthropic.ContentBlockParamUnion) string {
	for _, b := range blocks {
		if b.OfText != nil {
			return b.OfText.Text
		}
	}
	return ""
}

// channelSink implements engine.EventSink by sending events to a channel and
// updating session metadata as the run progresses.
type channelSink struct {
	ch      chan Event
	session *Session
	tracker *budget.Tracker
}

func (s *channelSink) OnSystem(sessionID string, model anthropic.Model) {
	s.session.Metadata.Model = model
	s.ch <- &SystemEvent{SessionID: sessionID, Model: model}
}

func (s *channelSink) OnStream(delta string) {
	s.ch <- &StreamEvent{Delta: delta}
}

func (s *channelSink) OnAssistant(msg anthropic.Message) {
	s.ch <- &AssistantEvent{Message: msg}
}

func (s *channelSink) OnToolUse(name string, input json.RawMessage) {
	s.ch <- &ToolUseEvent{ToolName: name, Input: input}
}

func (s *channelSink) OnToolResult(name, output string, isError bool) {
	s.ch <- &ToolResultEvent{ToolName: name, Output: output, IsError: isError}
}

func (s *channelSink) OnResult(info engine.ResultInfo) {
	usage := Usage{
		InputTokens:              info.InputTokens,
		OutputTokens:             info.OutputTokens,
		CacheReadInputTokens:     info.CacheReadInputTokens,
		CacheCreationInputTokens: info.CacheCreationInputTokens,
	}
	cost := s.tracker.TotalCost()

	s.session.Metadata.TotalCost = s.session.Metadata.TotalCost.Add(cost)
	s.session.Metadata.TotalTokens.InputTokens += usage.InputTokens
	s.session.Metadata.TotalTokens.OutputTokens += usage.OutputTokens
	s.session.Metadata.TotalTokens.CacheReadInputTokens += usage.CacheReadInputTokens
	s.session.Metadata.TotalTokens.CacheCreationInputTokens += usage.CacheCreationInputTokens
	s.session.Metadata.NumTurns += info.NumTurns
	s.session.UpdatedAt = time.Now()

	s.ch <- &ResultEvent{
		Subtype:    info.Subtype,
		SessionID:  info.SessionID,
		DurationMs: info.DurationMs,
		IsError:    info.IsError,
		NumTurns:   info.NumTurns,
		TotalCost:  cost,
		Usage:      usage,
		Result:     info.Result,
		Errors:     info.Errors,
	}
}

// budgetAdapter wraps budget.Tracker to implement engine.BudgetChecker.
type budgetAdapter struct {
	tracker *budget.Tracker
}

func (b *budgetAdapter) RecordUsage(model anthropic.Model, usage engine.BudgetUsage) {
	b.tracker.RecordUsage(model, budget.Usage{
		InputTokens:              usage.InputTokens,
		OutputTokens:             usage.OutputTokens,
		CacheReadInputTokens:     usage.CacheRead,
		CacheCreationInputTokens: usage.CacheCreation,
	})
}

func (b *budgetAdapter) Exhausted() bool {
	return b.tracker.Exhausted()
}
