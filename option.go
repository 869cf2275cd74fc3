package agentkit

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/shopspring/decimal"
)

// AgentOption configures an Agent via the functional options pattern.
type AgentOption func(*agentOptions)

// agentOptions holds all configurable fields set via AgentOption functions.
type agentOptions struct {
	model            anthropic.Model
	systemPrompt     string
	maxOutputTokens  int
	maxTurns         int
	maxBudget        decimal.Decimal
	streamBufferSize int

	// workDir is the shared workspace directory. File tools confine
	// themselves to it; empty means unconfined.
	workDir string

	agentType    AgentType
	allowedTools []string

	// depth is how many spawn hops separate this agent from the root loop.
	// maxDepth bounds the chain; an agent at depth >= maxDepth cannot spawn.
	depth    int
	maxDepth int

	skillDirs     []string
	settingsPaths []string
	sessionStore  SessionStore

	// onInit hooks run at the end of NewAgent, once the tool registry exists.
	// Wiring packages (tools, subagent) use this to register into the agent
	// without the root package importing them.
	onInit []func(*Agent)
}

// applyDefaults fills in zero-value fields with sensible defaults.
func (o *agentOptions) applyDefaults() {
	if o.model == "" {
		o.model = DefaultModel
	}
	if o.maxOutputTokens == 0 {
		o.maxOutputTokens = DefaultMaxOutputTokens
	}
	if o.streamBufferSize == 0 {
		o.streamBufferSize = DefaultStreamBufferSize
	}
	if o.maxDepth == 0 {
		o.maxDepth = DefaultMaxDepth
	}
}

// resolveOptions applies all option functions and fills defaults.
func resolveOptions(opts []AgentOption) agentOptions {
	var o agentOptions
	for _, fn := range opts {
		fn(&o)
	}
	o.applyDefaults()
	return o
}

// SystemPromptText returns the resolved system prompt (for inspection).
func (o agentOptions) SystemPromptText() string { return o.systemPrompt }

// MaxTurnsValue returns the resolved max turns (for inspection).
func (o agentOptions) MaxTurnsValue() int { return o.maxTurns }

// AllowedTools returns the resolved permitted tool names, nil meaning all.
func (o agentOptions) AllowedTools() []string { return o.allowedTools }

// --- Model & loop ---

// WithModel sets the Claude model to use.
func WithModel(model anthropic.Model) AgentOption {
	return func(o *agentOptions) { o.model = model }
}

// WithSystemPrompt sets the system prompt sent with every model call.
func WithSystemPrompt(prompt string) AgentOption {
	return func(o *agentOptions) { o.systemPrompt = prompt }
}

// WithMaxOutputTokens sets the maximum output tokens per response.
func WithMaxOutputTokens(tokens int) AgentOption {
	return func(o *agentOptions) { o.maxOutputTokens = tokens }
}

// WithMaxTurns sets the maximum number of agent loop turns (0 = unlimited).
func WithMaxTurns(n int) AgentOption {
	return func(o *agentOptions) { o.maxTurns = n }
}

// WithBudget sets the maximum budget in USD for a run. Zero means unlimited.
func WithBudget(maxUSD decimal.Decimal) AgentOption {
	return func(o *agentOptions) { o.maxBudget = maxUSD }
}

// WithStreamBufferSize sets the event channel buffer size.
func WithStreamBufferSize(n int) AgentOption {
	return func(o *agentOptions) { o.streamBufferSize = n }
}

// --- Workspace ---

// WithWorkDir sets the workspace directory. File tools resolve relative paths
// against it and refuse paths escaping it; Bash runs inside it.
func WithWorkDir(dir string) AgentOption {
	return func(o *agentOptions) { o.workDir = dir }
}

// --- Tool restriction ---

// WithAgentType tags the agent with a type name, used in permission refusal
// messages and session metadata.
func WithAgentType(t AgentType) AgentOption {
	return func(o *agentOptions) { o.agentType = t }
}

// WithAllowedTools restricts the agent to the named tools. A tool call
// outside this set is refused before any side effect occurs. Empty means all
// registered tools are permitted.
func WithAllowedTools(names ...string) AgentOption {
	return func(o *agentOptions) { o.allowedTools = names }
}

// WithDepth records how many spawn hops separate this agent from the root
// loop. The root agent is depth 0; each spawned child is its parent's depth
// plus one.
func WithDepth(n int) AgentOption {
	return func(o *agentOptions) { o.depth = n }
}

// WithMaxDepth bounds the spawn chain. An agent at or beyond this depth has
// no spawn capability and any attempt to delegate is refused.
func WithMaxDepth(n int) AgentOption {
	return func(o *agentOptions) { o.maxDepth = n }
}

// WithOnInit registers a hook that runs at the end of NewAgent, after the
// tool registry is created. Used by wiring packages to register tools into
// the agent.
func WithOnInit(fn func(*Agent)) AgentOption {
	return func(o *agentOptions) { o.onInit = append(o.onInit, fn) }
}

// --- Skills & settings ---

// WithSkillDirs adds directories of markdown skill files whose content is
// prepended to the system prompt.
func WithSkillDirs(dirs ...string) AgentOption {
	return func(o *agentOptions) { o.skillDirs = append(o.skillDirs, dirs...) }
}

// WithSettings loads YAML settings files. Later files overlay earlier ones,
// and options set explicitly via WithXxx take precedence over file values.
func WithSettings(paths ...string) AgentOption {
	return func(o *agentOptions) { o.settingsPaths = append(o.settingsPaths, paths...) }
}

// WithSessionStore attaches a session store to Clients built with this
// option. Sessions are saved after each completed query and can be resumed.
func WithSessionStore(store SessionStore) AgentOption {
	return func(o *agentOptions) { o.sessionStore = store }
}
