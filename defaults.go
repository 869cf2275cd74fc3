package agentkit

// Model and loop defaults.
const (
	// DefaultModel is the model used when no model is specified.
	DefaultModel = "claude-opus-4-6"

	// DefaultMaxOutputTokens is the default maximum output tokens per response.
	DefaultMaxOutputTokens = 8_192

	// DefaultMaxTurns is the default max loop turns (0 = unlimited; the model
	// decides when to stop).
	DefaultMaxTurns = 0

	// DefaultMaxDepth is the maximum subagent nesting depth. A spawn attempt
	// at this depth is refused with an error result instead of running.
	DefaultMaxDepth = 3

	// DefaultStreamBufferSize is the channel buffer size for streaming events.
	DefaultStreamBufferSize = 64
)
