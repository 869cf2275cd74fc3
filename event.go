package agentkit

import (
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/shopspring/decimal"
)

// EventType identifies the kind of event emitted by an AgentStream.
type EventType string

const (
	EventSystem     EventType = "system"
	EventAssistant  EventType = "assistant"
	EventStream     EventType = "stream"
	EventToolUse    EventType = "tool_use"
	EventToolResult EventType = "tool_result"
	EventResult     EventType = "result"
)

// Event is the interface implemented by all events emitted through AgentStream.
type Event interface {
	Type() EventType
}

// SystemEvent is emitted once at the start of a run with initialization info.
type SystemEvent struct {
	SessionID string
	Model     anthropic.Model
}

func (e *SystemEvent) Type() EventType { return EventSystem }

// StreamEvent is emitted for streaming text deltas as they arrive.
type StreamEvent struct {
	Delta string
}

func (e *StreamEvent) Type() EventType { return EventStream }

// AssistantEvent is emitted when the model produces a complete response.
type AssistantEvent struct {
	Message anthropic.Message
}

func (e *AssistantEvent) Type() EventType { return EventAssistant }

// ToolUseEvent is emitted when the model requests a tool call, before the
// permission check and execution.
type ToolUseEvent struct {
	ToolName string
	Input    json.RawMessage
}

func (e *ToolUseEvent) Type() EventType { return EventToolUse }

// ToolResultEvent is emitted after a tool call resolves, whether it executed,
// was refused, or failed.
type ToolResultEvent struct {
	ToolName string
	Output   string
	IsError  bool
}

func (e *ToolResultEvent) Type() EventType { return EventToolResult }

// Usage tracks token consumption for a run.
type Usage struct {
	InputTokens              int64
	OutputTokens             int64
	CacheReadInputTokens     int64
	CacheCreationInputTokens int64
}

// ResultEvent is emitted once at the end of a run with summary information.
type ResultEvent struct {
	// Subtype indicates the outcome: "success", "error_max_turns",
	// "error_max_budget_usd", or "error_during_execution".
	Subtype    string
	SessionID  string
	DurationMs int64
	IsError    bool
	NumTurns   int
	TotalCost  decimal.Decimal
	Usage      Usage

	// Result holds the final assistant text on success, or a description of
	// what went wrong on error.
	Result string
	Errors []string
}

func (e *ResultEvent) Type() EventType { return EventResult }

// Err maps an error result to its sentinel error, nil on success. The first
// entry of Errors, when present, is attached as detail.
func (e *ResultEvent) Err() error {
	if !e.IsError {
		return nil
	}

	var sentinel error
	switch e.Subtype {
	case "error_max_turns":
		sentinel = ErrMaxTurns
	case "error_max_budget_usd":
		sentinel = ErrBudgetExhausted
	default:
		sentinel = ErrModelProtocol
	}

	if len(e.Errors) > 0 {
		return fmt.Errorf("%w: %s", sentinel, e.Errors[0])
	}
	return sentinel
}
