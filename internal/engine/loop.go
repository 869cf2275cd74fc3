// Package engine contains the core agent execution loop: ask the model for a
// next step, execute requested tool calls, append results, repeat until the
// model stops requesting tools.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"
)

// MessageStreamer abstracts the Anthropic Messages API so the loop can be
// tested with a mock. Production code passes the real client.Messages.
type MessageStreamer interface {
	NewStreaming(ctx context.Context, params anthropic.MessageNewParams) *ssestream.Stream[anthropic.MessageStreamEventUnion]
}

// messageServiceAdapter wraps the real anthropic.MessageService.
type messageServiceAdapter struct {
	svc *anthropic.MessageService
}

func (a *messageServiceAdapter) NewStreaming(ctx context.Context, params anthropic.MessageNewParams) *ssestream.Stream[anthropic.MessageStreamEventUnion] {
	return a.svc.NewStreaming(ctx, params)
}

// NewMessageStreamer wraps a real anthropic.MessageService as a MessageStreamer.
func NewMessageStreamer(svc *anthropic.MessageService) MessageStreamer {
	return &messageServiceAdapter{svc: svc}
}

// ToolExecutor executes a tool by name with raw JSON input. Domain failures
// come back as isError=true content; err is reserved for infrastructure
// faults and is still converted to an error tool_result, never raised.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, input json.RawMessage) (content string, isError bool, err error)
	ListForAPI() []anthropic.ToolUnionParam
}

// PermissionChecker gates tool execution. Check is called before a tool runs;
// a non-nil error refuses the call before any side effect occurs. Nil checker
// means all registered tools are permitted.
type PermissionChecker interface {
	Check(toolName string) error
}

// BudgetChecker tracks and enforces spend limits. Nil means no limit.
type BudgetChecker interface {
	RecordUsage(model anthropic.Model, usage BudgetUsage)
	Exhausted() bool
}

// BudgetUsage holds token counts for a single API call.
type BudgetUsage struct {
	InputTokens   int
	OutputTokens  int
	CacheRead     int
	CacheCreation int
}

// EventSink receives events from the loop. The loop calls these methods
// instead of importing root package event types, breaking the import cycle.
type EventSink interface {
	OnSystem(sessionID string, model anthropic.Model)
	OnStream(delta string)
	OnAssistant(msg anthropic.Message)
	OnToolUse(name string, input json.RawMessage)
	OnToolResult(name, output string, isError bool)
	OnResult(info ResultInfo)
}

// ResultInfo contains the data for the final result event of a run.
type ResultInfo struct {
	Subtype                  string
	SessionID                string
	IsError                  bool
	NumTurns                 int
	DurationMs               int64
	InputTokens              int64
	OutputTokens             int64
	CacheReadInputTokens     int64
	CacheCreationInputTokens int64

	// Result is the final assistant text on success.
	Result string
	Errors []string
}

// LoopConfig holds everything the agent loop needs to execute.
type LoopConfig struct {
	Streamer  MessageStreamer
	Tools     ToolExecutor
	Model     anthropic.Model
	MaxTokens int
	MaxTurns  int

	// Messages is the mutable conversation history. The loop appends an
	// assistant message after each model call and a user message holding the
	// paired tool_result blocks after each round of tool execution.
	Messages *[]anthropic.MessageParam

	// SystemPrompt is sent with every API call when non-empty.
	SystemPrompt []anthropic.TextBlockParam

	SessionID string
	Sink      EventSink

	// Permission gates tool calls. Nil = all tools allowed.
	Permission PermissionChecker

	// Budget tracks spend and stops the run when exhausted. Nil = no limit.
	Budget BudgetChecker
}

// RunLoop drives one conversation to completion in the calling goroutine.
// It terminates when the model emits a final answer instead of a tool call,
// when the turn or budget limit is hit, or when a valid model response
// cannot be obtained. Tool failures never terminate the loop; they are fed
// back to the model as error results.
func RunLoop(ctx context.Context, cfg LoopConfig) {
	startTime := time.Now()
	var inputTokens, outputTokens, cacheRead, cacheCreation int64

	cfg.Sink.OnSystem(cfg.SessionID, cfg.Model)

	turns := 0

	for {
		if ctx.Err() != nil {
			cfg.Sink.OnResult(ResultInfo{
				Subtype:    "error_during_execution",
				SessionID:  cfg.SessionID,
				IsError:    true,
				NumTurns:   turns,
				DurationMs: time.Since(startTime).Milliseconds(),
				Errors:     []string{ctx.Err().Error()},
			})
			return
		}

		params := anthropic.MessageNewParams{
			Model:     cfg.Model,
			MaxTokens: int64(cfg.MaxTokens),
			Messages:  *cfg.Messages,
		}
		if len(cfg.SystemPrompt) > 0 {
			params.System = cfg.SystemPrompt
		}
		if tools := cfg.Tools.ListForAPI(); len(tools) > 0 {
			params.Tools = tools
		}

		stream := cfg.Streamer.NewStreaming(ctx, params)
		msg := anthropic.Message{}

		for stream.Next() {
			event := stream.Current()
			if err := msg.Accumulate(event); err != nil {
				// Malformed model response: the one failure class that aborts
				// the loop, since there is no valid next step to act on.
				stream.Close()
				cfg.Sink.OnResult(ResultInfo{
					Subtype:              "error_during_execution",
					SessionID:            cfg.SessionID,
					IsError:              true,
					NumTurns:             turns,
					DurationMs:           time.Since(startTime).Milliseconds(),
					InputTokens:          inputTokens,
					OutputTokens:         outputTokens,
					CacheReadInputTokens: cacheRead,
					Errors:               []string{fmt.Sprintf("accumulate error: %s", err.Error())},
				})
				return
			}

			if event.Type == "content_block_delta" && event.Delta.Type == "text_delta" && event.Delta.Text != "" {
				cfg.Sink.OnStream(event.Delta.Text)
			}
		}

		if err := stream.Err(); err != nil {
			stream.Close()
			cfg.Sink.OnResult(ResultInfo{
				Subtype:              "error_during_execution",
				SessionID:            cfg.SessionID,
				IsError:              true,
				NumTurns:             turns,
				DurationMs:           time.Since(startTime).Milliseconds(),
				InputTokens:          inputTokens,
				OutputTokens:         outputTokens,
				CacheReadInputTokens: cacheRead,
				Errors:               []string{fmt.Sprintf("stream error: %s", err.Error())},
			})
			return
		}
		stream.Close()

		inputTokens += msg.Usage.InputTokens
		outputTokens += msg.Usage.OutputTokens
		cacheRead += msg.Usage.CacheReadInputTokens
		cacheCreation += msg.Usage.CacheCreationInputTokens

		if cfg.Budget != nil {
			cfg.Budget.RecordUsage(cfg.Model, BudgetUsage{
				InputTokens:   int(msg.Usage.InputTokens),
				OutputTokens:  int(msg.Usage.OutputTokens),
				CacheRead:     int(msg.Usage.CacheReadInputTokens),
				CacheCreation: int(msg.Usage.CacheCreationInputTokens),
			})
			if cfg.Budget.Exhausted() {
				cfg.Sink.OnAssistant(msg)
				*cfg.Messages = append(*cfg.Messages, msg.ToParam())
				cfg.Sink.OnResult(ResultInfo{
					Subtype:                  "error_max_budget_usd",
					SessionID:                cfg.SessionID,
					IsError:                  true,
					NumTurns:                 turns + 1,
					DurationMs:               time.Since(startTime).Milliseconds(),
					InputTokens:              inputTokens,
					OutputTokens:             outputTokens,
					CacheReadInputTokens:     cacheRead,
					CacheCreationInputTokens: cacheCreation,
					Errors:                   []string{"budget exhausted"},
				})
				return
			}
		}

		cfg.Sink.OnAssistant(msg)
		*cfg.Messages = append(*cfg.Messages, msg.ToParam())

		switch msg.StopReason {
		case anthropic.StopReasonEndTurn:
			cfg.Sink.OnResult(ResultInfo{
				Subtype:                  "success",
				SessionID:                cfg.SessionID,
				NumTurns:                 turns + 1,
				DurationMs:               time.Since(startTime).Milliseconds(),
				InputTokens:              inputTokens,
				OutputTokens:             outputTokens,
				CacheReadInputTokens:     cacheRead,
				CacheCreationInputTokens: cacheCreation,
				Result:                   textOf(msg.Content),
			})
			return

		case anthropic.StopReasonMaxTokens:
			cfg.Sink.OnResult(ResultInfo{
				Subtype:              "error_during_execution",
				SessionID:            cfg.SessionID,
				IsError:              true,
				NumTurns:             turns + 1,
				DurationMs:           time.Since(startTime).Milliseconds(),
				InputTokens:          inputTokens,
				OutputTokens:         outputTokens,
				CacheReadInputTokens: cacheRead,
				Errors:               []string{"max_tokens reached"},
			})
			return

		case anthropic.StopReasonToolUse:
			// Execute every requested tool call synchronously, in order.
			// Each tool_result is paired with its tool_use in a single user
			// message appended immediately after the assistant message.
			toolResults := processToolUse(ctx, cfg, msg.Content)
			*cfg.Messages = append(*cfg.Messages,
				anthropic.NewUserMessage(toolResults...))

		default:
			// Unknown stop reason, treat as end.
			cfg.Sink.OnResult(ResultInfo{
				Subtype:              "success",
				SessionID:            cfg.SessionID,
				NumTurns:             turns + 1,
				DurationMs:           time.Since(startTime).Milliseconds(),
				InputTokens:          inputTokens,
				OutputTokens:         outputTokens,
				CacheReadInputTokens: cacheRead,
				Result:               textOf(msg.Content),
			})
			return
		}

		turns++

		if cfg.MaxTurns > 0 && turns >= cfg.MaxTurns {
			cfg.Sink.OnResult(ResultInfo{
				Subtype:              "error_max_turns",
				SessionID:            cfg.SessionID,
				IsError:              true,
				NumTurns:             turns,
				DurationMs:           time.Since(startTime).Milliseconds(),
				InputTokens:          inputTokens,
				OutputTokens:         outputTokens,
				CacheReadInputTokens: cacheRead,
				Errors:               []string{"max turns reached"},
			})
			return
		}
	}
}

// processToolUse resolves each tool_use block into a tool_result block.
// The permission check runs strictly before dispatch, so a refused tool
// never executes any side effect.
func processToolUse(ctx context.Context, cfg LoopConfig, content []anthropic.ContentBlockUnion) []anthropic.ContentBlockParamUnion {
	var results []anthropic.ContentBlockParamUnion

	for _, block := range content {
		if block.Type != "tool_use" {
			continue
		}

		toolUse := block.AsToolUse()
		toolInput := json.RawMessage(toolUse.Input)
		cfg.Sink.OnToolUse(toolUse.Name, toolInput)

		if cfg.Permission != nil {
			if err := cfg.Permission.Check(toolUse.Name); err != nil {
				text := err.Error()
				cfg.Sink.OnToolResult(toolUse.Name, text, true)
				results = append(results,
					anthropic.NewToolResultBlock(toolUse.ID, text, true))
				continue
			}
		}

		text, isError, err := cfg.Tools.Execute(ctx, toolUse.Name, toolInput)
		if err != nil {
			text = fmt.Sprintf("error: %s", err.Error())
			isError = true
		}

		cfg.Sink.OnToolResult(toolUse.Name, text, isError)
		results = append(results,
			anthropic.NewToolResultBlock(toolUse.ID, text, isError))
	}

	return results
}

// textOf concatenates the text blocks of a model response.
func textOf(content []anthropic.ContentBlockUnion) string {
	var sb strings.Builder
	for _, block := range content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String()
}
