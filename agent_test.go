package agentkit

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidarchive/agentkit/internal/budget"
	"github.com/voidarchive/agentkit/internal/engine"
)

func newTestTracker() *budget.Tracker {
	return budget.NewTracker(decimal.Zero, budget.DefaultPricing)
}

func TestNewAgentDefaults(t *testing.T) {
	a := NewAgent()

	assert.Equal(t, anthropic.Model(DefaultModel), a.Model())
	assert.Equal(t, 0, a.Depth())
	assert.Equal(t, DefaultMaxDepth, a.MaxDepth())
	assert.Empty(t, a.WorkDir())
	assert.Empty(t, a.Tools().Names())
}

func TestNewAgentOptions(t *testing.T) {
	a := NewAgent(
		WithModel(anthropic.ModelClaudeHaiku4_5),
		WithWorkDir("/tmp/ws"),
		WithDepth(2),
		WithMaxDepth(5),
		WithAgentType(AgentCode),
		WithMaxTurns(7),
		WithBudget(decimal.NewFromInt(3)),
	)

	assert.Equal(t, anthropic.ModelClaudeHaiku4_5, a.Model())
	assert.Equal(t, "/tmp/ws", a.WorkDir())
	assert.Equal(t, 2, a.Depth())
	assert.Equal(t, 5, a.MaxDepth())
	assert.Equal(t, AgentCode, a.Type())
	assert.Equal(t, 7, a.Options().MaxTurnsValue())
}

func TestNewAgentOnInit(t *testing.T) {
	var got *Agent
	a := NewAgent(WithOnInit(func(a *Agent) { got = a }))
	assert.Same(t, a, got)
	require.NotNil(t, got.Tools())
}

func TestNewAgentSettingsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"model: claude-haiku-4-5\nmax_turns: 4\nmax_depth: 2\nworkspace: /tmp/settings-ws\n"), 0o644))

	a := NewAgent(WithSettings(path))
	assert.Equal(t, anthropic.Model("claude-haiku-4-5"), a.Model())
	assert.Equal(t, 4, a.Options().MaxTurnsValue())
	assert.Equal(t, 2, a.MaxDepth())
	assert.Equal(t, "/tmp/settings-ws", a.WorkDir())
}

func TestNewAgentLayeredSettings(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.yaml")
	overlay := filepath.Join(dir, "overlay.yaml")
	require.NoError(t, os.WriteFile(base, []byte("model: claude-haiku-4-5\nmax_turns: 4\n"), 0o644))
	require.NoError(t, os.WriteFile(overlay, []byte("max_turns: 9\n"), 0o644))

	a := NewAgent(WithSettings(base, overlay))
	assert.Equal(t, anthropic.Model("claude-haiku-4-5"), a.Model())
	assert.Equal(t, 9, a.Options().MaxTurnsValue())
}

func TestNewAgentExplicitOptionBeatsSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: claude-haiku-4-5\n"), 0o644))

	a := NewAgent(WithSettings(path), WithModel(anthropic.ModelClaudeSonnet4_5))
	assert.Equal(t, anthropic.ModelClaudeSonnet4_5, a.Model())
}

func TestNewAgentSkillsPrependedToSystemPrompt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "review.md"), []byte(
		"---\nname: code-review\ndescription: How to review code\n---\nAlways check error handling.\n"), 0o644))

	a := NewAgent(WithSkillDirs(dir), WithSystemPrompt("You are terse."))
	prompt := a.Options().SystemPromptText()
	assert.Contains(t, prompt, "# Available Skills")
	assert.Contains(t, prompt, "code-review")
	assert.Contains(t, prompt, "Always check error handling.")
	assert.Contains(t, prompt, "You are terse.")
}

func TestAgentPolicyFromAllowedTools(t *testing.T) {
	a := NewAgent(
		WithAgentType(AgentExplore),
		WithAllowedTools("Read", "Glob", "Grep"),
	)

	require.NotNil(t, a.policy)
	assert.NoError(t, a.policy.Check("Read"))

	err := a.policy.Check("Write")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Write"`)
	assert.Contains(t, err.Error(), `"explore"`)
}

func TestToolExecutorAdapter(t *testing.T) {
	registry := NewToolRegistry()
	RegisterTool(registry, &echoTool{})
	adapter := &toolExecutorAdapter{registry: registry}

	text, isError, err := adapter.Execute(context.Background(), "echo", json.RawMessage(`{"message":"hey"}`))
	require.NoError(t, err)
	assert.False(t, isError)
	assert.Equal(t, "hey", text)

	text, isError, err = adapter.Execute(context.Background(), "missing", json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.True(t, isError)
	assert.Equal(t, "Unknown tool: missing", text)

	assert.Len(t, adapter.ListForAPI(), 1)
}

func TestChannelSinkResultUpdatesSession(t *testing.T) {
	session := NewSession()
	ch := make(chan Event, 8)
	sink := &channelSink{ch: ch, session: session, tracker: newTestTracker()}

	sink.OnResult(engine.ResultInfo{
		Subtype:      "success",
		SessionID:    session.ID,
		NumTurns:     3,
		InputTokens:  100,
		OutputTokens: 50,
		Result:       "final text",
	})

	event := <-ch
	result, ok := event.(*ResultEvent)
	require.True(t, ok)
	assert.Equal(t, "final text", result.Result)
	assert.Equal(t, int64(100), result.Usage.InputTokens)

	assert.Equal(t, 3, session.Metadata.NumTurns)
	assert.Equal(t, int64(50), session.Metadata.TotalTokens.OutputTokens)
}

func TestChannelSinkToolEvents(t *testing.T) {
	session := NewSession()
	ch := make(chan Event, 8)
	sink := &channelSink{ch: ch, session: session, tracker: newTestTracker()}

	sink.OnToolUse("Read", json.RawMessage(`{"file_path":"x"}`))
	sink.OnToolResult("Read", "contents", false)

	use, ok := (<-ch).(*ToolUseEvent)
	require.True(t, ok)
	assert.Equal(t, "Read", use.ToolName)

	res, ok := (<-ch).(*ToolResultEvent)
	require.True(t, ok)
	assert.Equal(t, "contents", res.Output)
	assert.False(t, res.IsError)
}
