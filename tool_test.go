package agentkit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoInput struct {
	Message string `json:"message" jsonschema:"required,description=Text to echo back"`
}

type echoTool struct{}

func (t *echoTool) Name() string        { return "echo" }
func (t *echoTool) Description() string { return "Echo the input back" }
func (t *echoTool) Execute(_ context.Context, input echoInput) (*ToolResult, error) {
	return TextResult(input.Message), nil
}

func blockText(t *testing.T, result *ToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	require.NotNil(t, result.Content[0].OfText)
	return result.Content[0].OfText.Text
}

func TestRegistryExecute(t *testing.T) {
	registry := NewToolRegistry()
	RegisterTool(registry, &echoTool{})

	result, err := registry.Execute(context.Background(), "echo", json.RawMessage(`{"message":"hi"}`))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "hi", blockText(t, result))
}

func TestRegistryUnknownToolIsErrorResult(t *testing.T) {
	registry := NewToolRegistry()

	result, err := registry.Execute(context.Background(), "frobnicate", json.RawMessage(`{}`))
	require.NoError(t, err, "unknown tools must not abort the loop")
	assert.True(t, result.IsError)
	assert.Equal(t, "Unknown tool: frobnicate", blockText(t, result))
}

func TestRegistryInvalidInput(t *testing.T) {
	registry := NewToolRegistry()
	RegisterTool(registry, &echoTool{})

	result, err := registry.Execute(context.Background(), "echo", json.RawMessage(`{not json`))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, blockText(t, result), "invalid input")
}

func TestRegistryRegisterRaw(t *testing.T) {
	registry := NewToolRegistry()
	registry.RegisterRaw("raw", "raw tool", anthropic.ToolInputSchemaParam{},
		func(ctx context.Context, raw json.RawMessage) (*ToolResult, error) {
			return TextResult("raw output"), nil
		})

	assert.True(t, registry.Has("raw"))

	result, err := registry.Execute(context.Background(), "raw", nil)
	require.NoError(t, err)
	assert.Equal(t, "raw output", blockText(t, result))
}

func TestRegistryNamesPreserveOrder(t *testing.T) {
	registry := NewToolRegistry()
	registry.RegisterRaw("b", "", anthropic.ToolInputSchemaParam{}, nil)
	registry.RegisterRaw("a", "", anthropic.ToolInputSchemaParam{}, nil)
	registry.RegisterRaw("c", "", anthropic.ToolInputSchemaParam{}, nil)

	assert.Equal(t, []string{"b", "a", "c"}, registry.Names())

	listed := registry.ListForAPI()
	require.Len(t, listed, 3)
	assert.Equal(t, "b", listed[0].OfTool.Name)
}

func TestRegistryListForAPISchema(t *testing.T) {
	registry := NewToolRegistry()
	RegisterTool(registry, &echoTool{})

	listed := registry.ListForAPI()
	require.Len(t, listed, 1)
	tool := listed[0].OfTool
	require.NotNil(t, tool)
	assert.Equal(t, "echo", tool.Name)
	assert.Contains(t, tool.InputSchema.Properties, "message")
	assert.Equal(t, []string{"message"}, tool.InputSchema.Required)
}
