package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/voidarchive/agentkit"
)

// WriteInput defines the input for the Write tool.
type WriteInput struct {
	FilePath string `json:"file_path" jsonschema:"required,description=Path to the file to write; relative paths resolve against the workspace"`
	Content  string `json:"content" jsonschema:"required,description=The content to write to the file"`
}

// WriteTool writes content to a file, creating parent directories if needed.
type WriteTool struct{}

var _ agentkit.Tool[WriteInput] = (*WriteTool)(nil)

func (t *WriteTool) Name() string        { return "Write" }
func (t *WriteTool) Description() string { return "Write a file into the workspace" }

func (t *WriteTool) Execute(ctx context.Context, input WriteInput) (*agentkit.ToolResult, error) {
	if input.FilePath == "" {
		return agentkit.ErrorResult("file_path is required"), nil
	}

	resolved, err := resolvePath(ctx, input.FilePath)
	if err != nil {
		return agentkit.ErrorResult(err.Error()), nil
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return agentkit.ErrorResult(fmt.Sprintf("failed to create directory: %s", err.Error())), nil
	}

	if err := os.WriteFile(resolved, []byte(input.Content), 0o644); err != nil {
		return agentkit.ErrorResult(fmt.Sprintf("failed to write file: %s", err.Error())), nil
	}

	return agentkit.TextResult(fmt.Sprintf("Successfully wrote to %s", resolved)), nil
}
