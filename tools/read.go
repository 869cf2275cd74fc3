package tools

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/voidarchive/agentkit"
)

const (
	defaultReadLimit   = 2000
	maxLineLength      = 2000
	truncationSuffix   = "... [truncated]"
	lineNumberTabWidth = 6
)

// ReadInput defines the input for the Read tool.
type ReadInput struct {
	FilePath string `json:"file_path" jsonschema:"required,description=Path to the file to read; relative paths resolve against the workspace"`
	Offset   *int   `json:"offset,omitempty" jsonschema:"description=The line number to start reading from (1-based)"`
	Limit    *int   `json:"limit,omitempty" jsonschema:"description=The number of lines to read"`
}

// ReadTool reads file content with optional offset and limit.
type ReadTool struct{}

var _ agentkit.Tool[ReadInput] = (*ReadTool)(nil)

func (t *ReadTool) Name() string        { return "Read" }
func (t *ReadTool) Description() string { return "Read a file from the workspace" }

func (t *ReadTool) Execute(ctx context.Context, input ReadInput) (*agentkit.ToolResult, error) {
	if input.FilePath == "" {
		return agentkit.ErrorResult("file_path is required"), nil
	}

	resolved, err := resolvePath(ctx, input.FilePath)
	if err != nil {
		return agentkit.ErrorResult(err.Error()), nil
	}

	f, err := os.Open(resolved)
	if err != nil {
		return agentkit.ErrorResult(fmt.Sprintf("failed to open file: %s", err.Error())), nil
	}
	defer f.Close()

	limit := defaultReadLimit
	if input.Limit != nil && *input.Limit > 0 {
		limit = *input.Limit
	}

	offset := 1
	if input.Offset != nil && *input.Offset > 0 {
		offset = *input.Offset
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var b strings.Builder
	lineNum := 0
	linesOutput := 0

	for scanner.Scan() {
		lineNum++
		if lineNum < offset {
			continue
		}
		if linesOutput >= limit {
			break
		}

		line := scanner.Text()
		if len(line) > maxLineLength {
			line = line[:maxLineLength-len(truncationSuffix)] + truncationSuffix
		}

		fmt.Fprintf(&b, "%*d\t%s\n", lineNumberTabWidth, lineNum, line)
		linesOutput++
	}

	if err := scanner.Err(); err != nil {
		return agentkit.ErrorResult(fmt.Sprintf("error reading file: %s", err.Error())), nil
	}

	if b.Len() == 0 {
		return agentkit.TextResult("(empty file)"), nil
	}

	return agentkit.TextResult(b.String()), nil
}
