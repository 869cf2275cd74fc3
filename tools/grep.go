package tools

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/voidarchive/agentkit"
)

// GrepInput defines the input for the Grep tool.
type GrepInput struct {
	Pattern         string `json:"pattern" jsonschema:"required,description=The regex pattern to search for"`
	Path            string `json:"path,omitempty" jsonschema:"description=File or directory to search in; defaults to the workspace"`
	OutputMode      string `json:"output_mode,omitempty" jsonschema:"description=Output mode: content or files_with_matches or count"`
	Glob            string `json:"glob,omitempty" jsonschema:"description=Glob pattern to filter files"`
	Type            string `json:"type,omitempty" jsonschema:"description=File type to search (e.g. go or py or js)"`
	Context         *int   `json:"context,omitempty" jsonschema:"description=Lines of context around matches"`
	CaseInsensitive bool   `json:"case_insensitive,omitempty" jsonschema:"description=Case insensitive search"`
}

// GrepTool searches file contents using ripgrep.
type GrepTool struct{}

var _ agentkit.Tool[GrepInput] = (*GrepTool)(nil)

func (t *GrepTool) Name() string        { return "Grep" }
func (t *GrepTool) Description() string { return "Search file contents using regex patterns" }

func (t *GrepTool) Execute(ctx context.Context, input GrepInput) (*agentkit.ToolResult, error) {
	if input.Pattern == "" {
		return agentkit.ErrorResult("pattern is required"), nil
	}

	rgPath, err := exec.LookPath("rg")
	if err != nil {
		return agentkit.ErrorResult("ripgrep (rg) is not installed. Install it with: brew install ripgrep (macOS) or apt install ripgrep (Linux)"), nil
	}

	searchIn := input.Path
	if searchIn != "" {
		resolved, err := resolvePath(ctx, searchIn)
		if err != nil {
			return agentkit.ErrorResult(err.Error()), nil
		}
		searchIn = resolved
	}

	args := buildRgArgs(input, searchIn)

	cmd := exec.CommandContext(ctx, rgPath, args...)
	applyExecContext(ctx, cmd)

	output, err := cmd.CombinedOutput()
	text := string(output)

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			// rg exit code 1 = no matches (not an error)
			if exitErr.ExitCode() == 1 {
				return agentkit.TextResult("No matches found."), nil
			}
			return agentkit.ErrorResult(fmt.Sprintf("rg error: %s", text)), nil
		}
		return agentkit.ErrorResult(fmt.Sprintf("failed to run rg: %s", err.Error())), nil
	}

	return agentkit.TextResult(truncate(text)), nil
}

func buildRgArgs(input GrepInput, path string) []string {
	var args []string

	switch input.OutputMode {
	case "content":
		args = append(args, "-n")
	case "count":
		args = append(args, "-c")
	case "files_with_matches", "":
		args = append(args, "-l")
	}

	if input.CaseInsensitive {
		args = append(args, "-i")
	}
	if input.Glob != "" {
		args = append(args, "--glob", input.Glob)
	}
	if input.Type != "" {
		args = append(args, "--type", input.Type)
	}
	if input.Context != nil && *input.Context > 0 {
		args = append(args, "-C", fmt.Sprintf("%d", *input.Context))
	}

	args = append(args, input.Pattern)
	if path != "" {
		args = append(args, path)
	}

	return args
}
