package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/voidarchive/agentkit"
)

// GlobInput defines the input for the Glob tool.
type GlobInput struct {
	Pattern string `json:"pattern" jsonschema:"required,description=The glob pattern to match files against"`
	Path    string `json:"path,omitempty" jsonschema:"description=The directory to search in; defaults to the workspace"`
}

// GlobTool matches files using glob patterns, newest first.
type GlobTool struct{}

var _ agentkit.Tool[GlobInput] = (*GlobTool)(nil)

func (t *GlobTool) Name() string        { return "Glob" }
func (t *GlobTool) Description() string { return "Fast file pattern matching tool" }

func (t *GlobTool) Execute(ctx context.Context, input GlobInput) (*agentkit.ToolResult, error) {
	if input.Pattern == "" {
		return agentkit.ErrorResult("pattern is required"), nil
	}

	basePath := input.Path
	if basePath == "" {
		if dir := agentkit.ContextWorkDir(ctx); dir != "" {
			basePath = dir
		} else {
			var err error
			basePath, err = os.Getwd()
			if err != nil {
				return agentkit.ErrorResult(fmt.Sprintf("failed to get working directory: %s", err.Error())), nil
			}
		}
	}

	absBase, err := resolvePath(ctx, basePath)
	if err != nil {
		return agentkit.ErrorResult(err.Error()), nil
	}

	fsys := os.DirFS(absBase)
	matches, err := doublestar.Glob(fsys, input.Pattern)
	if err != nil {
		return agentkit.ErrorResult(fmt.Sprintf("glob error: %s", err.Error())), nil
	}

	if len(matches) == 0 {
		return agentkit.TextResult("No files matched the pattern."), nil
	}

	type fileEntry struct {
		path    string
		modTime int64
	}
	entries := make([]fileEntry, 0, len(matches))
	for _, m := range matches {
		fullPath := filepath.Join(absBase, m)
		info, err := os.Stat(fullPath)
		if err != nil {
			continue
		}
		entries = append(entries, fileEntry{
			path:    fullPath,
			modTime: info.ModTime().UnixNano(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].modTime > entries[j].modTime
	})

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.path)
		b.WriteByte('\n')
	}

	return agentkit.TextResult(b.String()), nil
}
