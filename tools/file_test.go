package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidarchive/agentkit"
)

func resultText(t *testing.T, r *agentkit.ToolResult) string {
	t.Helper()
	require.NotEmpty(t, r.Content)
	var texts string
	for _, b := range r.Content {
		if b.OfText != nil {
			texts += b.OfText.Text
		}
	}
	return texts
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadTool(t *testing.T) {
	ctx, dir := workspaceCtx(t)
	writeFile(t, dir, "hello.txt", "line one\nline two\n")

	result, err := (&ReadTool{}).Execute(ctx, ReadInput{FilePath: "hello.txt"})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "line one")
	assert.Contains(t, text, "line two")
	assert.Contains(t, text, "1\t") // line numbers
}

func TestReadToolOffsetLimit(t *testing.T) {
	ctx, dir := workspaceCtx(t)
	writeFile(t, dir, "nums.txt", "a\nb\nc\nd\n")

	offset, limit := 2, 2
	result, err := (&ReadTool{}).Execute(ctx, ReadInput{
		FilePath: "nums.txt",
		Offset:   &offset,
		Limit:    &limit,
	})
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, "b")
	assert.Contains(t, text, "c")
	assert.NotContains(t, text, "a\n")
	assert.NotContains(t, text, "d")
}

func TestReadToolMissingFile(t *testing.T) {
	ctx, _ := workspaceCtx(t)

	result, err := (&ReadTool{}).Execute(ctx, ReadInput{FilePath: "nope.txt"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestReadToolEscape(t *testing.T) {
	ctx, _ := workspaceCtx(t)

	result, err := (&ReadTool{}).Execute(ctx, ReadInput{FilePath: "../../etc/passwd"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "escapes workspace")
}

func TestWriteToolCreatesDirs(t *testing.T) {
	ctx, dir := workspaceCtx(t)

	result, err := (&WriteTool{}).Execute(ctx, WriteInput{
		FilePath: "a/b/c.txt",
		Content:  "nested",
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	data, err := os.ReadFile(filepath.Join(dir, "a", "b", "c.txt"))
	require.NoError(t, err)
	assert.Equal(t, "nested", string(data))
}

func TestWriteToolEscape(t *testing.T) {
	ctx, _ := workspaceCtx(t)

	result, err := (&WriteTool{}).Execute(ctx, WriteInput{
		FilePath: "../evil.txt",
		Content:  "nope",
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "escapes workspace")
}

func TestEditTool(t *testing.T) {
	ctx, dir := workspaceCtx(t)
	path := writeFile(t, dir, "code.go", "func oldName() {}\n")

	result, err := (&EditTool{}).Execute(ctx, EditInput{
		FilePath:  "code.go",
		OldString: "oldName",
		NewString: "newName",
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "func newName() {}\n", string(data))
}

func TestEditToolAmbiguous(t *testing.T) {
	ctx, dir := workspaceCtx(t)
	writeFile(t, dir, "dup.txt", "x x x\n")

	result, err := (&EditTool{}).Execute(ctx, EditInput{
		FilePath:  "dup.txt",
		OldString: "x",
		NewString: "y",
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "replace_all")
}

func TestEditToolReplaceAll(t *testing.T) {
	ctx, dir := workspaceCtx(t)
	path := writeFile(t, dir, "dup.txt", "x x x\n")

	result, err := (&EditTool{}).Execute(ctx, EditInput{
		FilePath:   "dup.txt",
		OldString:  "x",
		NewString:  "y",
		ReplaceAll: true,
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "y y y\n", string(data))
}

func TestEditToolNotFound(t *testing.T) {
	ctx, dir := workspaceCtx(t)
	writeFile(t, dir, "f.txt", "hello\n")

	result, err := (&EditTool{}).Execute(ctx, EditInput{
		FilePath:  "f.txt",
		OldString: "absent",
		NewString: "replacement",
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestGlobTool(t *testing.T) {
	ctx, dir := workspaceCtx(t)
	writeFile(t, dir, "main.go", "package main\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pkg"), 0o755))
	writeFile(t, dir, "pkg/util.go", "package pkg\n")
	writeFile(t, dir, "README.md", "docs\n")

	result, err := (&GlobTool{}).Execute(ctx, GlobInput{Pattern: "**/*.go"})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "main.go")
	assert.Contains(t, text, filepath.Join("pkg", "util.go"))
	assert.NotContains(t, text, "README.md")
}

func TestGlobToolNoMatches(t *testing.T) {
	ctx, _ := workspaceCtx(t)

	result, err := (&GlobTool{}).Execute(ctx, GlobInput{Pattern: "*.rs"})
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "No files matched")
}
