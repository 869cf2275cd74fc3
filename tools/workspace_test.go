package tools

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidarchive/agentkit"
)

func workspaceCtx(t *testing.T) (context.Context, string) {
	t.Helper()
	dir := t.TempDir()
	return agentkit.WithContextWorkDir(context.Background(), dir), dir
}

func TestResolvePathRelative(t *testing.T) {
	ctx, dir := workspaceCtx(t)

	resolved, err := resolvePath(ctx, "sub/file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sub", "file.txt"), resolved)
}

func TestResolvePathEscape(t *testing.T) {
	ctx, _ := workspaceCtx(t)

	_, err := resolvePath(ctx, "../outside.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes workspace")
}

func TestResolvePathAbsoluteOutside(t *testing.T) {
	ctx, _ := workspaceCtx(t)

	_, err := resolvePath(ctx, "/etc/passwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes workspace")
}

func TestResolvePathAbsoluteInside(t *testing.T) {
	ctx, dir := workspaceCtx(t)

	resolved, err := resolvePath(ctx, filepath.Join(dir, "ok.txt"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ok.txt"), resolved)
}

func TestResolvePathDotDotInside(t *testing.T) {
	ctx, dir := workspaceCtx(t)

	// Stays inside after cleaning, so it is allowed.
	resolved, err := resolvePath(ctx, "a/../b.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b.txt"), resolved)
}

func TestResolvePathNoWorkspace(t *testing.T) {
	resolved, err := resolvePath(context.Background(), "/etc/hosts")
	require.NoError(t, err)
	assert.Equal(t, "/etc/hosts", resolved)
}

func TestCheckCommandBlocked(t *testing.T) {
	for _, cmd := range []string{
		"sudo apt install x",
		"shutdown -h now",
		"reboot",
		"mkfs.ext4 /dev/sda1",
		"rm -rf /",
		"rm  -rf  /",
		"cd /tmp && rm -rf /",
	} {
		assert.Error(t, checkCommand(cmd), "expected %q to be blocked", cmd)
	}
}

func TestCheckCommandAllowed(t *testing.T) {
	for _, cmd := range []string{
		"ls -la",
		"rm -rf ./build",
		"go test ./...",
		"echo sudo", // sudo not in command position
		"",
	} {
		assert.NoError(t, checkCommand(cmd), "expected %q to be allowed", cmd)
	}
}
