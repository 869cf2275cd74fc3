package tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/voidarchive/agentkit"
)

const maxOutputBytes = 30_000

// resolvePath resolves path against the workspace directory from the context
// and enforces confinement: when a workspace is configured, the resolved
// path must stay inside it. Without a workspace, relative paths resolve
// against the process working directory.
func resolvePath(ctx context.Context, path string) (string, error) {
	workDir := agentkit.ContextWorkDir(ctx)

	resolved := path
	if !filepath.IsAbs(resolved) {
		if workDir != "" {
			resolved = filepath.Join(workDir, resolved)
		}
	}
	resolved, err := filepath.Abs(resolved)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	resolved = filepath.Clean(resolved)

	if workDir != "" {
		absDir, err := filepath.Abs(workDir)
		if err != nil {
			return "", fmt.Errorf("invalid workspace: %w", err)
		}
		if resolved != absDir && !strings.HasPrefix(resolved, absDir+string(filepath.Separator)) {
			return "", fmt.Errorf("path %s escapes workspace %s", path, absDir)
		}
	}

	return resolved, nil
}

// blockedCommands are refused outright regardless of arguments.
var blockedCommands = []string{"sudo", "shutdown", "reboot", "halt", "poweroff"}

// checkCommand refuses destructive or privilege-escalating commands before
// anything is spawned.
func checkCommand(command string) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil
	}

	base := filepath.Base(fields[0])
	for _, blocked := range blockedCommands {
		if base == blocked {
			return fmt.Errorf("command %q is blocked", blocked)
		}
	}
	if strings.HasPrefix(base, "mkfs") {
		return fmt.Errorf("command %q is blocked", base)
	}

	normalized := strings.Join(fields, " ")
	if strings.Contains(normalized, "rm -rf /") || strings.Contains(normalized, "rm -fr /") {
		return fmt.Errorf("refusing to run recursive delete against the filesystem root")
	}

	return nil
}

// applyExecContext sets cmd.Dir and cmd.Env from the agent context values.
func applyExecContext(ctx context.Context, cmd *exec.Cmd) {
	if dir := agentkit.ContextWorkDir(ctx); dir != "" {
		cmd.Dir = dir
	}
	if env := agentkit.ContextEnv(ctx); len(env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}
}

// truncate caps tool output at maxOutputBytes.
func truncate(text string) string {
	if len(text) > maxOutputBytes {
		return text[:maxOutputBytes] + "\n... [output truncated]"
	}
	return text
}
