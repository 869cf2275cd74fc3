package tools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/creack/pty"

	"github.com/voidarchive/agentkit"
)

const (
	defaultBashTimeoutMs = 120_000
	maxBashTimeoutMs     = 600_000
)

// BashInput defines the input for the Bash tool.
type BashInput struct {
	Command     string `json:"command" jsonschema:"required,description=The command to execute"`
	Description string `json:"description,omitempty" jsonschema:"description=Description of what this command does"`
	Timeout     *int   `json:"timeout,omitempty" jsonschema:"description=Timeout in milliseconds (max 600000)"`
}

// BashTool executes shell commands inside the workspace. Destructive and
// privilege-escalating commands are refused before anything is spawned; a
// non-zero exit code comes back as an error result with the output attached.
type BashTool struct{}

var _ agentkit.Tool[BashInput] = (*BashTool)(nil)

func (t *BashTool) Name() string        { return "Bash" }
func (t *BashTool) Description() string { return "Execute a bash command in the workspace" }

func (t *BashTool) Execute(ctx context.Context, input BashInput) (*agentkit.ToolResult, error) {
	if input.Command == "" {
		return agentkit.ErrorResult("command is required"), nil
	}

	if err := checkCommand(input.Command); err != nil {
		return agentkit.ErrorResult(err.Error()), nil
	}

	timeoutMs := defaultBashTimeoutMs
	if input.Timeout != nil {
		timeoutMs = *input.Timeout
		if timeoutMs <= 0 {
			timeoutMs = defaultBashTimeoutMs
		}
		if timeoutMs > maxBashTimeoutMs {
			timeoutMs = maxBashTimeoutMs
		}
	}

	cmdCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, "bash", "-c", input.Command)
	applyExecContext(ctx, cmd)

	// PTY gives more realistic output capture for interactive-ish tools.
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return t.executeWithoutPTY(cmdCtx, ctx, input.Command, timeoutMs)
	}
	defer ptmx.Close()

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, ptmx) // PTY read returns EIO on process exit, ignore

	waitErr := cmd.Wait()

	output := truncate(buf.String())

	exitCode := 0
	if waitErr != nil {
		// A killed process still reports an ExitError, so the deadline
		// check has to come first.
		if cmdCtx.Err() == context.DeadlineExceeded {
			return agentkit.ErrorResult(fmt.Sprintf("command timed out after %dms", timeoutMs)), nil
		}
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
	}

	result := agentkit.TextResult(output)
	result.Metadata = map[string]any{"exit_code": exitCode}
	if exitCode != 0 {
		result.IsError = true
	}
	return result, nil
}

func (t *BashTool) executeWithoutPTY(cmdCtx, agentCtx context.Context, command string, timeoutMs int) (*agentkit.ToolResult, error) {
	cmd := exec.CommandContext(cmdCtx, "bash", "-c", command)
	applyExecContext(agentCtx, cmd)

	output, err := cmd.CombinedOutput()
	text := truncate(string(output))

	exitCode := 0
	if err != nil {
		if cmdCtx.Err() == context.DeadlineExceeded {
			return agentkit.ErrorResult(fmt.Sprintf("command timed out after %dms", timeoutMs)), nil
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
	}

	result := agentkit.TextResult(text)
	result.Metadata = map[string]any{"exit_code": exitCode}
	if exitCode != 0 {
		result.IsError = true
	}
	return result, nil
}
