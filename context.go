package agentkit

import "context"

type contextKey int

const (
	ctxKeyWorkDir contextKey = iota
	ctxKeyEnv
)

// WithContextWorkDir returns a context carrying the agent workspace directory.
// File tools resolve relative paths against it and refuse paths escaping it.
func WithContextWorkDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, ctxKeyWorkDir, dir)
}

// ContextWorkDir returns the workspace directory from context, or empty string.
func ContextWorkDir(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyWorkDir).(string); ok {
		return v
	}
	return ""
}

// WithContextEnv returns a context with extra environment variables for
// command execution.
func WithContextEnv(ctx context.Context, env map[string]string) context.Context {
	return context.WithValue(ctx, ctxKeyEnv, env)
}

// ContextEnv returns the environment variables from context, or nil.
func ContextEnv(ctx context.Context) map[string]string {
	if v, ok := ctx.Value(ctxKeyEnv).(map[string]string); ok {
		return v
	}
	return nil
}
