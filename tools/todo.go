package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/voidarchive/agentkit"
)

// Todo statuses.
const (
	TodoPending    = "pending"
	TodoInProgress = "in_progress"
	TodoCompleted  = "completed"
)

// TodoItem represents a single todo entry. Content is the imperative form
// ("Run tests"), ActiveForm the present continuous form shown while the item
// is in progress ("Running tests").
type TodoItem struct {
	Content    string `json:"content" jsonschema:"required,description=Task description in imperative form"`
	ActiveForm string `json:"activeForm" jsonschema:"required,description=Task description in present continuous form"`
	Status     string `json:"status" jsonschema:"required,description=pending|in_progress|completed"`
}

// TodoInput defines the input for the TodoWrite tool. The list always
// replaces the previous one wholesale.
type TodoInput struct {
	Todos []TodoItem `json:"todos" jsonschema:"required,description=The complete todo list to write"`
}

// TodoTool manages a concurrent-safe in-memory todo list scoped to one
// agent. Invalid lists are rejected whole; the stored list is only ever
// replaced by a valid one.
type TodoTool struct {
	mu    sync.RWMutex
	todos []TodoItem
}

// NewTodoTool creates an empty todo list tool.
func NewTodoTool() *TodoTool { return &TodoTool{} }

var _ agentkit.Tool[TodoInput] = (*TodoTool)(nil)

func (t *TodoTool) Name() string { return "TodoWrite" }
func (t *TodoTool) Description() string {
	return "Write and update a todo list for tracking task progress"
}

func (t *TodoTool) Execute(_ context.Context, input TodoInput) (*agentkit.ToolResult, error) {
	if err := validateTodos(input.Todos); err != nil {
		return agentkit.ErrorResult(err.Error()), nil
	}

	t.mu.Lock()
	t.todos = make([]TodoItem, len(input.Todos))
	copy(t.todos, input.Todos)
	rendered := renderTodos(t.todos)
	t.mu.Unlock()

	return agentkit.TextResult(rendered), nil
}

// Todos returns a snapshot of the current todo list.
func (t *TodoTool) Todos() []TodoItem {
	t.mu.RLock()
	defer t.mu.RUnlock()
	result := make([]TodoItem, len(t.todos))
	copy(result, t.todos)
	return result
}

// validateTodos checks every item before any of the list is accepted: both
// description forms present, a recognized status, and at most one item in
// progress.
func validateTodos(todos []TodoItem) error {
	inProgress := 0
	for i, item := range todos {
		if item.Content == "" {
			return fmt.Errorf("todo %d: content is required", i+1)
		}
		if item.ActiveForm == "" {
			return fmt.Errorf("todo %d: activeForm is required", i+1)
		}
		switch item.Status {
		case TodoPending, TodoCompleted:
		case TodoInProgress:
			inProgress++
		default:
			return fmt.Errorf("todo %d: invalid status %q (want pending, in_progress, or completed)", i+1, item.Status)
		}
	}
	if inProgress > 1 {
		return fmt.Errorf("only one todo may be in_progress, got %d", inProgress)
	}
	return nil
}

// renderTodos formats the list as a checklist plus a progress summary.
func renderTodos(todos []TodoItem) string {
	var b strings.Builder
	completed := 0

	for _, item := range todos {
		switch item.Status {
		case TodoCompleted:
			fmt.Fprintf(&b, "[x] %s\n", item.Content)
			completed++
		case TodoInProgress:
			fmt.Fprintf(&b, "[>] %s\n", item.ActiveForm)
		default:
			fmt.Fprintf(&b, "[ ] %s\n", item.Content)
		}
	}

	fmt.Fprintf(&b, "\n%d/%d tasks completed", completed, len(todos))
	return b.String()
}
