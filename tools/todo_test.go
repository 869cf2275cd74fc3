package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodoToolWriteAndRender(t *testing.T) {
	tool := NewTodoTool()

	result, err := tool.Execute(context.Background(), TodoInput{
		Todos: []TodoItem{
			{Content: "Read the config loader", ActiveForm: "Reading the config loader", Status: TodoCompleted},
			{Content: "Write the parser", ActiveForm: "Writing the parser", Status: TodoInProgress},
			{Content: "Run tests", ActiveForm: "Running tests", Status: TodoPending},
		},
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "[x] Read the config loader")
	assert.Contains(t, text, "[>] Writing the parser") // in_progress shows active form
	assert.Contains(t, text, "[ ] Run tests")
	assert.Contains(t, text, "1/3 tasks completed")

	assert.Len(t, tool.Todos(), 3)
}

func TestTodoToolReplacesWholeList(t *testing.T) {
	tool := NewTodoTool()
	ctx := context.Background()

	_, err := tool.Execute(ctx, TodoInput{Todos: []TodoItem{
		{Content: "a", ActiveForm: "doing a", Status: TodoPending},
		{Content: "b", ActiveForm: "doing b", Status: TodoPending},
	}})
	require.NoError(t, err)

	_, err = tool.Execute(ctx, TodoInput{Todos: []TodoItem{
		{Content: "c", ActiveForm: "doing c", Status: TodoCompleted},
	}})
	require.NoError(t, err)

	todos := tool.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, "c", todos[0].Content)
}

func TestTodoToolValidation(t *testing.T) {
	tool := NewTodoTool()
	ctx := context.Background()

	tests := []struct {
		name  string
		todos []TodoItem
		want  string
	}{
		{
			name:  "missing content",
			todos: []TodoItem{{ActiveForm: "doing", Status: TodoPending}},
			want:  "content is required",
		},
		{
			name:  "missing active form",
			todos: []TodoItem{{Content: "do", Status: TodoPending}},
			want:  "activeForm is required",
		},
		{
			name:  "bad status",
			todos: []TodoItem{{Content: "do", ActiveForm: "doing", Status: "paused"}},
			want:  "invalid status",
		},
		{
			name: "two in progress",
			todos: []TodoItem{
				{Content: "a", ActiveForm: "doing a", Status: TodoInProgress},
				{Content: "b", ActiveForm: "doing b", Status: TodoInProgress},
			},
			want: "only one todo may be in_progress",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tool.Execute(ctx, TodoInput{Todos: tt.todos})
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.want)
		})
	}

	// A rejected list never replaces the stored one.
	assert.Empty(t, tool.Todos())
}
