package agentkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultEventErr(t *testing.T) {
	ok := &ResultEvent{Subtype: "success"}
	assert.NoError(t, ok.Err())

	turns := &ResultEvent{Subtype: "error_max_turns", IsError: true}
	assert.ErrorIs(t, turns.Err(), ErrMaxTurns)

	budget := &ResultEvent{Subtype: "error_max_budget_usd", IsError: true}
	assert.ErrorIs(t, budget.Err(), ErrBudgetExhausted)

	exec := &ResultEvent{
		Subtype: "error_during_execution",
		IsError: true,
		Errors:  []string{"stream closed unexpectedly"},
	}
	assert.ErrorIs(t, exec.Err(), ErrModelProtocol)
	assert.Contains(t, exec.Err().Error(), "stream closed unexpectedly")
}
