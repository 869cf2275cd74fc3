package agentkit

import (
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	s := NewSession()
	assert.True(t, strings.HasPrefix(s.ID, "sess_"))
	assert.Empty(t, s.Messages)
	assert.False(t, s.CreatedAt.IsZero())
}

func TestSessionClone(t *testing.T) {
	s := NewSession()
	s.AgentType = AgentCode
	s.Messages = append(s.Messages,
		anthropic.NewUserMessage(anthropic.NewTextBlock("one")))

	clone := s.Clone()
	assert.NotEqual(t, s.ID, clone.ID)
	assert.Equal(t, s.AgentType, clone.AgentType)
	require.Len(t, clone.Messages, 1)

	// Histories diverge after cloning.
	clone.Messages = append(clone.Messages,
		anthropic.NewUserMessage(anthropic.NewTextBlock("two")))
	assert.Len(t, s.Messages, 1)
}

func TestGenerateIDFormat(t *testing.T) {
	id := GenerateID(PrefixRun)
	parts := strings.Split(id, "_")
	require.Len(t, parts, 3)
	assert.Equal(t, "run", parts[0])
	assert.Len(t, parts[1], 15) // YYYYMMDDTHHmmss
	assert.Len(t, parts[2], 16)

	assert.NotEqual(t, id, GenerateID(PrefixRun))
}
