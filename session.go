package agentkit

import (
	"context"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/shopspring/decimal"
)

// Session holds the conversation state for a single agent run or multi-turn
// client. A session belongs to exactly one loop at a time; the loop appends
// messages after each model call and each tool execution. A subagent always
// gets a brand-new session — isolation is by construction, a child session
// holds no reference to its parent's.
type Session struct {
	ID        string
	AgentType AgentType
	Messages  []anthropic.MessageParam
	Metadata  SessionMeta
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionMeta contains summary statistics for a session.
type SessionMeta struct {
	Model       anthropic.Model
	TotalCost   decimal.Decimal
	TotalTokens Usage
	NumTurns    int
}

// NewSession creates a new empty session.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:        GenerateID(PrefixSession),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a copy of the session with a new ID and copied history.
func (s *Session) Clone() *Session {
	msgs := make([]anthropic.MessageParam, len(s.Messages))
	copy(msgs, s.Messages)
	now := time.Now()
	return &Session{
		ID:        GenerateID(PrefixSession),
		AgentType: s.AgentType,
		Messages:  msgs,
		Metadata:  s.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SessionStore defines the interface for session storage backends. The core
// never persists anything itself; a store retains sessions under its own
// lifecycle (e.g. the web UI's in-memory registry).
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
