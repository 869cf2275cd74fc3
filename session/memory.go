// Package session provides stores for conversation sessions. Sessions live
// only for the life of the process; there is no durable persistence layer.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/voidarchive/agentkit"
)

// MemoryStore keeps sessions in a map guarded by a mutex. Safe for
// concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*agentkit.Session
}

var _ agentkit.SessionStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*agentkit.Session),
	}
}

// Save stores a snapshot of the session. Later mutations by the caller do
// not leak into the store.
func (s *MemoryStore) Save(_ context.Context, sess *agentkit.Session) error {
	if sess == nil {
		return fmt.Errorf("session is nil")
	}
	if sess.ID == "" {
		return fmt.Errorf("session has no ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = snapshot(sess)
	return nil
}

// Load returns a snapshot of the stored session.
func (s *MemoryStore) Load(_ context.Context, id string) (*agentkit.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q not found", id)
	}
	return snapshot(sess), nil
}

// Delete removes a session. Deleting an unknown ID is not an error.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// List returns the IDs of all stored sessions.
func (s *MemoryStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// snapshot copies a session, keeping its ID. Unlike Session.Clone it does not
// mint a new identity; a store round-trip must hand back the same session.
func snapshot(sess *agentkit.Session) *agentkit.Session {
	cp := *sess
	cp.Messages = make([]anthropic.MessageParam, len(sess.Messages))
	copy(cp.Messages, sess.Messages)
	return &cp
}
