// Package webui exposes the agent runtime over HTTP: a small JSON API for
// launching and inspecting agent runs, and a WebSocket feed of live events.
package webui

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voidarchive/agentkit"
)

// Run lifecycle statuses.
const (
	StatusCreated   = "created"
	StatusRunning   = "running"
	StatusWaiting   = "waiting"
	StatusCompleted = "completed"
	StatusError     = "error"
	StatusStopped   = "stopped"
)

// AgentRecord is the UI-facing view of one agent run. Children holds the IDs
// of sub-agents spawned on its behalf.
type AgentRecord struct {
	ID        string            `json:"id"`
	AgentType agentkit.AgentType `json:"agent_type"`
	Task      string            `json:"task"`
	Prompt    string            `json:"prompt"`
	Status    string            `json:"status"`
	Output    string            `json:"output,omitempty"`
	Error     string            `json:"error,omitempty"`
	ParentID  string            `json:"parent_id,omitempty"`
	Children  []string          `json:"children,omitempty"`
	SessionID string            `json:"session_id,omitempty"`
	Depth     int               `json:"depth"`
	NumTurns  int               `json:"num_turns"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Store keeps agent records in memory, newest first. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records map[string]*AgentRecord
}

// NewStore creates an empty record store.
func NewStore() *Store {
	return &Store{records: make(map[string]*AgentRecord)}
}

// Create registers a new record in the created state and returns it.
func (s *Store) Create(agentType agentkit.AgentType, task, prompt, parentID string, depth int) *AgentRecord {
	now := time.Now()
	rec := &AgentRecord{
		ID:        uuid.NewString(),
		AgentType: agentType,
		Task:      task,
		Prompt:    prompt,
		Status:    StatusCreated,
		ParentID:  parentID,
		Depth:     depth,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	if parentID != "" {
		if parent, ok := s.records[parentID]; ok {
			parent.Children = append(parent.Children, rec.ID)
		}
	}
	return rec.clone()
}

// Get returns a copy of the record.
func (s *Store) Get(id string) (*AgentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("agent %q not found", id)
	}
	return rec.clone(), nil
}

// List returns copies of all records, newest first.
func (s *Store) List() []*AgentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*AgentRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Update applies fn to the record under the store lock and returns the
// updated copy.
func (s *Store) Update(id string, fn func(*AgentRecord)) (*AgentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("agent %q not found", id)
	}
	fn(rec)
	rec.UpdatedAt = time.Now()
	return rec.clone(), nil
}

// Delete removes a record, unlinking it from its parent's Children. Deleting
// an unknown ID is not an error.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return
	}
	if rec.ParentID != "" {
		if parent, ok := s.records[rec.ParentID]; ok {
			parent.Children = removeID(parent.Children, id)
		}
	}
	delete(s.records, id)
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}

func (r *AgentRecord) clone() *AgentRecord {
	cp := *r
	cp.Children = append([]string(nil), r.Children...)
	return &cp
}
