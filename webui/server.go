package webui

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/voidarchive/agentkit"
	"github.com/voidarchive/agentkit/tools"
)

// Config holds server construction parameters.
type Config struct {
	Model    anthropic.Model
	WorkDir  string
	MaxTurns int
	Types    *agentkit.TypeRegistry
	Logger   *slog.Logger
}

// Server serves the agent JSON API and the WebSocket event feed.
type Server struct {
	cfg    Config
	store  *Store
	hub    *Hub
	logger *slog.Logger

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewServer creates a Server. A nil Types registry gets the built-in presets.
func NewServer(cfg Config) *Server {
	if cfg.Types == nil {
		cfg.Types = agentkit.NewTypeRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Model == "" {
		cfg.Model = agentkit.DefaultModel
	}

	return &Server{
		cfg:     cfg,
		store:   NewStore(),
		hub:     NewHub(cfg.Logger),
		logger:  cfg.Logger,
		cancels: make(map[string]context.CancelFunc),
	}
}

// Store exposes the record store, mainly for tests.
func (s *Server) Store() *Store { return s.store }

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/agents", s.handleListAgents)
	mux.HandleFunc("POST /api/agents", s.handleCreateAgent)
	mux.HandleFunc("GET /api/agents/{id}", s.handleGetAgent)
	mux.HandleFunc("POST /api/agents/{id}/stop", s.handleStopAgent)
	mux.HandleFunc("DELETE /api/agents/{id}", s.handleDeleteAgent)
	mux.HandleFunc("GET /api/agent-types", s.handleAgentTypes)
	mux.HandleFunc("GET /ws", s.hub.ServeWS)

	return mux
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List())
}

type createAgentRequest struct {
	AgentType string   `json:"agent_type"`
	Task      string   `json:"task"`
	Prompt    string   `json:"prompt"`
	ParentID  string   `json:"parent_id,omitempty"`
	Tools     []string `json:"tools,omitempty"`
}

func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var req createAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("prompt is required"))
		return
	}

	agentType := agentkit.AgentType(req.AgentType)
	opts, err := tools.ForAgentType(s.cfg.Types, agentType, req.Tools...)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	depth := 0
	if req.ParentID != "" {
		parent, err := s.store.Get(req.ParentID)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("unknown parent agent %q", req.ParentID))
			return
		}
		depth = parent.Depth + 1
	}

	rec := s.store.Create(agentType, req.Task, req.Prompt, req.ParentID, depth)
	s.logger.Info("agent created", "id", rec.ID, "agent_type", agentType, "depth", depth)

	go s.runAgent(rec, opts)

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleStopAgent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	cancel, ok := s.cancels[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("agent %q is not running", id))
		return
	}
	cancel()

	rec, err := s.store.Update(id, func(rec *AgentRecord) {
		rec.Status = StatusStopped
	})
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	s.broadcastRecord(rec)
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	if cancel, ok := s.cancels[id]; ok {
		cancel()
	}
	s.mu.Unlock()

	s.store.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

type agentTypeInfo struct {
	Name        agentkit.AgentType `json:"name"`
	Description string             `json:"description"`
	Tools       []string           `json:"tools,omitempty"`
}

func (s *Server) handleAgentTypes(w http.ResponseWriter, r *http.Request) {
	var out []agentTypeInfo
	for _, name := range s.cfg.Types.Types() {
		cfg, _ := s.cfg.Types.Lookup(name)
		out = append(out, agentTypeInfo{
			Name:        name,
			Description: cfg.Description,
			Tools:       cfg.Tools,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// runAgent drives one agent run, mirroring progress into the store and onto
// the WebSocket feed.
func (s *Server) runAgent(rec *AgentRecord, opts []agentkit.AgentOption) {
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancels[rec.ID] = cancel
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		delete(s.cancels, rec.ID)
		s.mu.Unlock()
	}()

	opts = append(opts,
		agentkit.WithModel(s.cfg.Model),
		agentkit.WithWorkDir(s.cfg.WorkDir),
		agentkit.WithMaxTurns(s.cfg.MaxTurns),
		agentkit.WithDepth(rec.Depth),
	)
	agent := agentkit.NewAgent(opts...)

	updated, err := s.store.Update(rec.ID, func(rec *AgentRecord) {
		rec.Status = StatusRunning
	})
	if err != nil {
		return // deleted before it started
	}
	s.broadcastRecord(updated)

	stream := agent.Run(ctx, rec.Prompt)

	for stream.Next() {
		switch e := stream.Current().(type) {
		case *agentkit.SystemEvent:
			updated, _ = s.store.Update(rec.ID, func(rec *AgentRecord) {
				rec.SessionID = e.SessionID
			})
			s.broadcastEvent(rec.ID, "system", map[string]any{"session_id": e.SessionID})

		case *agentkit.StreamEvent:
			s.broadcastEvent(rec.ID, "stream", map[string]any{"delta": e.Delta})

		case *agentkit.ToolUseEvent:
			if e.ToolName == "Task" {
				s.markWaiting(rec.ID)
			}
			s.broadcastEvent(rec.ID, "tool_use", map[string]any{
				"tool":  e.ToolName,
				"input": json.RawMessage(e.Input),
			})

		case *agentkit.ToolResultEvent:
			if e.ToolName == "Task" {
				s.markRunning(rec.ID)
			}
			s.broadcastEvent(rec.ID, "tool_result", map[string]any{
				"tool":     e.ToolName,
				"output":   e.Output,
				"is_error": e.IsError,
			})

		case *agentkit.ResultEvent:
			status := StatusCompleted
			errText := ""
			if e.IsError {
				status = StatusError
				if len(e.Errors) > 0 {
					errText = e.Errors[0]
				} else {
					errText = e.Subtype
				}
			}
			if ctx.Err() != nil {
				status = StatusStopped
			}
			updated, _ = s.store.Update(rec.ID, func(rec *AgentRecord) {
				rec.Status = status
				rec.Output = e.Result
				rec.Error = errText
				rec.NumTurns = e.NumTurns
			})
			if updated != nil {
				s.broadcastRecord(updated)
			}
		}
	}

	s.logger.Info("agent run finished", "id", rec.ID)
}

func (s *Server) markWaiting(id string) {
	if rec, err := s.store.Update(id, func(rec *AgentRecord) {
		rec.Status = StatusWaiting
	}); err == nil {
		s.broadcastRecord(rec)
	}
}

func (s *Server) markRunning(id string) {
	if rec, err := s.store.Update(id, func(rec *AgentRecord) {
		rec.Status = StatusRunning
	}); err == nil {
		s.broadcastRecord(rec)
	}
}

// eventEnvelope is the WebSocket wire format.
type eventEnvelope struct {
	AgentID string `json:"agent_id"`
	Event   string `json:"event"`
	Data    any    `json:"data,omitempty"`
}

func (s *Server) broadcastEvent(agentID, event string, data any) {
	payload, err := json.Marshal(eventEnvelope{AgentID: agentID, Event: event, Data: data})
	if err != nil {
		s.logger.Warn("failed to marshal event", "error", err)
		return
	}
	s.hub.Broadcast(payload)
}

func (s *Server) broadcastRecord(rec *AgentRecord) {
	s.broadcastEvent(rec.ID, "agent_updated", rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
