package agentkit

import (
	"context"
	"sync"
)

// Client is a stateful session container wrapping an Agent. It maintains
// conversation history across multiple Query calls.
type Client struct {
	agent   *Agent
	session *Session
	store   SessionStore

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewClient creates a Client with its own Agent configured by the given
// options.
func NewClient(opts ...AgentOption) *Client {
	agent := NewAgent(opts...)
	session := NewSession()
	session.AgentType = agent.opts.agentType

	return &Client{
		agent:   agent,
		session: session,
		store:   agent.opts.sessionStore,
	}
}

// Agent returns the underlying Agent.
func (c *Client) Agent() *Agent { return c.agent }

// Session returns the client's current session.
func (c *Client) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Query sends a prompt within the client's ongoing session. History is
// maintained across calls. When a store is configured, the session is saved
// after the run completes.
func (c *Client) Query(ctx context.Context, prompt string) *AgentStream {
	c.mu.Lock()
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	session := c.session
	c.mu.Unlock()

	stream := c.agent.RunWithSession(ctx, session, prompt)
	if c.store == nil {
		return stream
	}
	return c.savingStream(ctx, stream, session)
}

// savingStream wraps a stream so the session is saved once it is drained.
func (c *Client) savingStream(ctx context.Context, inner *AgentStream, session *Session) *AgentStream {
	events := make(chan Event)
	out := newStream(events, session)

	go func() {
		defer close(events)
		for inner.Next() {
			events <- inner.Current()
		}
		// Save errors are deliberately swallowed here; the run itself
		// succeeded and the caller still has the live session.
		_ = c.store.Save(ctx, session)
	}()

	return out
}

// Interrupt cancels the currently running Query, if any. The session is
// preserved; the next Query continues the conversation.
func (c *Client) Interrupt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Resume replaces the current session with one loaded from the store.
func (c *Client) Resume(ctx context.Context, sessionID string) error {
	if c.store == nil {
		return ErrNoSessionStore
	}
	session, err := c.store.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
	return nil
}

// Fork creates a Client sharing the same Agent with a cloned session, so the
// two histories diverge from this point.
func (c *Client) Fork() *Client {
	c.mu.Lock()
	cloned := c.session.Clone()
	c.mu.Unlock()

	return &Client{
		agent:   c.agent,
		session: cloned,
		store:   c.store,
	}
}
