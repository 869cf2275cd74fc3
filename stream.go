package agentkit

// AgentStream is an iterator over events emitted during an agent run.
// Usage:
//
//	stream := agent.Run(ctx, "prompt")
//	for stream.Next() {
//	    event := stream.Current()
//	    // handle event
//	}
type AgentStream struct {
	events  chan Event
	current Event
	done    bool
	session *Session
}

// newStream creates a new AgentStream with the given event channel and session.
func newStream(events chan Event, session *Session) *AgentStream {
	return &AgentStream{
		events:  events,
		session: session,
	}
}

// Next advances to the next event. Returns false when the stream is exhausted.
func (s *AgentStream) Next() bool {
	if s.done {
		return false
	}
	event, ok := <-s.events
	if !ok {
		s.done = true
		return false
	}
	s.current = event
	return true
}

// Current returns the most recent event returned by Next.
func (s *AgentStream) Current() Event {
	return s.current
}

// Session returns the session associated with this stream. It is populated
// with the full conversation history after the run completes.
func (s *AgentStream) Session() *Session {
	return s.session
}
