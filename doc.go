// Package agentkit implements a small agent runtime on top of the Anthropic
// Messages API: a tool-execution loop, a typed tool registry, and recursive
// subagent spawning with depth bounding and per-type tool restrictions.
//
// The two main entry points are:
//
//   - [Agent], a stateless execution engine holding configuration and tools.
//   - [Client], a stateful session container wrapping an Agent.
//
// # Quick Start
//
//	types := agentkit.NewTypeRegistry()
//	a := agentkit.NewAgent(
//	    agentkit.WithWorkDir("/tmp/workspace"),
//	    agentkit.WithOnInit(func(a *agentkit.Agent) { tools.RegisterAll(a, types) }),
//	)
//	stream := a.Run(ctx, "What files are in this directory?")
//	for stream.Next() {
//	    if e, ok := stream.Current().(*agentkit.StreamEvent); ok {
//	        fmt.Print(e.Delta)
//	    }
//	}
//
// # Sub-packages
//
//   - [tools] provides built-in tools (Read, Write, Edit, Bash, Glob, Grep,
//     TodoWrite) and the Task tool for spawning subagents.
//   - [subagent] runs isolated child agent loops with a recursion bound.
//   - [permission] restricts which tools a loop instance may call.
//   - [session] provides an in-memory SessionStore.
//   - [webui] serves a REST + WebSocket monitor for running agents.
package agentkit
