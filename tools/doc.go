// Package tools provides the built-in tool set: file access (Read, Write,
// Edit), search (Glob, Grep), shell execution (Bash), task tracking
// (TodoWrite), and sub-agent spawning (Task).
//
// File and shell tools confine themselves to the workspace directory carried
// in the context; paths that escape it are refused before any side effect.
package tools
