// Package terminal provides the mock terminal application.
//
// Each terminal window owns a session keyed by its window instance id. A
// session interprets a small set of built-in commands and keeps its output
// buffer until the window closes.
//
// Tools:
//   - terminal.run: Interpret one command line and return the new output
//   - terminal.output: Return the full output buffer
//
// Commands: help, clear, date, whoami, about, echo <message>.
package terminal
