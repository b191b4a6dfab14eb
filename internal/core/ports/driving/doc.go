// Package driving provides interfaces exposed to external actors
// (primary/inbound ports): the CLI, the TUI, the MCP server and the
// scheduler drive the engine through these.
package driving
