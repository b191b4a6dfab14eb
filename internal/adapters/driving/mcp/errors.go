// Package mcp provides an MCP (Model Context Protocol) server adapter
// for docsage. It lets AI assistants query the ingested document corpus
// through the retrieve and ask operations.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
