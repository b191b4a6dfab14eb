package mcp

import (
	"context"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driving"
)

// ChunkReader provides chunk access for the document content resource.
// Satisfied by the document store.
type ChunkReader interface {
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)
}

// Ports aggregates the driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers similarity queries. Required.
	Retrieval driving.RetrievalService

	// Answer synthesizes grounded answers. Optional; the ask tool is
	// only registered when present (no LLM configured otherwise).
	Answer driving.AnswerService

	// Ingestion lists and reads documents. Optional; document
	// resources degrade gracefully without it.
	Ingestion driving.IngestionService

	// Chunks reads chunk text for the document content resource.
	// Optional.
	Chunks ChunkReader
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
