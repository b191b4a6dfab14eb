package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docsage/docsage/internal/core/domain"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query       string   `json:"query" jsonschema:"the query to find relevant passages for"`
	TopK        int      `json:"top_k,omitempty" jsonschema:"maximum number of passages to return (default 5)"`
	DocumentIDs []string `json:"document_ids,omitempty" jsonschema:"restrict retrieval to these document IDs"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Passages []PassageOutput `json:"passages"`
	Count    int             `json:"count"`
}

// PassageOutput represents a single retrieved passage.
type PassageOutput struct {
	ChunkID       string  `json:"chunk_id"`
	DocumentID    string  `json:"document_id"`
	SequenceIndex int     `json:"sequence_index"`
	Text          string  `json:"text"`
	Score         float64 `json:"score"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question    string   `json:"question" jsonschema:"the question to answer from the ingested documents"`
	TopK        int      `json:"top_k,omitempty" jsonschema:"maximum number of passages to ground the answer on (default 5)"`
	DocumentIDs []string `json:"document_ids,omitempty" jsonschema:"restrict the answer to these document IDs"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string            `json:"answer"`
	Citations []domain.Citation `json:"citations"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput represents a single document summary.
type DocumentOutput struct {
	ID        string `json:"id"`
	SourceURI string `json:"source_uri"`
	Title     string `json:"title"`
	Status    string `json:"status"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Retrieve passages relevant to a query from the ingested documents",
	}, s.handleRetrieve)

	if s.ports.Answer != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a question grounded in the ingested documents, with citations",
		}, s.handleAsk)
	}

	if s.ports.Ingestion != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_documents",
			Description: "List all ingested documents",
		}, s.handleListDocuments)
	}
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	opts := domain.AskOptions{
		TopK:        input.TopK,
		DocumentIDs: input.DocumentIDs,
	}

	results, err := s.ports.Retrieval.Retrieve(ctx, input.Query, opts)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Passages: make([]PassageOutput, len(results)),
		Count:    len(results),
	}

	for i := range results {
		output.Passages[i] = PassageOutput{
			ChunkID:       results[i].ChunkID,
			DocumentID:    results[i].DocumentID,
			SequenceIndex: results[i].SequenceIndex,
			Text:          results[i].Text,
			Score:         results[i].Score,
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	opts := domain.AskOptions{
		TopK:        input.TopK,
		DocumentIDs: input.DocumentIDs,
	}

	answer, err := s.ports.Answer.Ask(ctx, input.Question, opts)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:    answer.Text,
		Citations: answer.Citations,
	}, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, err := s.ports.Ingestion.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}

	for i := range docs {
		output.Documents[i] = DocumentOutput{
			ID:        docs[i].ID,
			SourceURI: docs[i].SourceURI,
			Title:     docs[i].Title,
			Status:    string(docs[i].Status),
		}
	}

	return nil, output, nil
}
