package driving

import (
	"context"

	"github.com/docsage/docsage/internal/core/domain"
)

// IngestionService manages the document lifecycle.
type IngestionService interface {
	// Ingest extracts, chunks, embeds and indexes one document.
	// Synchronous; may take seconds. Re-ingesting identical content is
	// a no-op returning the existing Ready document.
	Ingest(ctx context.Context, sourceURI string, content []byte, fileType string) (*domain.Document, error)

	// Delete removes a document, its chunks and its index entries.
	// Shared embedding records survive.
	Delete(ctx context.Context, documentID string) error

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// List returns all documents.
	List(ctx context.Context) ([]domain.Document, error)
}

// RetrievalService answers similarity queries against the index.
type RetrievalService interface {
	// Retrieve embeds the query and returns ranked, deduplicated
	// passages above the score threshold. An empty result is valid
	// when nothing relevant exists.
	Retrieve(ctx context.Context, query string, opts domain.AskOptions) ([]domain.RetrievalResult, error)
}

// AnswerService produces grounded answers with citations.
type AnswerService interface {
	// Ask retrieves relevant passages and synthesizes an answer.
	// When generation fails after retrieval succeeded, the returned
	// answer carries the citations alongside
	// domain.ErrGenerationUnavailable.
	Ask(ctx context.Context, query string, opts domain.AskOptions) (*domain.Answer, error)
}

// BriefingService exposes idempotent content-generation entry points
// the scheduler can be driven by. All methods are pure producers;
// delivery is the caller's concern.
type BriefingService interface {
	// DailyWords returns n vocabulary entries.
	DailyWords(n int) *domain.Briefing

	// DailyQuotes returns n inspirational quotes.
	DailyQuotes(n int) *domain.Briefing

	// BookSummary generates a book summary via the LLM.
	BookSummary(ctx context.Context) (*domain.Briefing, error)

	// NewsDigest generates a tech news digest via the LLM.
	NewsDigest(ctx context.Context) (*domain.Briefing, error)
}

// Scheduler manages background briefing generation.
type Scheduler interface {
	// Start begins running scheduled tasks. Blocks until the context
	// is cancelled or an error occurs.
	Start(ctx context.Context) error

	// Stop gracefully stops all running tasks.
	Stop() error
}
