package driven

import (
	"context"

	"github.com/docsage/docsage/internal/core/domain"
)

// VectorIndex provides similarity search over chunk embeddings.
// Vectors are normalized at insertion, so cosine similarity reduces to
// a dot product. The index supports concurrent readers and an upsert
// for one document must not block searches touching other documents.
type VectorIndex interface {
	// Upsert inserts or replaces entries, keyed by chunk ID.
	Upsert(ctx context.Context, entries []domain.IndexEntry) error

	// RemoveDocument drops every entry belonging to a document.
	RemoveDocument(ctx context.Context, documentID string) error

	// ReplaceDocument atomically swaps a document's entries for the
	// given set. A concurrent search sees either the old entries or the
	// new ones, never an empty in-between. Entries for other documents
	// are rejected.
	ReplaceDocument(ctx context.Context, documentID string, entries []domain.IndexEntry) error

	// Search returns the top-k entries by descending score. Ties break
	// by earliest sequence index, then chunk ID. A non-empty filter
	// restricts candidates to the given document IDs before ranking.
	Search(ctx context.Context, query []float32, k int, filter []string) ([]VectorHit, error)

	// Len returns the number of indexed entries.
	Len() int
}

// VectorHit is one similarity search result.
type VectorHit struct {
	// Entry is the matched index entry.
	Entry domain.IndexEntry

	// Score is the cosine similarity to the query.
	Score float64
}
