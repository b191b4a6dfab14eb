package driven

import (
	"context"

	"github.com/docsage/docsage/internal/core/domain"
)

// DocumentStore persists documents and chunks. Backed by SQLite.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocumentBySourceURI retrieves a document by its source URI.
	GetDocumentBySourceURI(ctx context.Context, sourceURI string) (*domain.Document, error)

	// ListDocuments returns all documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// ReplaceChunks atomically replaces all chunks for a document with
	// the given set. The prior generation stays readable until the
	// replacement commits.
	ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error

	// GetChunks retrieves all chunks for a document ordered by
	// sequence index.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error
}

// EmbeddingStore persists embedding records content-addressed by hash.
// Records are shared across documents with identical chunk text and are
// never removed by document deletion.
type EmbeddingStore interface {
	// GetEmbedding retrieves a record by content hash. Returns
	// domain.ErrNotFound on a miss.
	GetEmbedding(ctx context.Context, contentHash string) (*domain.EmbeddingRecord, error)

	// SaveEmbedding stores a record, replacing any prior record for
	// the same hash.
	SaveEmbedding(ctx context.Context, rec *domain.EmbeddingRecord) error
}
