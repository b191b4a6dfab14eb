// Package memory provides in-memory store implementations, used in
// tests and as a zero-setup fallback.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interfaces.
var (
	_ driven.DocumentStore  = (*DocumentStore)(nil)
	_ driven.EmbeddingStore = (*DocumentStore)(nil)
)

// DocumentStore is an in-memory implementation of driven.DocumentStore
// and driven.EmbeddingStore.
type DocumentStore struct {
	mu         sync.RWMutex
	documents  map[string]domain.Document
	chunks     map[string][]domain.Chunk
	embeddings map[string]domain.EmbeddingRecord
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents:  make(map[string]domain.Document),
		chunks:     make(map[string][]domain.Chunk),
		embeddings: make(map[string]domain.EmbeddingRecord),
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetDocumentBySourceURI retrieves a document by its source URI.
func (s *DocumentStore) GetDocumentBySourceURI(_ context.Context, sourceURI string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.documents {
		doc := s.documents[id]
		if doc.SourceURI == sourceURI {
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListDocuments returns all documents ordered by ID.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Document, 0, len(s.documents))
	for id := range s.documents {
		result = append(result, s.documents[id])
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ReplaceChunks atomically replaces all chunks for a document.
func (s *DocumentStore) ReplaceChunks(_ context.Context, documentID string, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	replacement := make([]domain.Chunk, len(chunks))
	copy(replacement, chunks)
	s.chunks[documentID] = replacement
	return nil
}

// GetChunks retrieves all chunks for a document ordered by sequence.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks := make([]domain.Chunk, len(s.chunks[documentID]))
	copy(chunks, s.chunks[documentID])
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].SequenceIndex < chunks[j].SequenceIndex })
	return chunks, nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *DocumentStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, chunks := range s.chunks {
		for _, chunk := range chunks {
			if chunk.ID == id {
				return &chunk, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// DeleteDocument removes a document and its chunks. Embedding records
// are content-addressed and survive document deletion.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	delete(s.chunks, id)
	return nil
}

// GetEmbedding retrieves an embedding record by content hash.
func (s *DocumentStore) GetEmbedding(_ context.Context, contentHash string) (*domain.EmbeddingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.embeddings[contentHash]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// SaveEmbedding stores an embedding record keyed by content hash.
func (s *DocumentStore) SaveEmbedding(_ context.Context, rec *domain.EmbeddingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embeddings[rec.ContentHash] = *rec
	return nil
}

// EmbeddingCount returns the number of stored embedding records.
func (s *DocumentStore) EmbeddingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.embeddings)
}
