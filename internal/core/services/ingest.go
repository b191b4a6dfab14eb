package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/docsage/docsage/internal/chunker"
	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
	"github.com/docsage/docsage/internal/core/ports/driving"
	"github.com/docsage/docsage/internal/logger"
)

// embedConcurrency bounds parallel embedding calls within one ingest.
const embedConcurrency = 4

var _ driving.IngestionService = (*Ingestion)(nil)

// Ingestion runs the document pipeline: extract, chunk, embed, index.
// Failures are document-scoped; a failed ingest never disturbs other
// documents or previously committed index content.
type Ingestion struct {
	docs       driven.DocumentStore
	embedder   driven.Embedder
	extractors driven.ExtractorRegistry
	index      driven.VectorIndex
	chunker    *chunker.Chunker

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewIngestion creates the ingestion service.
func NewIngestion(
	docs driven.DocumentStore,
	embedder driven.Embedder,
	extractors driven.ExtractorRegistry,
	index driven.VectorIndex,
	ch *chunker.Chunker,
) *Ingestion {
	return &Ingestion{
		docs:       docs,
		embedder:   embedder,
		extractors: extractors,
		index:      index,
		chunker:    ch,
		inFlight:   make(map[string]struct{}),
	}
}

// Ingest processes one document end to end. A second call for the same
// source URI while the first is still running fails fast with
// domain.ErrIngestInProgress. Re-ingesting identical content is a
// no-op returning the existing Ready document.
func (s *Ingestion) Ingest(ctx context.Context, sourceURI string, content []byte, fileType string) (*domain.Document, error) {
	if sourceURI == "" {
		return nil, fmt.Errorf("%w: empty source URI", domain.ErrInvalidInput)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: empty content", domain.ErrInvalidInput)
	}

	if !s.acquire(sourceURI) {
		return nil, fmt.Errorf("%w: %s", domain.ErrIngestInProgress, sourceURI)
	}
	defer s.release(sourceURI)

	logger.Section("Ingest")
	logger.Info("Ingesting %s (%d bytes, type %s)", sourceURI, len(content), fileType)

	existing, err := s.docs.GetDocumentBySourceURI(ctx, sourceURI)
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("look up document: %w", err)
	}

	result, err := s.extractors.Extract(ctx, sourceURI, fileType, content)
	if err != nil {
		// A document record only exists after a successful extraction,
		// so a fresh source that fails to extract leaves no trace.
		if existing != nil {
			s.markFailed(ctx, existing, err)
		}
		return nil, fmt.Errorf("extract %s: %w", sourceURI, err)
	}

	// Document identity is the extracted text, independent of the
	// embedding model.
	hash := domain.HashContent(result.Text, "")
	if existing != nil && existing.Status == domain.StatusReady && existing.ContentHash == hash {
		logger.Info("Content unchanged, skipping re-ingest: %s", sourceURI)
		return existing, nil
	}

	doc := existing
	if doc == nil {
		doc = &domain.Document{ID: uuid.NewString(), SourceURI: sourceURI}
	}
	doc.Title = result.Title
	doc.ContentHash = hash
	doc.Status = domain.StatusPending
	doc.Error = ""
	if err := s.docs.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	chunks, err := s.chunker.Split(result.Text)
	if err != nil {
		s.markFailed(ctx, doc, err)
		return nil, fmt.Errorf("chunk %s: %w", sourceURI, err)
	}

	model := s.embedder.ModelVersion()
	for i := range chunks {
		chunks[i].ID = uuid.NewString()
		chunks[i].DocumentID = doc.ID
		chunks[i].ContentHash = domain.HashContent(chunks[i].Text, model)
	}

	vectors, err := s.embedAll(ctx, chunks)
	if err != nil {
		// All-or-nothing: no partial entries reach the index, and the
		// prior generation (if any) stays untouched.
		s.markFailed(ctx, doc, err)
		return nil, fmt.Errorf("embed %s: %w", sourceURI, err)
	}

	if err := s.docs.ReplaceChunks(ctx, doc.ID, chunks); err != nil {
		s.markFailed(ctx, doc, err)
		return nil, fmt.Errorf("replace chunks: %w", err)
	}

	entries := make([]domain.IndexEntry, len(chunks))
	for i, c := range chunks {
		entries[i] = domain.IndexEntry{
			ChunkID:       c.ID,
			DocumentID:    c.DocumentID,
			SequenceIndex: c.SequenceIndex,
			Vector:        vectors[i],
			Text:          c.Text,
		}
	}
	// One swap: searches never observe the document with its previous
	// generation removed and the new one not yet in place.
	if err := s.index.ReplaceDocument(ctx, doc.ID, entries); err != nil {
		s.markFailed(ctx, doc, err)
		return nil, fmt.Errorf("index chunks: %w", err)
	}

	doc.Status = domain.StatusReady
	doc.IngestedAt = time.Now().UTC()
	if err := s.docs.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("finalize document: %w", err)
	}

	logger.Info("Ingested %s: %d chunks", sourceURI, len(chunks))
	return doc, nil
}

// Delete removes a document, its chunks and its index entries. Shared
// embedding records survive for other documents with identical text.
func (s *Ingestion) Delete(ctx context.Context, documentID string) error {
	if _, err := s.docs.GetDocument(ctx, documentID); err != nil {
		return err
	}
	if err := s.index.RemoveDocument(ctx, documentID); err != nil {
		return fmt.Errorf("remove index entries: %w", err)
	}
	if err := s.docs.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	logger.Info("Deleted document %s", documentID)
	return nil
}

// Get retrieves a document by ID.
func (s *Ingestion) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docs.GetDocument(ctx, documentID)
}

// List returns all documents.
func (s *Ingestion) List(ctx context.Context) ([]domain.Document, error) {
	return s.docs.ListDocuments(ctx)
}

// embedAll embeds every chunk with bounded parallelism. The first
// failure cancels the group.
func (s *Ingestion) embedAll(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i := range chunks {
		g.Go(func() error {
			v, err := s.embedder.GetOrCompute(ctx, chunks[i].Text)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", chunks[i].SequenceIndex, err)
			}
			vectors[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

func (s *Ingestion) markFailed(ctx context.Context, doc *domain.Document, cause error) {
	doc.Status = domain.StatusFailed
	doc.Error = cause.Error()
	if err := s.docs.SaveDocument(ctx, doc); err != nil {
		logger.Warn("Could not record failure for %s: %v", doc.SourceURI, err)
	}
}

func (s *Ingestion) acquire(sourceURI string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sourceURI]; busy {
		return false
	}
	s.inFlight[sourceURI] = struct{}{}
	return true
}

func (s *Ingestion) release(sourceURI string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sourceURI)
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
