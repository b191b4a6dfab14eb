package services

import (
	"context"
	"fmt"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
	"github.com/docsage/docsage/internal/core/ports/driving"
	"github.com/docsage/docsage/internal/logger"
)

const (
	// DefaultTopK is the number of passages retrieved when the caller
	// does not choose one.
	DefaultTopK = 5

	// DefaultMinScore is the quality gate: results scoring below it
	// are dropped even when TopK is not filled.
	DefaultMinScore = 0.25

	// dedupProximity collapses hits from the same document whose
	// sequence indexes are within this distance. Adjacent chunks share
	// overlap text, so near neighbours are usually the same passage.
	dedupProximity = 1
)

var _ driving.RetrievalService = (*Retriever)(nil)

// Retriever embeds queries and ranks index hits into a bounded,
// deduplicated context.
type Retriever struct {
	embedder driven.Embedder
	index    driven.VectorIndex
	minScore float64
}

// NewRetriever creates the retrieval service.
func NewRetriever(embedder driven.Embedder, index driven.VectorIndex) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
		minScore: DefaultMinScore,
	}
}

// Retrieve returns ranked passages for the query. An empty result is
// valid when nothing scores above the threshold; an embedding failure
// surfaces domain.ErrEmbeddingUnavailable instead, so callers can tell
// "nothing relevant" from "system degraded".
func (r *Retriever) Retrieve(ctx context.Context, query string, opts domain.AskOptions) ([]domain.RetrievalResult, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	k := opts.TopK
	if k <= 0 {
		k = DefaultTopK
	}
	minScore := opts.MinScore
	if minScore <= 0 {
		minScore = r.minScore
	}

	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// Over-fetch so the dedup pass still has k candidates to choose
	// from after collapsing overlap neighbours.
	hits, err := r.index.Search(ctx, vector, k*3, opts.DocumentIDs)
	if err != nil {
		return nil, fmt.Errorf("index search: %w", err)
	}

	results := make([]domain.RetrievalResult, 0, k)
	for _, hit := range hits {
		if hit.Score < minScore {
			continue
		}
		if isOverlapDuplicate(results, hit) {
			continue
		}
		results = append(results, domain.RetrievalResult{
			ChunkID:       hit.Entry.ChunkID,
			DocumentID:    hit.Entry.DocumentID,
			SequenceIndex: hit.Entry.SequenceIndex,
			Text:          hit.Entry.Text,
			Score:         hit.Score,
			Rank:          len(results),
		})
		if len(results) == k {
			break
		}
	}

	logger.Debug("Retrieved %d/%d passages above %.2f", len(results), len(hits), minScore)
	return results, nil
}

// isOverlapDuplicate reports whether the hit is an overlap-created
// near-duplicate of an already kept result. Hits arrive in descending
// score order, so the kept representative is always the best one.
func isOverlapDuplicate(kept []domain.RetrievalResult, hit driven.VectorHit) bool {
	for _, res := range kept {
		if res.DocumentID != hit.Entry.DocumentID {
			continue
		}
		d := res.SequenceIndex - hit.Entry.SequenceIndex
		if d < 0 {
			d = -d
		}
		if d <= dedupProximity {
			return true
		}
	}
	return false
}
