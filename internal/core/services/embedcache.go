package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
	"github.com/docsage/docsage/internal/logger"
)

// Ensure CachedEmbedder implements the interface.
var _ driven.Embedder = (*CachedEmbedder)(nil)

// CachedEmbedder fronts the external embedding service with a durable
// content-addressed cache. Concurrent misses for the same content hash
// collapse to a single external call; every waiter receives the same
// vector. The model version is fixed at construction so two embedders
// with different models can coexist without ambient state.
type CachedEmbedder struct {
	service driven.EmbeddingService
	store   driven.EmbeddingStore
	model   string

	flight singleflight.Group
}

// NewCachedEmbedder creates an embedding cache over the given service
// and store.
func NewCachedEmbedder(service driven.EmbeddingService, store driven.EmbeddingStore) *CachedEmbedder {
	return &CachedEmbedder{
		service: service,
		store:   store,
		model:   service.ModelVersion(),
	}
}

// ModelVersion returns the underlying model identifier.
func (c *CachedEmbedder) ModelVersion() string {
	return c.model
}

// GetOrCompute returns the cached vector for text, computing and
// storing it on a miss. No lock is held across the external call; an
// abandoned caller leaves the in-flight computation running so other
// waiters still benefit.
func (c *CachedEmbedder) GetOrCompute(ctx context.Context, text string) ([]float32, error) {
	hash := domain.HashContent(text, c.model)

	if rec, err := c.store.GetEmbedding(ctx, hash); err == nil {
		if rec.ModelVersion != c.model {
			return nil, fmt.Errorf("%w: record has %q, want %q",
				domain.ErrModelMismatch, rec.ModelVersion, c.model)
		}
		logger.Debug("Embedding cache hit: %s", hash[:12])
		return rec.Vector, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("embedding cache lookup: %w", err)
	}

	v, err, shared := c.flight.Do(hash, func() (any, error) {
		// Detached from the caller's context: cancellation of one
		// waiter must not abort the computation other waiters share.
		return c.compute(context.WithoutCancel(ctx), hash, text)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Debug("Embedding call coalesced: %s", hash[:12])
	}
	return v.([]float32), nil
}

// EmbedQuery returns a vector for ad-hoc query text. A cached record
// for the same hash is reused, but a miss is computed without writing
// one: query text never becomes durable unless identical text was
// ingested. Query misses fly under their own key so they never absorb
// an ingest-side computation that must persist.
func (c *CachedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	hash := domain.HashContent(text, c.model)

	if rec, err := c.store.GetEmbedding(ctx, hash); err == nil {
		if rec.ModelVersion != c.model {
			return nil, fmt.Errorf("%w: record has %q, want %q",
				domain.ErrModelMismatch, rec.ModelVersion, c.model)
		}
		logger.Debug("Embedding cache hit: %s", hash[:12])
		return rec.Vector, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("embedding cache lookup: %w", err)
	}

	v, err, _ := c.flight.Do("query\x00"+hash, func() (any, error) {
		vector, err := c.service.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		}
		return vector, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]float32), nil
}

// compute performs the external call and persists the record.
func (c *CachedEmbedder) compute(ctx context.Context, hash, text string) ([]float32, error) {
	vector, err := c.service.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	rec := &domain.EmbeddingRecord{
		ContentHash:  hash,
		Vector:       vector,
		ModelVersion: c.model,
		CreatedAt:    time.Now().UTC(),
	}
	if err := c.store.SaveEmbedding(ctx, rec); err != nil {
		return nil, fmt.Errorf("save embedding record: %w", err)
	}
	return vector, nil
}
