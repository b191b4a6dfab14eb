package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage/docsage/internal/core/domain"
)

func entry(chunkID, docID string, seq int, vec []float32) domain.IndexEntry {
	return domain.IndexEntry{
		ChunkID:       chunkID,
		DocumentID:    docID,
		SequenceIndex: seq,
		Vector:        vec,
		Text:          "text " + chunkID,
	}
}

func TestNewIndex_InvalidDims(t *testing.T) {
	_, err := NewIndex(0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpsert_RejectsDimensionMismatch(t *testing.T) {
	x, err := NewIndex(3)
	require.NoError(t, err)

	err = x.Upsert(context.Background(), []domain.IndexEntry{
		entry("c1", "d1", 0, []float32{1, 0}),
	})
	assert.ErrorIs(t, err, domain.ErrModelMismatch)
}

func TestSearch_OrdersByScoreDescending(t *testing.T) {
	x, err := NewIndex(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, x.Upsert(ctx, []domain.IndexEntry{
		entry("c1", "d1", 0, []float32{1, 0}),
		entry("c2", "d1", 1, []float32{0, 1}),
		entry("c3", "d1", 2, []float32{1, 1}),
	}))

	hits, err := x.Search(ctx, []float32{1, 0}, 3, nil)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "c1", hits[0].Entry.ChunkID)
	assert.Equal(t, "c3", hits[1].Entry.ChunkID)
	assert.Equal(t, "c2", hits[2].Entry.ChunkID)
	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
	assert.GreaterOrEqual(t, hits[1].Score, hits[2].Score)
}

func TestSearch_TieBreaksBySequenceThenChunkID(t *testing.T) {
	x, err := NewIndex(2)
	require.NoError(t, err)
	ctx := context.Background()

	// Identical vectors: all score equally against any query.
	require.NoError(t, x.Upsert(ctx, []domain.IndexEntry{
		entry("z-chunk", "d1", 1, []float32{1, 0}),
		entry("a-chunk", "d1", 1, []float32{1, 0}),
		entry("m-chunk", "d1", 0, []float32{1, 0}),
	}))

	hits, err := x.Search(ctx, []float32{1, 0}, 3, nil)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "m-chunk", hits[0].Entry.ChunkID)
	assert.Equal(t, "a-chunk", hits[1].Entry.ChunkID)
	assert.Equal(t, "z-chunk", hits[2].Entry.ChunkID)
}

func TestSearch_RaisingKKeepsPrefixStable(t *testing.T) {
	x, err := NewIndex(3)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, x.Upsert(ctx, []domain.IndexEntry{
		entry("c1", "d1", 0, []float32{1, 0, 0}),
		entry("c2", "d1", 1, []float32{0.9, 0.1, 0}),
		entry("c3", "d1", 2, []float32{0.5, 0.5, 0}),
		entry("c4", "d2", 0, []float32{0, 1, 0}),
		entry("c5", "d2", 1, []float32{0, 0, 1}),
	}))

	query := []float32{1, 0.05, 0}
	small, err := x.Search(ctx, query, 2, nil)
	require.NoError(t, err)
	large, err := x.Search(ctx, query, 5, nil)
	require.NoError(t, err)

	require.Len(t, small, 2)
	require.Len(t, large, 5)
	for i := range small {
		assert.Equal(t, small[i].Entry.ChunkID, large[i].Entry.ChunkID)
	}
}

func TestSearch_DocumentFilterIsPreFilter(t *testing.T) {
	x, err := NewIndex(2)
	require.NoError(t, err)
	ctx := context.Background()

	// d2's entries score higher, but the filter excludes them before
	// ranking, so k results still come from d1.
	require.NoError(t, x.Upsert(ctx, []domain.IndexEntry{
		entry("c1", "d1", 0, []float32{0.1, 1}),
		entry("c2", "d1", 1, []float32{0.2, 1}),
		entry("c3", "d2", 0, []float32{1, 0}),
		entry("c4", "d2", 1, []float32{1, 0.1}),
	}))

	hits, err := x.Search(ctx, []float32{1, 0}, 2, []string{"d1"})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	for _, h := range hits {
		assert.Equal(t, "d1", h.Entry.DocumentID)
	}
}

func TestUpsert_IdempotentOnChunkID(t *testing.T) {
	x, err := NewIndex(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, x.Upsert(ctx, []domain.IndexEntry{
		entry("c1", "d1", 0, []float32{1, 0}),
	}))
	require.NoError(t, x.Upsert(ctx, []domain.IndexEntry{
		entry("c1", "d1", 0, []float32{0, 1}),
	}))

	assert.Equal(t, 1, x.Len())

	hits, err := x.Search(ctx, []float32{0, 1}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
}

func TestRemoveDocument(t *testing.T) {
	x, err := NewIndex(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, x.Upsert(ctx, []domain.IndexEntry{
		entry("c1", "d1", 0, []float32{1, 0}),
		entry("c2", "d2", 0, []float32{0, 1}),
	}))

	require.NoError(t, x.RemoveDocument(ctx, "d1"))
	assert.Equal(t, 1, x.Len())

	hits, err := x.Search(ctx, []float32{1, 0}, 5, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "c2", hits[0].Entry.ChunkID)
}

func TestReplaceDocument_SwapsEntries(t *testing.T) {
	x, err := NewIndex(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, x.Upsert(ctx, []domain.IndexEntry{
		entry("old-1", "d1", 0, []float32{1, 0}),
		entry("old-2", "d1", 1, []float32{1, 0}),
		entry("other", "d2", 0, []float32{0, 1}),
	}))

	require.NoError(t, x.ReplaceDocument(ctx, "d1", []domain.IndexEntry{
		entry("new-1", "d1", 0, []float32{1, 0}),
	}))

	hits, err := x.Search(ctx, []float32{1, 0}, 5, []string{"d1"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "new-1", hits[0].Entry.ChunkID)
	assert.Equal(t, 2, x.Len(), "other documents untouched")
}

func TestReplaceDocument_RejectsForeignEntries(t *testing.T) {
	x, err := NewIndex(2)
	require.NoError(t, err)

	err = x.ReplaceDocument(context.Background(), "d1", []domain.IndexEntry{
		entry("c1", "d2", 0, []float32{1, 0}),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReplaceDocument_NeverSearchesEmpty(t *testing.T) {
	x, err := NewIndex(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, x.Upsert(ctx, []domain.IndexEntry{
		entry("gen-0", "d1", 0, []float32{1, 0}),
	}))

	// Hammer replaces while searching: every doc-scoped search must see
	// some generation of the document, never the gap a remove-then-add
	// sequence would expose.
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for gen := 1; ; gen++ {
			select {
			case <-done:
				return
			default:
			}
			_ = x.ReplaceDocument(ctx, "d1", []domain.IndexEntry{
				entry("gen", "d1", gen, []float32{1, 0}),
			})
		}
	}()

	for i := 0; i < 500; i++ {
		hits, err := x.Search(ctx, []float32{1, 0}, 1, []string{"d1"})
		require.NoError(t, err)
		assert.NotEmpty(t, hits, "document must stay searchable across replaces")
	}
	close(done)
	wg.Wait()
}

func TestSearch_QueryDimensionMismatch(t *testing.T) {
	x, err := NewIndex(3)
	require.NoError(t, err)

	_, err = x.Search(context.Background(), []float32{1, 0}, 1, nil)
	assert.ErrorIs(t, err, domain.ErrModelMismatch)
}

func TestIndex_ConcurrentUpsertAndSearch(t *testing.T) {
	x, err := NewIndex(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, x.Upsert(ctx, []domain.IndexEntry{
		entry("stable", "d-read", 0, []float32{1, 0}),
	}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if n%2 == 0 {
					_ = x.Upsert(ctx, []domain.IndexEntry{
						entry("c", "d-write", j, []float32{0, 1}),
					})
					continue
				}
				hits, err := x.Search(ctx, []float32{1, 0}, 1, []string{"d-read"})
				assert.NoError(t, err)
				assert.NotEmpty(t, hits)
			}
		}(i)
	}
	wg.Wait()
}
