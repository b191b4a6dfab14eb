// Package memory provides an in-process vector index with brute-force
// cosine scoring. Entries are grouped per document behind their own
// lock, so an upsert for one document never blocks searches touching
// other documents. Durability comes from the document store: vectors
// are persisted there and the index is rebuilt on startup.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory cosine similarity index.
type Index struct {
	dims int

	// mu guards the shard map topology only; each shard carries its
	// own lock for entry access.
	mu     sync.RWMutex
	shards map[string]*docShard
}

// docShard holds the entries of a single document.
type docShard struct {
	mu      sync.RWMutex
	entries []domain.IndexEntry
	byChunk map[string]int
}

// NewIndex creates an index for vectors of the given dimensionality.
func NewIndex(dims int) (*Index, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive", domain.ErrInvalidInput)
	}
	return &Index{
		dims:   dims,
		shards: make(map[string]*docShard),
	}, nil
}

// Upsert inserts or replaces entries keyed by chunk ID. Vectors are
// normalized to unit length so search reduces to a dot product.
func (x *Index) Upsert(_ context.Context, entries []domain.IndexEntry) error {
	byDoc := make(map[string][]domain.IndexEntry)
	for _, e := range entries {
		if len(e.Vector) != x.dims {
			return fmt.Errorf("%w: vector has %d dimensions, index expects %d",
				domain.ErrModelMismatch, len(e.Vector), x.dims)
		}
		e.Vector = normalize(e.Vector)
		byDoc[e.DocumentID] = append(byDoc[e.DocumentID], e)
	}

	for docID, docEntries := range byDoc {
		shard := x.shard(docID)
		shard.mu.Lock()
		for _, e := range docEntries {
			if i, ok := shard.byChunk[e.ChunkID]; ok {
				shard.entries[i] = e
				continue
			}
			shard.byChunk[e.ChunkID] = len(shard.entries)
			shard.entries = append(shard.entries, e)
		}
		shard.mu.Unlock()
	}
	return nil
}

// shard returns the document's shard, creating it if needed.
func (x *Index) shard(docID string) *docShard {
	x.mu.RLock()
	s, ok := x.shards[docID]
	x.mu.RUnlock()
	if ok {
		return s
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if s, ok = x.shards[docID]; ok {
		return s
	}
	s = &docShard{byChunk: make(map[string]int)}
	x.shards[docID] = s
	return s
}

// ReplaceDocument atomically swaps a document's entries for the given
// set. The new entry list is built outside the shard lock, then
// installed in one assignment, so a concurrent search sees either the
// old entries or the new ones.
func (x *Index) ReplaceDocument(_ context.Context, documentID string, entries []domain.IndexEntry) error {
	fresh := make([]domain.IndexEntry, 0, len(entries))
	byChunk := make(map[string]int, len(entries))
	for _, e := range entries {
		if e.DocumentID != documentID {
			return fmt.Errorf("%w: entry %s belongs to document %s, not %s",
				domain.ErrInvalidInput, e.ChunkID, e.DocumentID, documentID)
		}
		if len(e.Vector) != x.dims {
			return fmt.Errorf("%w: vector has %d dimensions, index expects %d",
				domain.ErrModelMismatch, len(e.Vector), x.dims)
		}
		e.Vector = normalize(e.Vector)
		if i, ok := byChunk[e.ChunkID]; ok {
			fresh[i] = e
			continue
		}
		byChunk[e.ChunkID] = len(fresh)
		fresh = append(fresh, e)
	}

	shard := x.shard(documentID)
	shard.mu.Lock()
	shard.entries = fresh
	shard.byChunk = byChunk
	shard.mu.Unlock()
	return nil
}

// RemoveDocument drops every entry belonging to a document.
func (x *Index) RemoveDocument(_ context.Context, documentID string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.shards, documentID)
	return nil
}

// Search returns the top-k entries by descending cosine similarity.
// Ties break by earliest sequence index, then chunk ID, so a fixed
// index and query always produce the same ordering and raising k only
// extends the previous prefix.
func (x *Index) Search(_ context.Context, query []float32, k int, filter []string) ([]driven.VectorHit, error) {
	if len(query) != x.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index expects %d",
			domain.ErrModelMismatch, len(query), x.dims)
	}
	if k <= 0 {
		return nil, nil
	}
	q := normalize(query)

	// Snapshot shard pointers so scanning does not hold the topology
	// lock. The pre-filter restricts candidates before ranking.
	x.mu.RLock()
	shards := make([]*docShard, 0, len(x.shards))
	if len(filter) > 0 {
		for _, docID := range filter {
			if s, ok := x.shards[docID]; ok {
				shards = append(shards, s)
			}
		}
	} else {
		for _, s := range x.shards {
			shards = append(shards, s)
		}
	}
	x.mu.RUnlock()

	var hits []driven.VectorHit
	for _, s := range shards {
		s.mu.RLock()
		for _, e := range s.entries {
			hits = append(hits, driven.VectorHit{Entry: e, Score: dot(q, e.Vector)})
		}
		s.mu.RUnlock()
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].Entry.SequenceIndex != hits[j].Entry.SequenceIndex {
			return hits[i].Entry.SequenceIndex < hits[j].Entry.SequenceIndex
		}
		return hits[i].Entry.ChunkID < hits[j].Entry.ChunkID
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of indexed entries.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	n := 0
	for _, s := range x.shards {
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}
	return n
}

// normalize returns a unit-length copy of v. A zero vector is returned
// unchanged.
func normalize(v []float32) []float32 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	if sum == 0 {
		out := make([]float32, len(v))
		copy(out, v)
		return out
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(float64(f) / norm)
	}
	return out
}

// dot computes the inner product of two equal-length vectors.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
