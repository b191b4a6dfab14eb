package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// DocumentStatus tracks a document through the ingestion state machine.
// The only transitions are Pending -> Ready on success and
// Pending -> Failed on unrecoverable error. A re-ingestion starts a
// fresh Pending cycle.
type DocumentStatus string

const (
	// StatusPending means ingestion is in progress.
	StatusPending DocumentStatus = "pending"

	// StatusReady means the document is fully ingested and searchable.
	StatusReady DocumentStatus = "ready"

	// StatusFailed means ingestion failed; the document has no
	// searchable content.
	StatusFailed DocumentStatus = "failed"
)

// Document represents an ingested source file. Immutable once Ready;
// re-ingestion with a different content hash supersedes it atomically.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SourceURI is the original location (file path, URL, etc).
	SourceURI string

	// Title is the human-readable title derived during extraction.
	Title string

	// ContentHash fingerprints the extracted text. Re-ingesting a
	// document with an identical hash is a no-op.
	ContentHash string

	// Status is the ingestion state.
	Status DocumentStatus

	// IngestedAt is when ingestion last completed successfully.
	IngestedAt time.Time

	// Error holds the failure reason when Status is StatusFailed.
	Error string
}

// CharSpan locates a chunk within the extracted source text,
// half-open [Start, End). Used for citation mapping.
type CharSpan struct {
	Start int
	End   int
}

// Chunk is the atomic retrieval unit: a bounded slice of a document's
// text. Chunks are owned by their document and destroyed with it.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// SequenceIndex is the deterministic ordinal within the document,
	// starting at 0.
	SequenceIndex int

	// Text is the chunk content, including any overlap with neighbours.
	Text string

	// Span is the chunk's character range in the source text.
	Span CharSpan

	// ContentHash keys the chunk's embedding record. Identical text
	// under the same model shares one record across documents.
	ContentHash string
}

// EmbeddingRecord caches one embedding vector, keyed by content hash
// rather than chunk id so identical text is embedded once.
type EmbeddingRecord struct {
	ContentHash  string
	Vector       []float32
	ModelVersion string
	CreatedAt    time.Time
}

// IndexEntry is the searchable association between a chunk and its
// vector. One entry per chunk; upserts by chunk id replace, never
// duplicate.
type IndexEntry struct {
	ChunkID       string
	DocumentID    string
	SequenceIndex int
	Vector        []float32
	Text          string
}

// HashContent computes the content hash for text under a model version.
// Text is normalized (trimmed, CRLF folded to LF) first so the hash is
// stable across platforms and re-runs.
func HashContent(text, modelVersion string) string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = strings.TrimSpace(normalized)

	h := sha256.New()
	h.Write([]byte(modelVersion))
	h.Write([]byte{0})
	h.Write([]byte(normalized))
	return hex.EncodeToString(h.Sum(nil))
}
