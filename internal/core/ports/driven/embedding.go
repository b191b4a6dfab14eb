package driven

import "context"

// EmbeddingService generates vector embeddings from text. This is the
// external collaborator behind the embedding cache: implementations
// own their transport-level retry policy, and a failure surfaced here
// means retries are exhausted.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536).
	Dimensions() int

	// ModelVersion returns the model identifier used for content
	// hashing. Records from other versions are never mixed in.
	ModelVersion() string

	// Close releases resources.
	Close() error
}

// Embedder is the cache-fronted embedding interface the core services
// consume. get-or-compute semantics: identical text under the same
// model version is embedded at most once.
type Embedder interface {
	// GetOrCompute returns the cached vector for text, computing and
	// storing it on a miss. Concurrent misses for one content hash
	// collapse to a single external call.
	GetOrCompute(ctx context.Context, text string) ([]float32, error)

	// EmbedQuery returns a vector for ad-hoc query text. Cache hits are
	// served, but a miss is computed without persisting a record: query
	// text only ends up durable when identical text was ingested.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// ModelVersion returns the underlying model identifier.
	ModelVersion() string
}
