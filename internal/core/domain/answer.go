package domain

// RetrievalResult is one ranked passage returned by the retriever.
// Ephemeral: never persisted.
type RetrievalResult struct {
	// ChunkID identifies the matched chunk.
	ChunkID string

	// DocumentID identifies the owning document.
	DocumentID string

	// SequenceIndex is the chunk's ordinal within its document.
	SequenceIndex int

	// Text is the chunk content.
	Text string

	// Score is the cosine similarity to the query (higher is better).
	Score float64

	// Rank is the zero-based position in the result ordering.
	Rank int
}

// Citation points from an answer back to a chunk that grounded it.
type Citation struct {
	DocumentID string `json:"document_id"`
	ChunkID    string `json:"chunk_id"`
}

// Answer is the synthesized response to a question, grounded in the
// cited chunks. When nothing relevant was retrieved, Text carries a
// fixed not-found message and Citations is empty.
type Answer struct {
	Text      string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// AskOptions configures retrieval for a question.
type AskOptions struct {
	// TopK is the maximum number of passages to retrieve (default 5).
	TopK int

	// DocumentIDs restricts retrieval to the given documents.
	// Empty means all documents.
	DocumentIDs []string

	// MinScore drops results scoring below it even if TopK is not
	// filled. Zero means use the engine default.
	MinScore float64
}
