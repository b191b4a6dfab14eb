package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested document or chunk does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input,
	// such as empty text or a chunk overlap that is not smaller
	// than the chunk size.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtraction indicates text extraction from a source file failed.
	// The document transitions to StatusFailed and the index is untouched.
	ErrExtraction = errors.New("extraction failed")

	// ErrUnsupportedFormat indicates no extractor is registered for the
	// file type.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrCorruptFile indicates the file bytes could not be parsed as the
	// declared format.
	ErrCorruptFile = errors.New("corrupt file")

	// ErrEmbeddingUnavailable indicates the external embedding call failed
	// after its retry policy was exhausted.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationUnavailable indicates the external generation call
	// failed after its retry policy was exhausted. Retrieval results may
	// still accompany this error so callers can show sources.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrIngestInProgress indicates an ingestion for the same document is
	// already running. A second request is rejected, not queued.
	ErrIngestInProgress = errors.New("ingestion already in progress")

	// ErrModelMismatch indicates an embedding record or vector was produced
	// by a different model version than the index is configured for.
	ErrModelMismatch = errors.New("embedding model version mismatch")
)
