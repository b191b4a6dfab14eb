// Package domain contains the core business entities for docsage:
// documents, chunks, embeddings, retrieval results and answers.
// It has no dependencies on adapters or external services.
package domain
