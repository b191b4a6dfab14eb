// Package services contains the core business logic: the embedding
// cache, the ingestion pipeline, the retriever, the answer
// synthesizer, briefing generation and the scheduler. Services depend
// only on domain types and ports, never on concrete adapters.
package services
