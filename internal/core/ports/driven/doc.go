// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): storage, the vector index, extraction,
// and external embedding/generation services.
package driven
