package tui

import (
	"github.com/docsage/docsage/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer synthesizes grounded answers. Required.
	Answer driving.AnswerService

	// Ingestion lists documents for the status bar. Optional.
	Ingestion driving.IngestionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	return nil
}
