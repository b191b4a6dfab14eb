// Package tui provides an interactive terminal chat interface built on
// Bubbletea. Questions are answered by the answer service, grounded in
// the ingested documents.
package tui

import "errors"

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("tui: answer service is required")
