// Package messages defines the Bubbletea messages exchanged between
// the chat model and its asynchronous commands.
package messages

import (
	"github.com/docsage/docsage/internal/core/domain"
)

// AskCompleted is sent when the answer service has produced an answer.
type AskCompleted struct {
	// Question is the question that was asked.
	Question string

	// Answer is the synthesized answer with citations.
	Answer *domain.Answer
}

// AskFailed is sent when the answer service returned an error. A
// partial answer with citations may still be present when generation
// failed after retrieval succeeded.
type AskFailed struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// DocumentCount is sent with the number of ingested documents for the
// status line.
type DocumentCount struct {
	Count int
}
