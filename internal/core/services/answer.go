package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
	"github.com/docsage/docsage/internal/core/ports/driving"
	"github.com/docsage/docsage/internal/logger"
)

// NotFoundAnswer is returned verbatim when retrieval produced nothing;
// no generation call is made in that case.
const NotFoundAnswer = "I could not find anything relevant in the ingested documents."

const (
	// promptTokenBudget bounds the context portion of the prompt.
	promptTokenBudget = 2000

	// charsPerToken is the rough character-to-token conversion used to
	// enforce the budget without a tokenizer.
	charsPerToken = 4

	answerMaxTokens   = 1024
	answerTemperature = 0.2
)

var _ driving.AnswerService = (*Answerer)(nil)

// Answerer retrieves passages and synthesizes a grounded answer with
// citations.
type Answerer struct {
	retriever driving.RetrievalService
	llm       driven.LLMService
}

// NewAnswerer creates the answer service.
func NewAnswerer(retriever driving.RetrievalService, llm driven.LLMService) *Answerer {
	return &Answerer{retriever: retriever, llm: llm}
}

// Ask answers a question from the ingested documents. Generation runs
// at most once; when it fails after retrieval succeeded, the citations
// are returned alongside domain.ErrGenerationUnavailable so callers
// can still show sources.
func (a *Answerer) Ask(ctx context.Context, query string, opts domain.AskOptions) (*domain.Answer, error) {
	results, err := a.retriever.Retrieve(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		logger.Debug("No passages retrieved, returning fixed answer")
		return &domain.Answer{Text: NotFoundAnswer, Citations: []domain.Citation{}}, nil
	}

	kept := truncateToBudget(results, promptTokenBudget*charsPerToken)
	prompt := buildPrompt(query, kept)

	citations := make([]domain.Citation, len(kept))
	for i, res := range kept {
		citations[i] = domain.Citation{DocumentID: res.DocumentID, ChunkID: res.ChunkID}
	}

	text, err := a.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		return &domain.Answer{Citations: citations},
			fmt.Errorf("%w: %w", domain.ErrGenerationUnavailable, err)
	}

	return &domain.Answer{Text: strings.TrimSpace(text), Citations: citations}, nil
}

// truncateToBudget keeps results in rank order until the combined text
// exceeds the character budget. Lowest-ranked results go first; the
// top result is always kept even when it alone exceeds the budget.
func truncateToBudget(results []domain.RetrievalResult, budget int) []domain.RetrievalResult {
	total := 0
	for i, res := range results {
		total += len(res.Text)
		if total > budget && i > 0 {
			return results[:i]
		}
	}
	return results
}

func buildPrompt(query string, results []domain.RetrievalResult) string {
	var b strings.Builder
	b.WriteString("Answer the question using only the numbered context passages below. ")
	b.WriteString("If the context does not contain the answer, say so plainly.\n\n")
	for i, res := range results {
		fmt.Fprintf(&b, "[%d] %s\n\n", i+1, res.Text)
	}
	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\nAnswer:")
	return b.String()
}
