package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
	"github.com/docsage/docsage/internal/core/ports/driving"
)

var wordPool = []domain.WordEntry{
	{Word: "ephemeral", Definition: "Lasting for a very short time.", Example: "Fame in the digital age is often ephemeral."},
	{Word: "ubiquitous", Definition: "Present everywhere at the same time.", Example: "Smartphones have become ubiquitous."},
	{Word: "paradigm", Definition: "A typical example or pattern of something.", Example: "This discovery represents a paradigm shift."},
	{Word: "synthesize", Definition: "Combine into a coherent whole.", Example: "She synthesized ideas from multiple sources."},
	{Word: "resilient", Definition: "Able to withstand or recover quickly from difficulties.", Example: "Children are often remarkably resilient."},
	{Word: "pragmatic", Definition: "Dealing with things sensibly and realistically.", Example: "We need a pragmatic approach to the problem."},
	{Word: "nuance", Definition: "A subtle difference in meaning or expression.", Example: "The nuance of his argument was lost in translation."},
	{Word: "catalyst", Definition: "Something that precipitates an event or change.", Example: "The protest was a catalyst for reform."},
	{Word: "mitigate", Definition: "Make less severe, serious, or painful.", Example: "Measures to mitigate climate change."},
	{Word: "leverage", Definition: "Use something to maximum advantage.", Example: "We can leverage our existing network."},
	{Word: "holistic", Definition: "Characterized by the belief that parts are interconnected.", Example: "A holistic approach to health."},
	{Word: "disrupt", Definition: "Interrupt by causing a disturbance.", Example: "Technology continues to disrupt industries."},
	{Word: "iterate", Definition: "Perform or utter repeatedly.", Example: "We iterate on the product based on feedback."},
	{Word: "scalable", Definition: "Able to be scaled or expanded.", Example: "A scalable business model."},
	{Word: "align", Definition: "Place or arrange in correct relative positions.", Example: "Goals must align with company strategy."},
}

var quotePool = []string{
	"The only way to do great work is to love what you do. — Steve Jobs",
	"Innovation distinguishes between a leader and a follower. — Steve Jobs",
	"It does not matter how slowly you go as long as you do not stop. — Confucius",
	"The future belongs to those who believe in the beauty of their dreams. — Eleanor Roosevelt",
	"Success is not final, failure is not fatal: it is the courage to continue that counts. — Winston Churchill",
	"The only impossible journey is the one you never begin. — Tony Robbins",
	"Your time is limited, don't waste it living someone else's life. — Steve Jobs",
	"Do what you can, with what you have, where you are. — Theodore Roosevelt",
	"The best time to plant a tree was 20 years ago. The second best time is now. — Chinese Proverb",
	"Believe you can and you're halfway there. — Theodore Roosevelt",
}

const bookSummaryPrompt = `Provide a one-paragraph summary and 3-5 key takeaways from one of these books (pick one):
"Atomic Habits" by James Clear, "Deep Work" by Cal Newport, or "The 7 Habits of Highly Effective People" by Stephen Covey.
Format: Title, Summary, then "Key takeaways:" with bullet points.`

const newsDigestPrompt = `List the 10 most significant recent developments in technology and AI as a plain-text digest.
Format each item as "N. Title — one-sentence summary." Number from 1 to 10.`

var _ driving.BriefingService = (*Briefings)(nil)

// Briefings generates scheduled content: vocabulary, quotes, and
// LLM-written summaries. Pure producers; delivery is the scheduler's
// concern.
type Briefings struct {
	llm driven.LLMService
	rng *rand.Rand
	now func() time.Time
}

// BriefingOption customizes a Briefings service.
type BriefingOption func(*Briefings)

// WithRand sets the random source, for deterministic selection.
func WithRand(rng *rand.Rand) BriefingOption {
	return func(b *Briefings) { b.rng = rng }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) BriefingOption {
	return func(b *Briefings) { b.now = now }
}

// NewBriefings creates the briefing service. llm may be nil when only
// the offline briefings (words, quotes) are needed.
func NewBriefings(llm driven.LLMService, opts ...BriefingOption) *Briefings {
	b := &Briefings{
		llm: llm,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// DailyWords returns n vocabulary entries sampled without replacement.
// When n exceeds the pool, the whole pool is returned.
func (b *Briefings) DailyWords(n int) *domain.Briefing {
	words := sample(b.rng, wordPool, n)

	var body strings.Builder
	fmt.Fprintf(&body, "%d words to learn today:\n\n", len(words))
	for _, w := range words {
		fmt.Fprintf(&body, "• %s: %s\n  Example: %s\n\n", w.Word, w.Definition, w.Example)
	}

	return &domain.Briefing{
		Kind:        domain.BriefingWords,
		Subject:     fmt.Sprintf("%d Words to Learn", len(words)),
		Body:        strings.TrimRight(body.String(), "\n"),
		Words:       words,
		GeneratedAt: b.now().UTC(),
	}
}

// DailyQuotes returns n quotes sampled without replacement.
func (b *Briefings) DailyQuotes(n int) *domain.Briefing {
	quotes := sample(b.rng, quotePool, n)

	var body strings.Builder
	fmt.Fprintf(&body, "%d inspiring quotes for you:\n\n", len(quotes))
	for _, q := range quotes {
		fmt.Fprintf(&body, "• %s\n\n", q)
	}

	return &domain.Briefing{
		Kind:        domain.BriefingQuotes,
		Subject:     fmt.Sprintf("%d Inspiring Quotes", len(quotes)),
		Body:        strings.TrimRight(body.String(), "\n"),
		Quotes:      quotes,
		GeneratedAt: b.now().UTC(),
	}
}

// BookSummary asks the LLM for a summary of a well-known book.
func (b *Briefings) BookSummary(ctx context.Context) (*domain.Briefing, error) {
	body, err := b.generate(ctx, bookSummaryPrompt)
	if err != nil {
		return nil, fmt.Errorf("book summary: %w", err)
	}
	return &domain.Briefing{
		Kind:        domain.BriefingBookSummary,
		Subject:     "Weekly Book Summary & Key Takeaways",
		Body:        body,
		GeneratedAt: b.now().UTC(),
	}, nil
}

// NewsDigest asks the LLM for a tech news digest.
func (b *Briefings) NewsDigest(ctx context.Context) (*domain.Briefing, error) {
	body, err := b.generate(ctx, newsDigestPrompt)
	if err != nil {
		return nil, fmt.Errorf("news digest: %w", err)
	}
	return &domain.Briefing{
		Kind:        domain.BriefingNewsDigest,
		Subject:     "Weekly Tech News Digest",
		Body:        body,
		GeneratedAt: b.now().UTC(),
	}, nil
}

func (b *Briefings) generate(ctx context.Context, prompt string) (string, error) {
	if b.llm == nil {
		return "", fmt.Errorf("%w: no language model configured", domain.ErrGenerationUnavailable)
	}
	text, err := b.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   1024,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationUnavailable, err)
	}
	return strings.TrimSpace(text), nil
}

// sample returns n distinct elements in random order, or a copy of the
// whole pool when n is too large.
func sample[T any](rng *rand.Rand, pool []T, n int) []T {
	out := make([]T, len(pool))
	copy(out, pool)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
