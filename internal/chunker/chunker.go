// Package chunker splits extracted document text into overlapping
// passages suitable for embedding. Splitting prefers paragraph
// boundaries, then sentence boundaries, and falls back to hard token
// slicing only when a single unit exceeds the chunk size. Identical
// input always yields identical chunk boundaries.
package chunker

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/docsage/docsage/internal/core/domain"
)

// DefaultMaxTokens is the default chunk size in tokens.
const DefaultMaxTokens = 200

// DefaultOverlapTokens is the default overlap between adjacent chunks.
const DefaultOverlapTokens = 40

// Chunker splits text into overlapping chunk candidates.
type Chunker struct {
	maxTokens     int
	overlapTokens int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxTokens sets the chunk size in tokens.
func WithMaxTokens(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithOverlapTokens sets the overlap between adjacent chunks in tokens.
func WithOverlapTokens(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.overlapTokens = n
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		maxTokens:     DefaultMaxTokens,
		overlapTokens: DefaultOverlapTokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// token is one whitespace-delimited run of text with its source span.
type token struct {
	start int // byte offset of first rune
	end   int // byte offset past last rune
	// paragraph marks a token that begins a new paragraph.
	paragraph bool
	// sentence marks a token that begins a new sentence.
	sentence bool
}

// Split produces ordered chunk candidates for text. Candidates carry
// Text, Span and SequenceIndex; ID, DocumentID and ContentHash are
// assigned by the ingestion pipeline. Fails with domain.ErrInvalidInput
// when text is blank or the configured overlap is not smaller than the
// chunk size.
func (c *Chunker) Split(text string) ([]domain.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrInvalidInput)
	}
	if c.overlapTokens >= c.maxTokens {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidInput, c.overlapTokens, c.maxTokens)
	}

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty text", domain.ErrInvalidInput)
	}

	var chunks []domain.Chunk
	seq := 0
	i := 0
	for i < len(tokens) {
		end := i + c.maxTokens
		if end >= len(tokens) {
			end = len(tokens)
		} else if b := breakBefore(tokens, i, end); b > i {
			end = b
		}

		span := domain.CharSpan{Start: tokens[i].start, End: tokens[end-1].end}
		chunks = append(chunks, domain.Chunk{
			SequenceIndex: seq,
			Text:          text[span.Start:span.End],
			Span:          span,
		})
		seq++

		if end == len(tokens) {
			break
		}
		next := end - c.overlapTokens
		if next <= i {
			next = i + 1
		}
		i = next
	}

	return chunks, nil
}

// breakBefore finds the best boundary token index in (lo, hi]: the
// latest paragraph start, else the latest sentence start. Returns lo
// when no boundary exists in the window (caller hard-slices at hi).
func breakBefore(tokens []token, lo, hi int) int {
	sentence := lo
	for j := hi; j > lo; j-- {
		if tokens[j].paragraph {
			return j
		}
		if sentence == lo && tokens[j].sentence {
			sentence = j
		}
	}
	return sentence
}

// tokenize splits text into whitespace-delimited tokens and marks
// paragraph starts (preceded by a blank line) and sentence starts
// (preceded by terminal punctuation).
func tokenize(text string) []token {
	var tokens []token
	inToken := false
	start := 0
	newlines := 0
	afterTerminal := false

	flush := func(end int) {
		if !inToken {
			return
		}
		t := token{start: start, end: end}
		if len(tokens) > 0 {
			if newlines >= 2 {
				t.paragraph = true
			} else if afterTerminal || newlines == 1 {
				t.sentence = true
			}
		}
		word := text[start:end]
		afterTerminal = strings.HasSuffix(word, ".") ||
			strings.HasSuffix(word, "!") ||
			strings.HasSuffix(word, "?")
		newlines = 0
		tokens = append(tokens, t)
		inToken = false
	}

	for idx, r := range text {
		if unicode.IsSpace(r) {
			flush(idx)
			if r == '\n' {
				newlines++
			}
			continue
		}
		if !inToken {
			inToken = true
			start = idx
		}
	}
	flush(len(text))

	return tokens
}
