package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage/docsage/internal/core/domain"
)

func TestNew_Defaults(t *testing.T) {
	c := New()
	require.NotNil(t, c)
	assert.Equal(t, DefaultMaxTokens, c.maxTokens)
	assert.Equal(t, DefaultOverlapTokens, c.overlapTokens)
}

func TestSplit_EmptyText(t *testing.T) {
	c := New()

	_, err := c.Split("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = c.Split("   \n\t  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSplit_OverlapNotSmallerThanMax(t *testing.T) {
	c := New(WithMaxTokens(10), WithOverlapTokens(10))
	_, err := c.Split("some text")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	c = New(WithMaxTokens(10), WithOverlapTokens(20))
	_, err = c.Split("some text")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSplit_SingleChunk(t *testing.T) {
	c := New(WithMaxTokens(50), WithOverlapTokens(5))

	chunks, err := c.Split("A short paragraph that fits in one chunk.")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].SequenceIndex)
	assert.Equal(t, "A short paragraph that fits in one chunk.", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Span.Start)
}

func TestSplit_SequenceIndexesStartAtZero(t *testing.T) {
	c := New(WithMaxTokens(5), WithOverlapTokens(1))

	text := strings.Repeat("alpha beta gamma delta epsilon ", 10)
	chunks, err := c.Split(text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, ch := range chunks {
		assert.Equal(t, i, ch.SequenceIndex)
	}
}

func TestSplit_PrefersParagraphBoundary(t *testing.T) {
	para1 := "First paragraph with a handful of words here."
	para2 := "Second paragraph follows after a blank line."
	text := para1 + "\n\n" + para2

	// Window large enough for para1 but not both.
	c := New(WithMaxTokens(12), WithOverlapTokens(0))
	chunks, err := c.Split(text)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, para1, chunks[0].Text)
	assert.Equal(t, para2, chunks[1].Text)
}

func TestSplit_FallsBackToSentenceBoundary(t *testing.T) {
	s1 := "The first sentence sets the scene."
	s2 := "The second sentence continues it."
	text := s1 + " " + s2

	c := New(WithMaxTokens(8), WithOverlapTokens(0))
	chunks, err := c.Split(text)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, s1, chunks[0].Text)
	assert.Equal(t, s2, chunks[1].Text)
}

func TestSplit_HardSliceForOversizedUnit(t *testing.T) {
	// One long sentence with no internal boundaries.
	words := make([]string, 30)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i)
	}
	text := strings.Join(words, " ")

	c := New(WithMaxTokens(10), WithOverlapTokens(0))
	chunks, err := c.Split(text)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for _, ch := range chunks {
		assert.LessOrEqual(t, len(strings.Fields(ch.Text)), 10)
	}
}

func TestSplit_OverlapSharedBetweenAdjacentChunks(t *testing.T) {
	words := make([]string, 20)
	for i := range words {
		words[i] = fmt.Sprintf("tok%02d", i)
	}
	text := strings.Join(words, " ")

	c := New(WithMaxTokens(10), WithOverlapTokens(3))
	chunks, err := c.Split(text)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)

	first := strings.Fields(chunks[0].Text)
	second := strings.Fields(chunks[1].Text)
	assert.Equal(t, first[len(first)-3:], second[:3])
}

func TestSplit_SpansMapBackToSource(t *testing.T) {
	text := "Alpha beta gamma.\n\nDelta epsilon zeta.\n\nEta theta iota."
	c := New(WithMaxTokens(4), WithOverlapTokens(1))

	chunks, err := c.Split(text)
	require.NoError(t, err)
	for _, ch := range chunks {
		assert.Equal(t, text[ch.Span.Start:ch.Span.End], ch.Text)
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("Some sentences here. And some more there.\n\n", 20)
	c := New(WithMaxTokens(15), WithOverlapTokens(4))

	first, err := c.Split(text)
	require.NoError(t, err)
	second, err := c.Split(text)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Span, second[i].Span)
		assert.Equal(t, first[i].Text, second[i].Text)
	}
}

func TestSplit_UnicodeText(t *testing.T) {
	text := "Die Trägheit beschreibt den Widerstand. Ein Körper bleibt in Ruhe."
	c := New(WithMaxTokens(6), WithOverlapTokens(0))

	chunks, err := c.Split(text)
	require.NoError(t, err)
	for _, ch := range chunks {
		assert.Equal(t, text[ch.Span.Start:ch.Span.End], ch.Text)
	}
}
