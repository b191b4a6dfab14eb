package domain

import "time"

// BriefingKind identifies a generated-content category.
type BriefingKind string

const (
	// BriefingWords is a vocabulary list briefing.
	BriefingWords BriefingKind = "words"

	// BriefingQuotes is an inspirational-quotes briefing.
	BriefingQuotes BriefingKind = "quotes"

	// BriefingBookSummary is a book summary briefing.
	BriefingBookSummary BriefingKind = "book-summary"

	// BriefingNewsDigest is a tech news digest briefing.
	BriefingNewsDigest BriefingKind = "news-digest"
)

// WordEntry is one vocabulary item in a words briefing.
type WordEntry struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
	Example    string `json:"example"`
}

// Briefing is a structured piece of generated content. Briefings are
// produced by pure entry points; delivery (email or otherwise) is a
// separate collaborator's concern.
type Briefing struct {
	// Kind identifies the content category.
	Kind BriefingKind

	// Subject is a short title suitable for an email subject line.
	Subject string

	// Body is the rendered plain-text content.
	Body string

	// Words is populated for BriefingWords.
	Words []WordEntry

	// Quotes is populated for BriefingQuotes.
	Quotes []string

	// GeneratedAt is when the briefing was produced.
	GeneratedAt time.Time
}
