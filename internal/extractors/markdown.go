package extractors

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
)

// Ensure Markdown implements the interface.
var _ driven.Extractor = (*Markdown)(nil)

// Markdown handles Markdown files: formatting is stripped so the
// chunker sees prose, and the first H1 heading becomes the title.
type Markdown struct{}

// NewMarkdown creates a Markdown extractor.
func NewMarkdown() *Markdown {
	return &Markdown{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Markdown) SupportedExtensions() []string {
	return []string{".md", ".markdown", ".mdown"}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Markdown) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Extract strips markdown formatting and derives a title.
func (e *Markdown) Extract(_ context.Context, sourceURI string, content []byte) (*driven.ExtractResult, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: not valid UTF-8", domain.ErrCorruptFile)
	}

	raw := strings.ReplaceAll(string(content), "\r\n", "\n")

	title := markdownTitle(raw)
	if title == "" {
		title = titleFromURI(sourceURI)
	}

	return &driven.ExtractResult{
		Text:  stripMarkdown(raw),
		Title: title,
	}, nil
}

// markdownTitle returns the first H1 heading, or "".
func markdownTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return ""
}

var (
	mdCodeBlock    = regexp.MustCompile("(?s)```[^`]*```")
	mdInlineCode   = regexp.MustCompile("`[^`]+`")
	mdImages       = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	mdLinks        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	mdHeadings     = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdBlockquote   = regexp.MustCompile(`(?m)^>\s*`)
	mdHorizRule    = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	mdListMarkers  = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	mdNumberedList = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	mdMultiNewline = regexp.MustCompile(`\n{3,}`)
)

// stripMarkdown removes common markdown formatting for plain text
// content. Simplified; handles the common cases.
func stripMarkdown(content string) string {
	content = mdCodeBlock.ReplaceAllString(content, "")
	content = mdInlineCode.ReplaceAllString(content, "")
	content = mdImages.ReplaceAllString(content, "")
	content = mdLinks.ReplaceAllString(content, "$1")
	content = mdHeadings.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = strings.ReplaceAll(content, "*", "")
	content = mdBlockquote.ReplaceAllString(content, "")
	content = mdHorizRule.ReplaceAllString(content, "")
	content = mdListMarkers.ReplaceAllString(content, "")
	content = mdNumberedList.ReplaceAllString(content, "")
	content = mdMultiNewline.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
