package driven

import "context"

// Extractor converts raw file bytes of one format family into plain
// text. Each extractor declares the file extensions and MIME types it
// handles; selection goes through an ExtractorRegistry.
type Extractor interface {
	// SupportedExtensions returns lower-case file extensions including
	// the leading dot (e.g. ".pdf").
	SupportedExtensions() []string

	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// Extract converts file bytes to plain text and a display title.
	// Fails with domain.ErrCorruptFile when the bytes cannot be parsed
	// as the declared format.
	Extract(ctx context.Context, sourceURI string, content []byte) (*ExtractResult, error)
}

// ExtractResult is the output of text extraction.
type ExtractResult struct {
	// Text is the full extracted plain text.
	Text string

	// Title is a human-readable title (first heading, document
	// property, or filename).
	Title string
}

// ExtractorRegistry selects an extractor by file type.
type ExtractorRegistry interface {
	// Extract dispatches to the extractor registered for fileType,
	// which may be an extension (".md") or a MIME type. Fails with
	// domain.ErrUnsupportedFormat when none is registered.
	Extract(ctx context.Context, sourceURI, fileType string, content []byte) (*ExtractResult, error)

	// Supports reports whether a file type has a registered extractor.
	Supports(fileType string) bool
}
