package extractors

import (
	"context"
	"fmt"
	"strings"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps file extensions and MIME types to extractors.
type Registry struct {
	byExtension map[string]driven.Extractor
	byMIME      map[string]driven.Extractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		byExtension: make(map[string]driven.Extractor),
		byMIME:      make(map[string]driven.Extractor),
	}
}

// Register adds an extractor under all its declared extensions and
// MIME types. Later registrations win on conflict.
func (r *Registry) Register(e driven.Extractor) {
	for _, ext := range e.SupportedExtensions() {
		r.byExtension[strings.ToLower(ext)] = e
	}
	for _, mime := range e.SupportedMIMETypes() {
		r.byMIME[strings.ToLower(mime)] = e
	}
}

// lookup resolves fileType, which may be an extension (".md", "md")
// or a MIME type ("text/markdown").
func (r *Registry) lookup(fileType string) (driven.Extractor, bool) {
	ft := strings.ToLower(strings.TrimSpace(fileType))
	if ft == "" {
		return nil, false
	}
	if strings.Contains(ft, "/") {
		e, ok := r.byMIME[ft]
		return e, ok
	}
	if !strings.HasPrefix(ft, ".") {
		ft = "." + ft
	}
	e, ok := r.byExtension[ft]
	return e, ok
}

// Supports reports whether a file type has a registered extractor.
func (r *Registry) Supports(fileType string) bool {
	_, ok := r.lookup(fileType)
	return ok
}

// Extract dispatches to the extractor registered for fileType.
func (r *Registry) Extract(ctx context.Context, sourceURI, fileType string, content []byte) (*driven.ExtractResult, error) {
	e, ok := r.lookup(fileType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, fileType)
	}
	result, err := e.Extract(ctx, sourceURI, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrExtraction, sourceURI, err)
	}
	return result, nil
}

// NewDefaultRegistry returns a registry with all built-in extractors:
// plain text, Markdown, DOCX and PDF.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewPlaintext())
	r.Register(NewMarkdown())
	r.Register(NewDocx())
	r.Register(NewPDF(nil))
	return r
}

// titleFromURI derives a readable title from a source URI filename.
func titleFromURI(uri string) string {
	name := uri
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSpace(name)
}
