package extractors

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
)

// Ensure Plaintext implements the interface.
var _ driven.Extractor = (*Plaintext)(nil)

// Plaintext handles plain text files.
type Plaintext struct{}

// NewPlaintext creates a plain text extractor.
func NewPlaintext() *Plaintext {
	return &Plaintext{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Plaintext) SupportedExtensions() []string {
	return []string{".txt", ".text", ".log"}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Plaintext) SupportedMIMETypes() []string {
	return []string{"text/plain"}
}

// Extract converts the file bytes to text as-is, normalizing line
// endings. Fails with domain.ErrCorruptFile when the bytes are not
// valid UTF-8.
func (e *Plaintext) Extract(_ context.Context, sourceURI string, content []byte) (*driven.ExtractResult, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: not valid UTF-8", domain.ErrCorruptFile)
	}

	text := string(content)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	return &driven.ExtractResult{
		Text:  text,
		Title: titleFromURI(sourceURI),
	}, nil
}
