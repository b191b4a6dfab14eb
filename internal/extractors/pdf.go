package extractors

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
)

// Ensure PDF implements the interface.
var _ driven.Extractor = (*PDF)(nil)

// CommandRunner executes an external command and returns its stdout.
// Injectable for testing.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

// PDF handles PDF documents by shelling out to pdftotext.
type PDF struct {
	runner CommandRunner
}

// NewPDF creates a PDF extractor. A nil runner uses os/exec.
func NewPDF(runner CommandRunner) *PDF {
	if runner == nil {
		runner = execRunner{}
	}
	return &PDF{runner: runner}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *PDF) SupportedExtensions() []string {
	return []string{".pdf"}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *PDF) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// pdfMagic is the required header of a PDF file.
var pdfMagic = []byte("%PDF-")

// Extract converts the PDF to text using pdftotext. The content is
// staged in a temp file because pdftotext reads from disk.
func (e *PDF) Extract(ctx context.Context, sourceURI string, content []byte) (*driven.ExtractResult, error) {
	if !bytes.HasPrefix(content, pdfMagic) {
		return nil, fmt.Errorf("%w: missing PDF header", domain.ErrCorruptFile)
	}

	tmp, err := os.CreateTemp("", "docsage-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("stage pdf: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("stage pdf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("stage pdf: %w", err)
	}

	out, err := e.runner.Run(ctx, "pdftotext", "-layout", tmp.Name(), "-")
	if err != nil {
		return nil, fmt.Errorf("%w: pdftotext: %v", domain.ErrCorruptFile, err)
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		return nil, fmt.Errorf("%w: no extractable text", domain.ErrCorruptFile)
	}

	return &driven.ExtractResult{
		Text:  text,
		Title: titleFromURI(sourceURI),
	}, nil
}

// FileTypeOf derives the lookup key for a path: the file extension.
func FileTypeOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
