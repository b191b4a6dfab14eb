package extractors

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
)

// Ensure Docx implements the interface.
var _ driven.Extractor = (*Docx)(nil)

// Docx handles DOCX documents by reading word/document.xml from the
// ZIP container.
type Docx struct{}

// NewDocx creates a DOCX extractor.
func NewDocx() *Docx {
	return &Docx{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Docx) SupportedExtensions() []string {
	return []string{".docx"}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Docx) SupportedMIMETypes() []string {
	return []string{
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
}

// Extract parses the DOCX container and returns paragraph text.
func (e *Docx) Extract(_ context.Context, sourceURI string, content []byte) (*driven.ExtractResult, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip container", domain.ErrCorruptFile)
	}

	text, err := docxBodyText(reader)
	if err != nil {
		return nil, err
	}

	title := docxTitle(reader)
	if title == "" {
		title = titleFromURI(sourceURI)
	}

	return &driven.ExtractResult{
		Text:  text,
		Title: title,
	}, nil
}

// docxBodyText extracts text from word/document.xml.
func docxBodyText(reader *zip.Reader) (string, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("%w: unreadable document.xml", domain.ErrCorruptFile)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("%w: unreadable document.xml", domain.ErrCorruptFile)
		}

		return parseDocumentXML(content), nil
	}
	return "", fmt.Errorf("%w: missing word/document.xml", domain.ErrCorruptFile)
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Text []docxText `xml:"t"`
}

type docxText struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML extracts paragraph text from the document XML.
func parseDocumentXML(content []byte) string {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return ""
	}

	var result strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			result.WriteString("\n\n")
		}
		for _, run := range para.Runs {
			for _, text := range run.Text {
				result.WriteString(text.Content)
			}
		}
	}
	return strings.TrimSpace(result.String())
}

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title string `xml:"title"`
}

// docxTitle reads the title from docProps/core.xml, or "".
func docxTitle(reader *zip.Reader) string {
	for _, file := range reader.File {
		if file.Name != "docProps/core.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			break
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			break
		}
		var core coreXML
		if err := xml.Unmarshal(content, &core); err == nil && core.Title != "" {
			return strings.TrimSpace(core.Title)
		}
		break
	}
	return ""
}
