// Package extractors provides per-format text extraction and a
// registry that dispatches on file extension or MIME type.
// Supported formats: plain text, Markdown, DOCX and PDF.
package extractors
