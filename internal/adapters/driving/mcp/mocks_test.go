package mcp

import (
	"context"

	"github.com/docsage/docsage/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results []domain.RetrievalResult
	err     error
}

func (m *mockRetrievalService) Retrieve(
	_ context.Context,
	_ string,
	_ domain.AskOptions,
) ([]domain.RetrievalResult, error) {
	return m.results, m.err
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer *domain.Answer
	err    error
}

func (m *mockAnswerService) Ask(
	_ context.Context,
	_ string,
	_ domain.AskOptions,
) (*domain.Answer, error) {
	return m.answer, m.err
}

// mockIngestionService is a mock implementation of driving.IngestionService.
type mockIngestionService struct {
	documents []domain.Document
	document  *domain.Document
	err       error
}

func (m *mockIngestionService) Ingest(_ context.Context, _ string, _ []byte, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockIngestionService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockIngestionService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockIngestionService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

// mockChunkReader is a mock implementation of ChunkReader.
type mockChunkReader struct {
	chunks []domain.Chunk
	err    error
}

func (m *mockChunkReader) GetChunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}
