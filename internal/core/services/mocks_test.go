package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
)

// mockEmbeddingService produces deterministic vectors derived from the
// input text and counts external calls.
type mockEmbeddingService struct {
	dims    int
	model   string
	calls   atomic.Int64
	embedFn func(ctx context.Context, text string) ([]float32, error)

	// block, when set, is closed to release in-flight Embed calls.
	block chan struct{}
}

func newMockEmbeddingService(dims int) *mockEmbeddingService {
	return &mockEmbeddingService{dims: dims, model: "mock-embed-v1"}
}

func (m *mockEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	m.calls.Add(1)
	if m.block != nil {
		<-m.block
	}
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return deterministicVector(text, m.dims), nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int      { return m.dims }
func (m *mockEmbeddingService) ModelVersion() string { return m.model }
func (m *mockEmbeddingService) Close() error         { return nil }

// deterministicVector hashes the text into a small non-zero vector so
// equal texts embed equal and different texts (almost always) differ.
func deterministicVector(text string, dims int) []float32 {
	v := make([]float32, dims)
	var h uint32 = 2166136261
	for i := 0; i < len(text); i++ {
		h ^= uint32(text[i])
		h *= 16777619
	}
	for i := range v {
		h ^= uint32(i + 1)
		h *= 16777619
		v[i] = float32(h%1000)/1000.0 + 0.001
	}
	return v
}

// mockLLM records prompts and returns a canned response.
type mockLLM struct {
	mu       sync.Mutex
	prompts  []string
	response string
	err      error
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }
func (m *mockLLM) Close() error      { return nil }

func (m *mockLLM) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

func (m *mockLLM) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// mockExtractorRegistry serves fixed text per source URI.
type mockExtractorRegistry struct {
	texts  map[string]string
	titles map[string]string
	err    error
}

func (m *mockExtractorRegistry) Extract(ctx context.Context, sourceURI, fileType string, content []byte) (*driven.ExtractResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	text, ok := m.texts[sourceURI]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, fileType)
	}
	title := m.titles[sourceURI]
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(sourceURI), filepath.Ext(sourceURI))
	}
	return &driven.ExtractResult{Text: text, Title: title}, nil
}

func (m *mockExtractorRegistry) Supports(fileType string) bool {
	return true
}
