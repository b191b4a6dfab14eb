// Package openai provides an embedding service adapter for the OpenAI
// embeddings API and compatible endpoints.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/docsage/docsage/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "text-embedding-3-small"
	DefaultTimeout = 60 * time.Second

	fallbackDimensions = 1536
)

// Retry bounds. Only transport errors, 429 and 5xx are retried; API
// errors (bad key, bad model) surface immediately.
const (
	maxAttempts  = 3
	retryBackoff = time.Second
)

// modelDimensions maps known embedding models to their vector size.
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// dimensionsParamModels are the models that accept an explicit
// dimensions request parameter.
var dimensionsParamModels = map[string]bool{
	"text-embedding-3-small": true,
	"text-embedding-3-large": true,
}

// Config holds configuration for the OpenAI embedding service.
type Config struct {
	// APIKey is required.
	APIKey string

	// BaseURL overrides the endpoint, for Azure or compatible APIs.
	BaseURL string

	// Model is the embedding model (default: text-embedding-3-small).
	Model string

	// Timeout is the per-request timeout (default: 60s).
	Timeout time.Duration

	// Dimensions overrides the model's native dimension, on models
	// that support it.
	Dimensions int

	// RequestsPerMinute throttles outgoing calls. Zero disables
	// throttling.
	RequestsPerMinute int
}

// EmbeddingService generates embeddings through the OpenAI API.
type EmbeddingService struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	model      string
	dimensions int
	limiter    *rate.Limiter
}

// NewEmbeddingService creates a new OpenAI embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		if d, ok := modelDimensions[cfg.Model]; ok {
			cfg.Dimensions = d
		} else {
			cfg.Dimensions = fallbackDimensions
		}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}

	return &EmbeddingService{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		limiter:    limiter,
	}, nil
}

type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Embed generates a vector embedding for one text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 || vectors[0] == nil {
		return nil, fmt.Errorf("openai: no embedding returned")
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one API call,
// retrying transient failures with a bounded backoff.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	payload := embeddingRequest{Model: s.model, Input: texts}
	if dimensionsParamModels[s.model] {
		payload.Dimensions = s.dimensions
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryBackoff * time.Duration(attempt-1)):
			}
		}
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		vectors, retryable, err := s.embedOnce(ctx, body, len(texts))
		if err == nil {
			return vectors, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("openai: retries exhausted: %w", lastErr)
}

// embedOnce performs one request. The second return reports whether
// the failure is worth retrying.
func (s *EmbeddingService) embedOnce(ctx context.Context, body []byte, n int) ([][]float32, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("openai: status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, false, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return nil, false, fmt.Errorf("openai: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("openai: status %d: %s", resp.StatusCode, string(respBody))
	}

	// The API may return data out of order; place by index.
	vectors := make([][]float32, n)
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= n {
			return nil, false, fmt.Errorf("openai: embedding index %d out of range", d.Index)
		}
		v := make([]float32, len(d.Embedding))
		for i, f := range d.Embedding {
			v[i] = float32(f)
		}
		vectors[d.Index] = v
	}
	return vectors, false, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelVersion returns the model identifier used for content hashing.
func (s *EmbeddingService) ModelVersion() string {
	return s.model
}

// Ping checks the API key against the /models endpoint without
// running inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("openai: create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body) //nolint:errcheck
		return fmt.Errorf("openai: status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// Close releases resources. The HTTP client needs no cleanup.
func (s *EmbeddingService) Close() error {
	return nil
}
