package ai

import (
	"strings"
	"testing"

	"github.com/docsage/docsage/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.EmbeddingSettings
		wantNil  bool
		wantErr  bool
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.EmbeddingSettings{},
			wantNil:  true,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "nomic-embed-text",
			},
		},
		{
			name: "openai provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "text-embedding-3-small",
			},
		},
		{
			name: "openai without key is not configured",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				Model:    "text-embedding-3-small",
			},
			wantNil: true,
		},
		{
			name: "unknown provider returns nil (not configured)",
			settings: &domain.EmbeddingSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)

			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantNil && svc != nil {
				t.Error("expected nil service, got non-nil")
			}
			if !tt.wantNil && !tt.wantErr && svc == nil {
				t.Error("expected non-nil service, got nil")
			}
			if svc != nil {
				svc.Close()
			}
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantNil  bool
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.LLMSettings{},
			wantNil:  true,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "llama3.2",
			},
		},
		{
			name: "openai provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "gpt-4o-mini",
			},
		},
		{
			name: "unknown provider returns nil (not configured)",
			settings: &domain.LLMSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantNil && svc != nil {
				t.Error("expected nil service, got non-nil")
			}
			if !tt.wantNil && svc == nil {
				t.Error("expected non-nil service, got nil")
			}
			if svc != nil {
				svc.Close()
			}
		})
	}
}

func TestCreateAndValidateEmbeddingService_Unconfigured(t *testing.T) {
	svc, err := CreateAndValidateEmbeddingService(nil)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if svc != nil {
		t.Error("expected nil service")
		svc.Close()
	}

	svc, err = CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if svc != nil {
		t.Error("expected nil service")
		svc.Close()
	}
}

func TestCreateAndValidateEmbeddingService_Unreachable(t *testing.T) {
	settings := &domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  "http://127.0.0.1:1", // nothing listens here
		Model:    "nomic-embed-text",
	}

	svc, err := CreateAndValidateEmbeddingService(settings)
	if err == nil {
		if svc != nil {
			svc.Close()
		}
		t.Fatal("expected error for unreachable service")
	}
	if !strings.Contains(err.Error(), "[embedding]") {
		t.Errorf("error %q should point at the config section", err.Error())
	}
}

func TestCreateAndValidateLLMService_Unreachable(t *testing.T) {
	settings := &domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  "http://127.0.0.1:1",
		Model:    "llama3.2",
	}

	svc, err := CreateAndValidateLLMService(settings)
	if err == nil {
		if svc != nil {
			svc.Close()
		}
		t.Fatal("expected error for unreachable service")
	}
	if !strings.Contains(err.Error(), "[llm]") {
		t.Errorf("error %q should point at the config section", err.Error())
	}
}

func TestCreateOllamaEmbedding_Dimensions(t *testing.T) {
	known := createOllamaEmbedding(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  "http://localhost:11434",
		Model:    "nomic-embed-text",
	})
	defer known.Close()
	if got := known.Dimensions(); got != 768 {
		t.Errorf("Dimensions() = %d, want 768", got)
	}

	unknown := createOllamaEmbedding(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  "http://localhost:11434",
		Model:    "custom-model-unknown",
	})
	defer unknown.Close()
	if got := unknown.Dimensions(); got == 0 {
		t.Error("unknown model should fall back to default dimensions")
	}
}
