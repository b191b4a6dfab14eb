package driven

import "context"

// LLMService is the external generation collaborator. Implementations
// retry transport-level failures with a bounded policy; a vague or
// irrelevant completion is never retried.
//
// Implementations may include:
//   - OpenAI (chat completions)
//   - Ollama (local models)
type LLMService interface {
	// Generate produces a text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
