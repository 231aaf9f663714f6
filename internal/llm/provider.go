// Package llm holds the external-provider contracts and implementations:
// the claim judge (chat models) and the embedder (embedding models).
package llm

import (
	"context"
	"errors"

	"github.com/ebarkova/lede/internal/model"
)

// ErrInvalidVerdict reports a judge response that is not a single
// well-formed verdict object. There is no safe heuristic repair; callers
// surface this immediately.
var ErrInvalidVerdict = errors.New("invalid judge verdict")

// ErrEmbeddingUnavailable reports a provider that cannot produce
// embeddings. Callers degrade to empty results, never crash.
var ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

// Judge is the external LLM evaluator. It sees the claim and the notebook
// and returns a verdict grounded only in notebook content.
type Judge interface {
	// Name returns the provider name
	Name() string

	// EvaluateClaim asks the model for a verdict on the claim. A response
	// that is not one well-formed JSON verdict is an error.
	EvaluateClaim(ctx context.Context, claim model.Claim, nb model.NotebookSnapshot) (model.Verdict, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Embedder produces fixed-dimension embeddings for text.
type Embedder interface {
	// Name returns the provider name
	Name() string

	// Embed returns the embedding vector for the text.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Config holds provider configuration, shared between judge and embedder
// construction.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// Dimensions of the embedding vectors (embedder only)
	Dimensions int
}

// DefaultConfig returns sensible defaults with the provider disabled.
func DefaultConfig() Config {
	return Config{
		Provider:   "",
		Model:      "",
		Timeout:    30,
		MaxTokens:  1200,
		Dimensions: 768,
	}
}

// ConfigFromLLM converts the engine-level judge configuration.
func ConfigFromLLM(c model.LLMConfig) Config {
	return Config{
		Provider:  c.Provider,
		Model:     c.Model,
		APIKey:    c.APIKey,
		BaseURL:   c.BaseURL,
		Timeout:   c.Timeout,
		MaxTokens: c.MaxTokens,
	}
}

// ConfigFromEmbedding converts the engine-level embedder configuration.
func ConfigFromEmbedding(c model.EmbeddingConfig) Config {
	return Config{
		Provider:   c.Provider,
		Model:      c.Model,
		APIKey:     c.APIKey,
		BaseURL:    c.BaseURL,
		Dimensions: c.Dimensions,
	}
}
