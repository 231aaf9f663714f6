package llm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// NewJudge creates a judge based on configuration. An empty provider name
// disables the judge (nil, nil); evaluation then runs heuristics only.
func NewJudge(config Config, logger *zap.Logger) (Judge, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config, logger)

	case "anthropic", "claude":
		return NewAnthropicProvider(config, logger)

	case "ollama":
		return NewOllamaProvider(config, logger)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown judge provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// NewEmbedder creates an embedder based on configuration. An empty provider
// name disables embeddings (nil, nil); the semantic index then stays empty
// and relevance lookups return nothing.
func NewEmbedder(config Config, logger *zap.Logger) (Embedder, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config, logger)

	case "ollama":
		return NewOllamaProvider(config, logger)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: openai, ollama)", config.Provider)
	}
}
