package model

import "time"

// Config holds the full engine configuration
type Config struct {
	LLM       LLMConfig       `yaml:"llm" json:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding" json:"embedding"`
	Engine    EngineConfig    `yaml:"engine" json:"engine"`
	Output    OutputConfig    `yaml:"output" json:"output"`
}

// LLMConfig configures the external judgment provider
type LLMConfig struct {
	Provider  string `yaml:"provider" json:"provider"` // openai, ollama, "" (disabled)
	Model     string `yaml:"model" json:"model"`
	APIKey    string `yaml:"api_key,omitempty" json:"-"`
	BaseURL   string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout" json:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens"`
}

// EmbeddingConfig configures the external embedding provider
type EmbeddingConfig struct {
	Provider   string `yaml:"provider" json:"provider"` // openai, ollama, "" (disabled)
	Model      string `yaml:"model" json:"model"`
	APIKey     string `yaml:"api_key,omitempty" json:"-"`
	BaseURL    string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Dimensions int    `yaml:"dimensions" json:"dimensions"`
	CacheTTL   int    `yaml:"cache_ttl" json:"cache_ttl"` // minutes, 0 disables caching
}

// EngineConfig tunes detection, evaluation, and remembrance behavior
type EngineConfig struct {
	DetectionDebounce   time.Duration `yaml:"detection_debounce" json:"detection_debounce"`
	RemembranceDebounce time.Duration `yaml:"remembrance_debounce" json:"remembrance_debounce"`
	MaxEvidenceItems    int           `yaml:"max_evidence_items" json:"max_evidence_items"`
	RelevanceFloor      float64       `yaml:"relevance_floor" json:"relevance_floor"`
	TopKAnalyses        int           `yaml:"top_k_analyses" json:"top_k_analyses"`
	JudgeRatePerSecond  float64       `yaml:"judge_rate_per_second" json:"judge_rate_per_second"`
	JudgeBurst          int           `yaml:"judge_burst" json:"judge_burst"`
}

// OutputConfig controls CLI report rendering
type OutputConfig struct {
	Verbose bool   `yaml:"verbose" json:"verbose"`
	Format  string `yaml:"format" json:"format"` // json, pretty
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "",
			Model:     "",
			Timeout:   30,
			MaxTokens: 1200,
		},
		Embedding: EmbeddingConfig{
			Provider:   "",
			Model:      "",
			Dimensions: 768,
			CacheTTL:   30,
		},
		Engine: EngineConfig{
			DetectionDebounce:   time.Second,
			RemembranceDebounce: 1500 * time.Millisecond,
			MaxEvidenceItems:    10,
			RelevanceFloor:      0.3,
			TopKAnalyses:        5,
			JudgeRatePerSecond:  1,
			JudgeBurst:          3,
		},
		Output: OutputConfig{
			Verbose: false,
			Format:  "pretty",
		},
	}
}
