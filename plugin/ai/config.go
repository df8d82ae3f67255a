package ai

import (
	"errors"

	"github.com/hrygo/scambait/internal/profile"
)

// Config represents AI configuration.
type Config struct {
	Embedding EmbeddingConfig
	LLMs      []LLMConfig
	Detection DetectionConfig
	Engage    EngageConfig
	Callback  CallbackConfig
}

// EmbeddingConfig represents vector embedding configuration.
type EmbeddingConfig struct {
	Provider   string // openai, or any OpenAI-compatible endpoint
	Model      string // text-embedding-3-small
	Dimensions int    // 1536
	APIKey     string
	BaseURL    string
}

// LLMConfig represents a single LLM provider configuration.
type LLMConfig struct {
	Provider    string // groq, openai, ollama
	Model       string
	APIKey      string
	BaseURL     string
	MaxTokens   int     // default: 1024
	Temperature float32 // default: 0.7
}

// DetectionConfig holds the decision thresholds per detection mode.
type DetectionConfig struct {
	NormalEngageThreshold float64
	NormalProbeThreshold  float64
	StrictEngageThreshold float64
	StrictProbeThreshold  float64
	SupportedLanguages    []string
}

// EngageConfig holds engagement loop limits.
type EngageConfig struct {
	MaxTurns             int
	SessionRetentionDays int
}

// CallbackConfig holds the final report callback target.
type CallbackConfig struct {
	URL    string
	APIKey string
}

// NewConfigFromProfile creates AI config from profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	cfg := &Config{
		Embedding: EmbeddingConfig{
			Provider:   p.EmbeddingProvider,
			Model:      p.EmbeddingModel,
			Dimensions: p.EmbeddingDim,
			APIKey:     p.EmbeddingAPIKey,
			BaseURL:    p.EmbeddingBaseURL,
		},
		Detection: DetectionConfig{
			NormalEngageThreshold: p.NormalEngageThreshold,
			NormalProbeThreshold:  p.NormalProbeThreshold,
			StrictEngageThreshold: p.StrictEngageThreshold,
			StrictProbeThreshold:  p.StrictProbeThreshold,
			SupportedLanguages:    p.SupportedLanguages,
		},
		Engage: EngageConfig{
			MaxTurns:             p.MaxTurns,
			SessionRetentionDays: p.SessionRetentionDays,
		},
		Callback: CallbackConfig{
			URL:    p.CallbackURL,
			APIKey: p.CallbackAPIKey,
		},
	}

	// The embedding key falls back to the OpenAI chat key so that a single
	// SCAMBAIT_OPENAI_API_KEY is enough for a default deployment.
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = p.OpenAIAPIKey
	}

	for _, provider := range p.LLMProviders {
		llm := LLMConfig{
			Provider:    provider,
			MaxTokens:   1024,
			Temperature: 0.7,
		}
		switch provider {
		case "groq":
			llm.APIKey = p.GroqAPIKey
			llm.BaseURL = p.GroqBaseURL
			llm.Model = p.GroqModel
		case "openai":
			llm.APIKey = p.OpenAIAPIKey
			llm.BaseURL = p.OpenAIBaseURL
			llm.Model = p.OpenAIModel
		case "ollama":
			llm.BaseURL = p.OllamaBaseURL
			llm.Model = p.OllamaModel
		}
		if llm.Provider != "ollama" && llm.APIKey == "" {
			// Skip providers with no credentials instead of failing startup.
			continue
		}
		if llm.Provider == "ollama" && llm.BaseURL == "" {
			continue
		}
		cfg.LLMs = append(cfg.LLMs, llm)
	}

	return cfg
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.LLMs) == 0 {
		return errors.New("at least one usable LLM provider is required")
	}
	for _, llm := range c.LLMs {
		if llm.Model == "" {
			return errors.New("LLM model is required")
		}
	}
	if c.Embedding.Provider != "" && c.Embedding.Provider != "ollama" && c.Embedding.APIKey == "" {
		// The retriever degrades to empty evidence without embeddings, so a
		// missing key disables it rather than failing validation.
		c.Embedding.Provider = ""
	}
	return nil
}

// HasEmbedding reports whether evidence retrieval can run.
func (c *Config) HasEmbedding() bool {
	return c.Embedding.Provider != "" && c.Embedding.Model != ""
}
