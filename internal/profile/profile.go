package profile

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where scambait stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// APIKey is the shared secret expected in the x-api-key header.
	APIKey string

	// Callback configuration for the external evaluator.
	CallbackURL    string // SCAMBAIT_CALLBACK_URL
	CallbackAPIKey string // SCAMBAIT_CALLBACK_API_KEY

	// LLM configuration. Providers are tried in order; the first one that
	// succeeds wins.
	LLMProviders  []string // SCAMBAIT_LLM_PROVIDERS (comma separated, default: groq,openai)
	GroqAPIKey    string   // SCAMBAIT_GROQ_API_KEY
	GroqBaseURL   string   // SCAMBAIT_GROQ_BASE_URL (default: https://api.groq.com/openai/v1)
	GroqModel     string   // SCAMBAIT_GROQ_MODEL (default: llama-3.3-70b-versatile)
	OpenAIAPIKey  string   // SCAMBAIT_OPENAI_API_KEY
	OpenAIBaseURL string   // SCAMBAIT_OPENAI_BASE_URL (default: https://api.openai.com/v1)
	OpenAIModel   string   // SCAMBAIT_OPENAI_MODEL (default: gpt-4o-mini)
	OllamaBaseURL string   // SCAMBAIT_OLLAMA_BASE_URL (default: empty, disabled)
	OllamaModel   string   // SCAMBAIT_OLLAMA_MODEL

	// Embedding configuration.
	EmbeddingProvider string // SCAMBAIT_EMBEDDING_PROVIDER (default: openai)
	EmbeddingAPIKey   string // SCAMBAIT_EMBEDDING_API_KEY
	EmbeddingBaseURL  string // SCAMBAIT_EMBEDDING_BASE_URL
	EmbeddingModel    string // SCAMBAIT_EMBEDDING_MODEL (default: text-embedding-3-small)
	EmbeddingDim      int    // SCAMBAIT_EMBEDDING_DIM (default: 1536)

	// Detection thresholds.
	NormalEngageThreshold float64 // SCAMBAIT_NORMAL_ENGAGE_THRESHOLD (default: 0.70)
	NormalProbeThreshold  float64 // SCAMBAIT_NORMAL_PROBE_THRESHOLD (default: 0.50)
	StrictEngageThreshold float64 // SCAMBAIT_STRICT_ENGAGE_THRESHOLD (default: 0.85)
	StrictProbeThreshold  float64 // SCAMBAIT_STRICT_PROBE_THRESHOLD (default: 0.70)

	// Engagement configuration.
	MaxTurns             int // SCAMBAIT_MAX_TURNS (default: 20)
	SessionRetentionDays int // SCAMBAIT_SESSION_RETENTION_DAYS (default: 7)

	// SupportedLanguages are routed to normal detection mode.
	SupportedLanguages []string // SCAMBAIT_SUPPORTED_LANGUAGES (default: en,hi)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// HasLLM reports whether at least one LLM provider is usable.
func (p *Profile) HasLLM() bool {
	return p.GroqAPIKey != "" || p.OpenAIAPIKey != "" || p.OllamaBaseURL != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// FromEnv loads configuration from SCAMBAIT_* environment variables.
func (p *Profile) FromEnv() {
	p.Mode = getEnvOrDefault("SCAMBAIT_MODE", p.Mode)
	p.Addr = getEnvOrDefault("SCAMBAIT_ADDR", p.Addr)
	p.Port = getIntEnv("SCAMBAIT_PORT", p.Port)
	p.Data = getEnvOrDefault("SCAMBAIT_DATA", p.Data)
	p.DSN = getEnvOrDefault("SCAMBAIT_DSN", p.DSN)
	p.Driver = getEnvOrDefault("SCAMBAIT_DRIVER", p.Driver)

	p.APIKey = getEnvOrDefault("SCAMBAIT_API_KEY", p.APIKey)
	p.CallbackURL = getEnvOrDefault("SCAMBAIT_CALLBACK_URL", p.CallbackURL)
	p.CallbackAPIKey = getEnvOrDefault("SCAMBAIT_CALLBACK_API_KEY", p.CallbackAPIKey)

	p.LLMProviders = getListEnv("SCAMBAIT_LLM_PROVIDERS", p.LLMProviders)
	p.GroqAPIKey = getEnvOrDefault("SCAMBAIT_GROQ_API_KEY", p.GroqAPIKey)
	p.GroqBaseURL = getEnvOrDefault("SCAMBAIT_GROQ_BASE_URL", p.GroqBaseURL)
	p.GroqModel = getEnvOrDefault("SCAMBAIT_GROQ_MODEL", p.GroqModel)
	p.OpenAIAPIKey = getEnvOrDefault("SCAMBAIT_OPENAI_API_KEY", p.OpenAIAPIKey)
	p.OpenAIBaseURL = getEnvOrDefault("SCAMBAIT_OPENAI_BASE_URL", p.OpenAIBaseURL)
	p.OpenAIModel = getEnvOrDefault("SCAMBAIT_OPENAI_MODEL", p.OpenAIModel)
	p.OllamaBaseURL = getEnvOrDefault("SCAMBAIT_OLLAMA_BASE_URL", p.OllamaBaseURL)
	p.OllamaModel = getEnvOrDefault("SCAMBAIT_OLLAMA_MODEL", p.OllamaModel)

	p.EmbeddingProvider = getEnvOrDefault("SCAMBAIT_EMBEDDING_PROVIDER", p.EmbeddingProvider)
	p.EmbeddingAPIKey = getEnvOrDefault("SCAMBAIT_EMBEDDING_API_KEY", p.EmbeddingAPIKey)
	p.EmbeddingBaseURL = getEnvOrDefault("SCAMBAIT_EMBEDDING_BASE_URL", p.EmbeddingBaseURL)
	p.EmbeddingModel = getEnvOrDefault("SCAMBAIT_EMBEDDING_MODEL", p.EmbeddingModel)
	p.EmbeddingDim = getIntEnv("SCAMBAIT_EMBEDDING_DIM", p.EmbeddingDim)

	p.NormalEngageThreshold = getFloatEnv("SCAMBAIT_NORMAL_ENGAGE_THRESHOLD", p.NormalEngageThreshold)
	p.NormalProbeThreshold = getFloatEnv("SCAMBAIT_NORMAL_PROBE_THRESHOLD", p.NormalProbeThreshold)
	p.StrictEngageThreshold = getFloatEnv("SCAMBAIT_STRICT_ENGAGE_THRESHOLD", p.StrictEngageThreshold)
	p.StrictProbeThreshold = getFloatEnv("SCAMBAIT_STRICT_PROBE_THRESHOLD", p.StrictProbeThreshold)

	p.MaxTurns = getIntEnv("SCAMBAIT_MAX_TURNS", p.MaxTurns)
	p.SessionRetentionDays = getIntEnv("SCAMBAIT_SESSION_RETENTION_DAYS", p.SessionRetentionDays)
	p.SupportedLanguages = getListEnv("SCAMBAIT_SUPPORTED_LANGUAGES", p.SupportedLanguages)
}

// Default returns a profile with sane defaults applied.
func Default() *Profile {
	return &Profile{
		Mode:    "dev",
		Port:    8230,
		Driver:  "sqlite",
		Version: "0.4.0",

		LLMProviders:  []string{"groq", "openai"},
		GroqBaseURL:   "https://api.groq.com/openai/v1",
		GroqModel:     "llama-3.3-70b-versatile",
		OpenAIBaseURL: "https://api.openai.com/v1",
		OpenAIModel:   "gpt-4o-mini",
		OllamaModel:   "llama3",

		EmbeddingProvider: "openai",
		EmbeddingModel:    "text-embedding-3-small",
		EmbeddingDim:      1536,

		NormalEngageThreshold: 0.70,
		NormalProbeThreshold:  0.50,
		StrictEngageThreshold: 0.85,
		StrictProbeThreshold:  0.70,

		MaxTurns:             20,
		SessionRetentionDays: 7,
		SupportedLanguages:   []string{"en", "hi"},
	}
}

// Validate checks the profile for startup-fatal misconfiguration and fills
// derived defaults.
func (p *Profile) Validate() error {
	if p.Mode != "prod" && p.Mode != "dev" && p.Mode != "demo" {
		p.Mode = "dev"
	}
	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported database driver: %s", p.Driver)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("postgres driver requires SCAMBAIT_DSN")
	}
	if p.Driver == "sqlite" && p.DSN == "" {
		if p.Data == "" {
			p.Data = "."
		}
		p.DSN = fmt.Sprintf("%s/scambait_%s.db", p.Data, p.Mode)
	}
	if p.APIKey == "" {
		if p.Mode == "prod" {
			return errors.New("SCAMBAIT_API_KEY is required in prod mode")
		}
		p.APIKey = "scambait_dev_key"
	}
	if p.NormalProbeThreshold > p.NormalEngageThreshold {
		return errors.New("normal probe threshold must not exceed engage threshold")
	}
	if p.StrictProbeThreshold > p.StrictEngageThreshold {
		return errors.New("strict probe threshold must not exceed engage threshold")
	}
	if p.MaxTurns <= 0 {
		p.MaxTurns = 20
	}
	return nil
}
