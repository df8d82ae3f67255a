package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// Message represents a chat message.
type Message struct {
	Role    string // system, user, assistant
	Content string
}

// LLMService is the LLM service interface.
type LLMService interface {
	// Chat performs synchronous chat.
	Chat(ctx context.Context, messages []Message) (string, error)

	// Provider returns the provider name for logging.
	Provider() string
}

type llmService struct {
	provider    string
	model       llms.Model
	maxTokens   int
	temperature float32
}

// NewLLMService creates a single-provider LLMService.
func NewLLMService(cfg *LLMConfig) (LLMService, error) {
	var model llms.Model
	var err error

	switch cfg.Provider {
	case "groq":
		// Groq is compatible with OpenAI API
		model, err = openai.New(
			openai.WithToken(cfg.APIKey),
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithModel(cfg.Model),
		)

	case "openai":
		model, err = openai.New(
			openai.WithToken(cfg.APIKey),
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithModel(cfg.Model),
		)

	case "ollama":
		model, err = ollama.New(
			ollama.WithModel(cfg.Model),
			ollama.WithServerURL(cfg.BaseURL),
		)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}

	if err != nil {
		return nil, err
	}

	return &llmService{
		provider:    cfg.Provider,
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

func (s *llmService) Provider() string {
	return s.provider
}

func (s *llmService) Chat(ctx context.Context, messages []Message) (string, error) {
	llmMessages := convertMessages(messages)

	resp, err := s.model.GenerateContent(ctx, llmMessages,
		llms.WithMaxTokens(s.maxTokens),
		llms.WithTemperature(float64(s.temperature)),
	)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response")
	}

	return resp.Choices[0].Content, nil
}

// fallbackChain tries providers in order until one answers.
type fallbackChain struct {
	services []LLMService
}

// NewLLMChain builds an LLMService that falls back across the configured
// providers in order. At least one provider is required.
func NewLLMChain(cfgs []LLMConfig) (LLMService, error) {
	if len(cfgs) == 0 {
		return nil, errors.New("no LLM providers configured")
	}

	services := make([]LLMService, 0, len(cfgs))
	for i := range cfgs {
		svc, err := NewLLMService(&cfgs[i])
		if err != nil {
			return nil, errors.Wrapf(err, "init LLM provider %s", cfgs[i].Provider)
		}
		services = append(services, svc)
	}

	if len(services) == 1 {
		return services[0], nil
	}
	return &fallbackChain{services: services}, nil
}

func (c *fallbackChain) Provider() string {
	return c.services[0].Provider()
}

func (c *fallbackChain) Chat(ctx context.Context, messages []Message) (string, error) {
	var lastErr error
	for _, svc := range c.services {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		resp, err := svc.Chat(ctx, messages)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		slog.Warn("llm provider failed, trying next",
			slog.String("provider", svc.Provider()),
			slog.String("error", err.Error()))
	}
	return "", errors.Wrap(lastErr, "all LLM providers failed")
}

// Helper for creating system prompts
func SystemPrompt(content string) Message {
	return Message{Role: "system", Content: content}
}

// Helper for creating user messages
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// Helper for creating assistant messages
func AssistantMessage(content string) Message {
	return Message{Role: "assistant", Content: content}
}

// FormatMessages formats messages for prompt templates.
func FormatMessages(systemPrompt string, userContent string, history []Message) []Message {
	messages := []Message{}
	if systemPrompt != "" {
		messages = append(messages, SystemPrompt(systemPrompt))
	}
	messages = append(messages, history...)
	messages = append(messages, UserMessage(userContent))
	return messages
}

func convertMessages(messages []Message) []llms.MessageContent {
	llmMessages := make([]llms.MessageContent, len(messages))
	for i, m := range messages {
		role := schema.ChatMessageTypeHuman
		switch m.Role {
		case "system":
			role = schema.ChatMessageTypeSystem
		case "user":
			role = schema.ChatMessageTypeHuman
		case "assistant":
			role = schema.ChatMessageTypeAI
		}

		llmMessages[i] = llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(m.Content)},
		}
	}
	return llmMessages
}
