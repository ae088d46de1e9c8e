package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// Client is what New hands back: a model plus a name for logs.
type Client interface {
	Send(ctx context.Context, prompt string) (string, error)
	Name() string
	Close() error
}

var (
	_ Client = &Gemini{}
	_ Client = &OpenAI{}
	_ Client = &Mock{}
)

type Config struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration

	// TagSessions is only used by the openai provider.
	TagSessions bool

	// MockReply is only used by the mock provider.
	MockReply string
}

// New builds the client for config.Provider. An empty provider means Gemini.
func New(ctx context.Context, config Config) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(config.Provider)) {
	case ProviderGemini, "":
		client, err := NewGemini(ctx, GeminiConfig{
			APIKey:  config.APIKey,
			Model:   config.Model,
			BaseURL: config.BaseURL,
			Timeout: config.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case ProviderOpenAI:
		client, err := NewOpenAI(OpenAIConfig{
			APIKey:      config.APIKey,
			BaseURL:     config.BaseURL,
			Model:       config.Model,
			Timeout:     config.Timeout,
			TagSessions: config.TagSessions,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case ProviderMock:
		return NewMock(config.MockReply), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", config.Provider)
	}
}
