package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const DefaultOpenAIModel = "gpt-4o-mini"

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration

	// TagSessions adds the session ID as custom_identifier to each request.
	// The public OpenAI API rejects unknown fields, so enable it only for
	// gateways that group calls by it.
	TagSessions bool
}

// OpenAI talks to OpenAI or any OpenAI-compatible gateway.
type OpenAI struct {
	model       string
	client      *openai.Client
	tagSessions bool
}

func NewOpenAI(config OpenAIConfig) (*OpenAI, error) {
	if config.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}
	model := config.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		// Relative endpoint paths resolve against the base, so it must end in a slash.
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(config.BaseURL, "/")+"/"))
	}
	if config.Timeout > 0 {
		opts = append(opts, option.WithHTTPClient(&http.Client{Timeout: config.Timeout}))
	}

	return &OpenAI{
		model:       model,
		client:      openai.NewClient(opts...),
		tagSessions: config.TagSessions,
	}, nil
}

// injectIdentifiers tags the request with the session so gateways can group calls.
func (c *OpenAI) injectIdentifiers(ctx context.Context, opts []option.RequestOption) []option.RequestOption {
	if !c.tagSessions {
		return opts
	}
	if sessionID, ok := SessionID(ctx); ok {
		opts = append(opts, option.WithJSONSet("custom_identifier", sessionID))
	}
	return opts
}

func (c *OpenAI) Send(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		}),
		Model: openai.F(c.model),
	}
	opts := c.injectIdentifiers(ctx, []option.RequestOption{})

	completion, err := c.client.Chat.Completions.New(ctx, params, opts...)
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return completion.Choices[0].Message.Content, nil
}

func (c *OpenAI) Name() string {
	return fmt.Sprintf("openai:%s", c.model)
}

func (c *OpenAI) Close() error {
	return nil
}
