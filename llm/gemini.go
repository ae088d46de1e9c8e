package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// =============================================================================
// GOOGLE GEMINI CHAT MODEL
// =============================================================================

const DefaultGeminiModel = "gemini-2.0-flash"

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string // empty selects the public Gemini API endpoint
	Timeout time.Duration
}

// Gemini sends prompts to Google's Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini client. The timeout applies to each request.
func NewGemini(ctx context.Context, config GeminiConfig) (*Gemini, error) {
	if config.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	model := strings.TrimSpace(config.Model)
	if model == "" {
		model = DefaultGeminiModel
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: config.Timeout},
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  model,
	}, nil
}

// Send opens a fresh chat with no history and sends prompt as its only message.
func (g *Gemini) Send(ctx context.Context, prompt string) (string, error) {
	chat, err := g.client.Chats.Create(ctx, g.model, nil, nil)
	if err != nil {
		return "", fmt.Errorf("gemini start chat failed: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return "", fmt.Errorf("gemini send message failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Name returns the provider and model, e.g. "gemini:gemini-2.0-flash".
func (g *Gemini) Name() string {
	return fmt.Sprintf("gemini:%s", g.model)
}

// Close is a no-op; the genai client holds no resources beyond its http.Client.
func (g *Gemini) Close() error {
	return nil
}
