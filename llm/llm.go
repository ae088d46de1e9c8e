// Package llm provides the remote language model clients used by chatpod.
// Every client starts a new conversation per call and sends the prompt as its
// only message.
package llm

import (
	"context"
	"errors"
)

// Define a custom type for context keys
type ContextKey string

var ErrEmptyResponse = errors.New("model returned no text")

// WithSessionID tags ctx with the chat session the request belongs to.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, ContextKey("sessionID"), sessionID)
}

func SessionID(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(ContextKey("sessionID")).(string)
	return sessionID, ok && sessionID != ""
}

// Mock is a canned model for local runs and tests. With an empty Reply it
// echoes the prompt back.
type Mock struct {
	Reply string
}

func NewMock(reply string) *Mock {
	return &Mock{Reply: reply}
}

func (m *Mock) Send(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Reply == "" {
		return prompt, nil
	}
	return m.Reply, nil
}

func (m *Mock) Name() string {
	return "mock"
}

func (m *Mock) Close() error {
	return nil
}
