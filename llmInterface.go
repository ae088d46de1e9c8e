package chatpod

import "context"

// Model is the remote generative-model call the handler relies on. Each Send
// is independent: implementations start a fresh conversation and send prompt as
// its only message.
type Model interface {
	Send(ctx context.Context, prompt string) (string, error)
}

// ModelFunc adapts an ordinary function to the Model interface.
type ModelFunc func(ctx context.Context, prompt string) (string, error)

func (f ModelFunc) Send(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
