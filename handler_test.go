package chatpod

import (
	"context"
	"net"
	"net/url"
	"sync/atomic"
	"syscall"
	"testing"

	"github.com/boat-builder/chatpod/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingModel replies with reply (or err) and counts its calls.
func countingModel(reply string, err error) (Model, *atomic.Int32) {
	calls := &atomic.Int32{}
	return ModelFunc(func(ctx context.Context, prompt string) (string, error) {
		calls.Add(1)
		if err != nil {
			return "", err
		}
		return reply, nil
	}), calls
}

func TestHandlerHandle(t *testing.T) {
	t.Run("returns the exchange for a reply", func(t *testing.T) {
		model, calls := countingModel("Hello!", nil)
		ex, err := NewHandler(model).Handle(context.Background(), "hi")
		require.NoError(t, err)
		assert.Equal(t, Exchange{UserText: "hi", ModelText: "Hello!"}, ex)
		assert.EqualValues(t, 1, calls.Load())
	})

	t.Run("sends the prompt untouched", func(t *testing.T) {
		var got string
		model := ModelFunc(func(ctx context.Context, prompt string) (string, error) {
			got = prompt
			return "ok", nil
		})
		ex, err := NewHandler(model).Handle(context.Background(), "  spaced  ")
		require.NoError(t, err)
		assert.Equal(t, "  spaced  ", got)
		assert.Equal(t, "  spaced  ", ex.UserText)
	})

	t.Run("rejects empty prompts without calling the model", func(t *testing.T) {
		model, calls := countingModel("unused", nil)
		h := NewHandler(model)
		for _, prompt := range []string{"", "   ", "\n\t "} {
			ex, err := h.Handle(context.Background(), prompt)
			assert.ErrorIs(t, err, ErrValidation, "prompt %q", prompt)
			assert.Equal(t, Exchange{}, ex)
		}
		assert.EqualValues(t, 0, calls.Load())
	})

	t.Run("classifies connectivity errors", func(t *testing.T) {
		refused := &url.Error{Op: "Post", URL: "https://example.invalid", Err: &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}}
		model, calls := countingModel("", refused)
		_, err := NewHandler(model).Handle(context.Background(), "hi")

		var failure *Failure
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, FailureConnectivity, failure.Kind)
		assert.EqualValues(t, 1, calls.Load(), "no retry expected")
	})

	t.Run("treats an empty reply as a remote failure", func(t *testing.T) {
		model, _ := countingModel("", nil)
		_, err := NewHandler(model).Handle(context.Background(), "hi")
		assert.ErrorIs(t, err, ErrRemoteRequest)

		model, _ = countingModel("", llm.ErrEmptyResponse)
		_, err = NewHandler(model).Handle(context.Background(), "hi")
		assert.ErrorIs(t, err, ErrRemoteRequest)
	})

	t.Run("works with the mock provider", func(t *testing.T) {
		ex, err := NewHandler(llm.NewMock("")).Handle(context.Background(), "echo me")
		require.NoError(t, err)
		assert.Equal(t, "echo me", ex.ModelText)
	})
}
