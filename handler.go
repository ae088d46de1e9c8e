package chatpod

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// ValidPrompt reports whether prompt has anything besides whitespace.
func ValidPrompt(prompt string) bool {
	return strings.TrimSpace(prompt) != ""
}

// Handler turns a prompt into an Exchange with a single remote model call. It
// holds no state between calls.
type Handler struct {
	model  Model
	logger *slog.Logger
}

func NewHandler(model Model) *Handler {
	return &Handler{
		model:  model,
		logger: slog.Default(),
	}
}

// WithLogger returns a copy of the handler that logs to logger.
func (h *Handler) WithLogger(logger *slog.Logger) *Handler {
	return &Handler{model: h.model, logger: logger}
}

// Handle validates prompt, sends it to the model and returns the resulting
// exchange. Every error it returns is a *Failure. Appending the exchange to a
// SessionState is left to the caller.
func (h *Handler) Handle(ctx context.Context, prompt string) (Exchange, error) {
	if !ValidPrompt(prompt) {
		return Exchange{}, &Failure{Kind: FailureValidation, Message: MessageEmptyPrompt}
	}

	start := time.Now()
	reply, err := h.model.Send(ctx, prompt)
	if err != nil {
		failure := classify(err)
		h.logger.Error("Model request failed",
			"kind", failure.Kind.String(),
			"duration", time.Since(start),
			"error", err,
		)
		return Exchange{}, failure
	}
	if reply == "" {
		h.logger.Error("Model returned no text", "duration", time.Since(start))
		return Exchange{}, &Failure{Kind: FailureRemoteRequest, Message: MessageRequestFailed}
	}

	h.logger.Debug("Model request succeeded", "duration", time.Since(start), "replyLength", len(reply))
	return Exchange{UserText: prompt, ModelText: reply}, nil
}
