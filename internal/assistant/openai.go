package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// OpenAI answers through an OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	client  *openai.Client
	model   string
	persona string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewOpenAI creates an OpenAI assistant. A nil client uses the library
// default.
func NewOpenAI(cfg *Config, client *http.Client, logger *slog.Logger) *OpenAI {
	oc := openai.DefaultConfig(cfg.Token)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	if client != nil {
		oc.HTTPClient = client
	}

	every := time.Minute / time.Duration(cfg.RequestsPerMinute)

	return &OpenAI{
		client:  openai.NewClientWithConfig(oc),
		model:   cfg.Model,
		persona: cfg.Persona,
		timeout: cfg.TimeoutDuration(),
		limiter: rate.NewLimiter(rate.Every(every), cfg.Burst),
		logger:  logger,
	}
}

// Ask sends prompt as the user message. Rate limiting, transport and API
// failures, and empty completions are returned as descriptive text.
func (o *OpenAI) Ask(ctx context.Context, prompt string) string {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	if err := o.limiter.Wait(ctx); err != nil {
		return o.failure("rate limited", err)
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: o.persona},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return o.failure("timed out", err)
		}
		return o.failure("request failed", err)
	}

	if len(resp.Choices) == 0 {
		return o.failure("empty response", errors.New("no choices returned"))
	}

	o.logger.Debug("fallback answered", "model", o.model, "finish_reason", resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content
}

func (o *OpenAI) Info() Info {
	return Info{Enabled: true, Name: "openai:" + o.model}
}

func (o *OpenAI) failure(what string, err error) string {
	o.logger.Warn("ai fallback failed", "reason", what, "error", err)
	return fmt.Sprintf("AI fallback error (%s): %v", what, err)
}
