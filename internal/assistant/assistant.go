// Package assistant answers free-text questions when the catalog has no
// match. Answers are opaque text; failures come back as text describing
// the failure rather than as errors.
package assistant

import (
	"context"
	"log/slog"
	"net/http"
)

// Info describes the configured answerer.
type Info struct {
	Enabled bool   `json:"enabled"`
	Name    string `json:"name"`
	Reason  string `json:"reason,omitempty"`
}

// Assistant is a text-in, text-out collaborator.
type Assistant interface {
	Ask(ctx context.Context, prompt string) string
	Info() Info
}

// New returns an OpenAI-compatible assistant, or a Disabled one when no
// token is configured.
func New(cfg *Config, client *http.Client, logger *slog.Logger) Assistant {
	logger = logger.With("system", "assistant")
	if cfg.Token == "" {
		d := Disabled{Reason: "assistant token is not configured"}
		logger.Info("ai fallback disabled", "reason", d.Reason)
		return d
	}
	return NewOpenAI(cfg, client, logger)
}

// Disabled answers every prompt with the reason the assistant is off.
type Disabled struct {
	Reason string
}

func (d Disabled) Ask(context.Context, string) string {
	return "AI fallback unavailable: " + d.Reason
}

func (d Disabled) Info() Info {
	return Info{Name: "disabled", Reason: d.Reason}
}
