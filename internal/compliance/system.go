package compliance

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/gostcat/internal/metrics"
)

// System defines the public contract for compliance checks.
type System interface {
	Handler() *Handler

	Check(ctx context.Context, code, value string) Decision
	Rules(ctx context.Context) RuleSet
}

type repo struct {
	path    string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a compliance System over the rule set file at path. The
// rule set is read once per check.
func New(path string, logger *slog.Logger, m *metrics.Metrics) System {
	return &repo{
		path:    path,
		logger:  logger.With("system", "compliance"),
		metrics: m,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Check(ctx context.Context, code, value string) Decision {
	d := Evaluate(r.Rules(ctx), code, value)
	r.metrics.ObserveCompliance(d.Reason)
	return d
}

func (r *repo) Rules(ctx context.Context) RuleSet {
	return LoadRuleSet(r.path, r.logger)
}
