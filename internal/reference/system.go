package reference

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/gostcat/internal/metrics"
	"github.com/JaimeStill/gostcat/pkg/textmatch"
)

// System defines the public contract for reference table lookups.
type System interface {
	Handler() *Handler

	Search(ctx context.Context, query string) []Match
	Count(ctx context.Context) int
}

type repo struct {
	path    string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a reference System over the table file at path. The file
// is read on every call.
func New(path string, logger *slog.Logger, m *metrics.Metrics) System {
	return &repo{
		path:    path,
		logger:  logger.With("system", "reference"),
		metrics: m,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

// Search matches the query against each code joined with its name.
// An empty query matches nothing.
func (r *repo) Search(ctx context.Context, query string) []Match {
	q := textmatch.Normalize(query)
	if q == "" {
		return []Match{}
	}

	table := LoadTable(r.path, r.logger)
	matches := []Match{}
	for _, code := range table.Codes() {
		d := table[code]
		if textmatch.Contains(q, code, d.Name) {
			matches = append(matches, Match{
				Code:      code,
				Name:      d.Name,
				Standards: d.Standards,
			})
		}
	}

	result := "matched"
	if len(matches) == 0 {
		result = "empty"
	}
	r.metrics.ObserveSearch("reference", result)

	return matches
}

func (r *repo) Count(ctx context.Context) int {
	return len(LoadTable(r.path, r.logger))
}
