package lookup

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/gostcat/internal/assistant"
	"github.com/JaimeStill/gostcat/internal/compliance"
	"github.com/JaimeStill/gostcat/internal/metrics"
	"github.com/JaimeStill/gostcat/internal/records"
	"github.com/JaimeStill/gostcat/internal/reference"
	"github.com/JaimeStill/gostcat/pkg/mirror"
	"github.com/JaimeStill/gostcat/pkg/textmatch"
)

// System defines the public contract for the query engine.
type System interface {
	Handler() *Handler

	Search(ctx context.Context, query string) Result
	SearchReference(ctx context.Context, query string) []reference.Match
	Status(ctx context.Context) Status
}

// MirrorState reports the remote mirror state.
type MirrorState interface {
	State() mirror.State
}

type engine struct {
	store      *records.Store
	reference  reference.System
	compliance compliance.System
	assistant  assistant.Assistant
	mirror     MirrorState
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// New creates the query engine.
func New(
	store *records.Store,
	ref reference.System,
	comp compliance.System,
	a assistant.Assistant,
	ms MirrorState,
	logger *slog.Logger,
	m *metrics.Metrics,
) System {
	return &engine{
		store:      store,
		reference:  ref,
		compliance: comp,
		assistant:  a,
		mirror:     ms,
		logger:     logger.With("system", "lookup"),
		metrics:    m,
	}
}

func (e *engine) Handler() *Handler {
	return NewHandler(e, e.logger)
}

// Search matches the query against each record's key, mark, and text
// joined by spaces. A blank query returns no matches and never falls back.
// When nothing matches, the raw query goes to the assistant exactly once.
func (e *engine) Search(ctx context.Context, query string) Result {
	result := Result{Query: query, Matches: []Match{}}

	q := textmatch.Normalize(query)
	if q == "" {
		return result
	}

	for _, entry := range e.store.Load(ctx).Entries() {
		if textmatch.Contains(q, entry.Key, entry.Mark, entry.Text) {
			result.Matches = append(result.Matches, Match{
				Key:   entry.Key,
				Mark:  entry.Mark,
				Text:  entry.Text,
				Image: entry.Image,
			})
		}
	}

	if len(result.Matches) > 0 {
		e.metrics.ObserveSearch("records", "matched")
		return result
	}

	result.Fallback = &Fallback{
		Text:      e.assistant.Ask(ctx, query),
		Synthetic: true,
		Source:    e.assistant.Info().Name,
	}
	e.metrics.ObserveSearch("records", "fallback")
	e.logger.Info("search fell back to assistant", "query", query, "source", result.Fallback.Source)

	return result
}

func (e *engine) SearchReference(ctx context.Context, query string) []reference.Match {
	return e.reference.Search(ctx, query)
}

// Status loads the record document, reference table, and rule set
// concurrently.
func (e *engine) Status(ctx context.Context) Status {
	status := Status{
		Store:     e.store.Describe(),
		Mirror:    e.mirror.State(),
		Assistant: e.assistant.Info(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for _, entry := range e.store.Load(ctx).Entries() {
			status.Records++
			if entry.Legacy {
				status.LegacyRecords++
			}
		}
		return nil
	})

	g.Go(func() error {
		status.ReferenceCodes = e.reference.Count(ctx)
		return nil
	})

	g.Go(func() error {
		rules := e.compliance.Rules(ctx)
		status.Regulation = rules.Name
		status.RegulationCodes = len(rules.Codes)
		return nil
	})

	g.Wait()
	return status
}
