package mirror

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/gostcat/pkg/lifecycle"
)

// ConflictPolicy decides what happens when the remote rejects a stale version.
type ConflictPolicy string

const (
	// PolicyDrop logs the conflict and abandons the sync.
	PolicyDrop ConflictPolicy = "drop"
	// PolicyRetry re-reads the version and attempts one more conditional write.
	PolicyRetry ConflictPolicy = "retry"
)

// Status classifies the result of one sync run.
type Status string

const (
	StatusPublished Status = "published"
	StatusConflict  Status = "conflict"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Outcome reports a single sync run.
type Outcome struct {
	ID         string    `json:"id"`
	Status     Status    `json:"status"`
	Version    string    `json:"version,omitempty"`
	Attempts   int       `json:"attempts"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	FinishedAt time.Time `json:"finished_at"`
}

// Observer receives every Outcome after it is logged.
type Observer func(Outcome)

// State summarizes the mirror for status reports.
type State struct {
	Enabled bool           `json:"enabled"`
	Target  string         `json:"target"`
	Reason  string         `json:"reason,omitempty"`
	Policy  ConflictPolicy `json:"conflict_policy"`
	Last    *Outcome       `json:"last,omitempty"`
}

// Syncer publishes document snapshots to a Remote. Push runs the protocol
// inline; Dispatch hands a snapshot to the background worker and returns.
type Syncer struct {
	remote    Remote
	policy    ConflictPolicy
	timeout   time.Duration
	message   string
	logger    *slog.Logger
	observers []Observer

	queue chan []byte

	mu   sync.RWMutex
	last *Outcome
}

// New creates a Syncer for remote using the policy, timeout, and commit
// message from cfg. cfg must be finalized.
func New(remote Remote, cfg *Config, logger *slog.Logger, observers ...Observer) *Syncer {
	return &Syncer{
		remote:    remote,
		policy:    cfg.Policy(),
		timeout:   cfg.TimeoutDuration(),
		message:   cfg.Message,
		logger:    logger.With("system", "mirror"),
		observers: observers,
		queue:     make(chan []byte, 1),
	}
}

// Start runs the dispatch worker until the coordinator shuts down.
func (s *Syncer) Start(lc *lifecycle.Coordinator) {
	s.logger.Info("starting mirror sync worker", "target", s.remote.Target(), "policy", s.policy)

	lc.Background(func(ctx context.Context) {
		for {
			select {
			case <-ctx.Done():
				s.logger.Info("mirror sync worker stopped")
				return
			case content := <-s.queue:
				s.Push(ctx, content)
			}
		}
	})
}

// Dispatch queues content for publication without blocking. Only the most
// recent snapshot is kept: a pending older snapshot is replaced.
func (s *Syncer) Dispatch(content []byte) {
	snapshot := bytes.Clone(content)

	for {
		select {
		case s.queue <- snapshot:
			return
		default:
		}

		select {
		case <-s.queue:
			s.logger.Debug("replaced pending mirror snapshot")
		default:
		}
	}
}

// Push runs one bounded sync of content and returns its outcome.
// The outcome is logged and observed; it is never returned as an error.
func (s *Syncer) Push(ctx context.Context, content []byte) Outcome {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out := s.publish(ctx, content)
	out.ID = uuid.NewString()
	out.DurationMS = time.Since(start).Milliseconds()
	out.FinishedAt = time.Now().UTC()

	s.record(out)
	return out
}

// State reports whether the mirror is enabled and the last outcome.
func (s *Syncer) State() State {
	state := State{
		Enabled: true,
		Target:  s.remote.Target(),
		Policy:  s.policy,
	}
	if d, ok := s.remote.(Disabled); ok {
		state.Enabled = false
		state.Reason = d.Reason
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last != nil {
		last := *s.last
		state.Last = &last
	}
	return state
}

func (s *Syncer) publish(ctx context.Context, content []byte) Outcome {
	attempts := 1
	if s.policy == PolicyRetry {
		attempts = 2
	}

	var err error
	for i := range attempts {
		var version, next string

		version, err = s.remote.Version(ctx)
		if err != nil {
			return failure(err, i+1)
		}

		next, err = s.remote.Put(ctx, content, s.message, version)
		if err == nil {
			return Outcome{Status: StatusPublished, Version: next, Attempts: i + 1}
		}
		if !errors.Is(err, ErrConflict) {
			return failure(err, i+1)
		}
	}

	return Outcome{Status: StatusConflict, Attempts: attempts, Error: err.Error()}
}

func failure(err error, attempts int) Outcome {
	status := StatusFailed
	if errors.Is(err, ErrNotConfigured) {
		status = StatusSkipped
	}
	return Outcome{Status: status, Attempts: attempts, Error: err.Error()}
}

func (s *Syncer) record(out Outcome) {
	s.mu.Lock()
	s.last = &out
	s.mu.Unlock()

	attrs := []any{
		"id", out.ID,
		"status", out.Status,
		"attempts", out.Attempts,
		"duration_ms", out.DurationMS,
	}

	switch out.Status {
	case StatusPublished:
		s.logger.Info("mirror sync published", append(attrs, "version", out.Version)...)
	case StatusSkipped:
		s.logger.Info("mirror sync skipped", append(attrs, "reason", out.Error)...)
	default:
		s.logger.Warn("mirror sync failed", append(attrs, "error", out.Error)...)
	}

	for _, observe := range s.observers {
		observe(out)
	}
}
