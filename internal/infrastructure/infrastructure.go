// Package infrastructure provides core service initialization for application startup.
// It assembles the shared dependencies (logging, metrics, record persistence, the
// remote mirror, blob storage, the AI fallback) that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/gostcat/internal/assistant"
	"github.com/JaimeStill/gostcat/internal/config"
	"github.com/JaimeStill/gostcat/internal/metrics"
	"github.com/JaimeStill/gostcat/internal/records"
	"github.com/JaimeStill/gostcat/pkg/database"
	"github.com/JaimeStill/gostcat/pkg/lifecycle"
	"github.com/JaimeStill/gostcat/pkg/mirror"
	"github.com/JaimeStill/gostcat/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Database is nil unless the record store uses the postgres backend.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Database  database.System
	Storage   storage.System
	Store     *records.Store
	Mirror    *mirror.Syncer
	Assistant assistant.Assistant
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
// Every committed store write is dispatched to the mirror.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithLogger(cfg, slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// NewWithLogger is New with a caller-supplied logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	lc := lifecycle.New()
	m := metrics.New()

	var db database.System
	if cfg.Store.UsesDatabase() {
		var err error
		db, err = database.New(&cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
	}

	blobs, err := storage.New(context.Background(), &cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	remote, err := mirror.NewRemote(&cfg.Mirror, nil)
	if err != nil {
		return nil, fmt.Errorf("mirror init failed: %w", err)
	}
	syncer := mirror.New(remote, &cfg.Mirror, logger, m.ObserveSync)

	store := records.NewStore(newBackend(cfg, db), logger, syncer.Dispatch)

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Metrics:   m,
		Database:  db,
		Storage:   blobs,
		Store:     store,
		Mirror:    syncer,
		Assistant: assistant.New(&cfg.Assistant, nil, logger),
	}, nil
}

func newBackend(cfg *config.Config, db database.System) records.Backend {
	if db != nil {
		return records.NewPostgresBackend(db.Connection(), cfg.Store.Document)
	}
	return records.NewFileBackend(cfg.Store.Path)
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	i.Mirror.Start(i.Lifecycle)
	return nil
}
