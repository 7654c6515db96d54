// Package storage provides blob storage for record image attachments with
// Azure Blob Storage and S3 implementations.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/JaimeStill/gostcat/pkg/lifecycle"
)

// System manages blob storage operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that initializes the container or bucket.
	Start(lc *lifecycle.Coordinator) error
	// Upload streams data to a blob at the given key with the specified content type.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Download returns a stream for the blob at the given key along with its
	// content type. The caller must close the reader.
	// Returns ErrNotFound if the blob does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
	// Delete removes the blob at the given key. Returns ErrNotFound if the blob does not exist.
	Delete(ctx context.Context, key string) error
	// Exists reports whether a blob exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
	// Provider names the configured backend.
	Provider() Provider
}

// New creates a storage system for the configured provider. An empty provider
// yields Unavailable. Clients are created without contacting the backend.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "storage")

	switch Provider(cfg.Provider) {
	case ProviderAzure:
		return newAzure(cfg, logger)
	case ProviderS3:
		return newS3(ctx, cfg, logger)
	case ProviderNone:
		return Unavailable{}, nil
	default:
		return nil, fmt.Errorf("unsupported storage provider %q", cfg.Provider)
	}
}

// Unavailable is the System used when no provider is configured.
type Unavailable struct{}

func (Unavailable) Start(*lifecycle.Coordinator) error { return nil }

func (Unavailable) Upload(context.Context, string, io.Reader, string) error {
	return ErrUnavailable
}

func (Unavailable) Download(context.Context, string) (io.ReadCloser, string, error) {
	return nil, "", ErrUnavailable
}

func (Unavailable) Delete(context.Context, string) error { return ErrUnavailable }

func (Unavailable) Exists(context.Context, string) (bool, error) { return false, ErrUnavailable }

func (Unavailable) Provider() Provider { return ProviderNone }

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	for segment := range strings.SplitSeq(key, "/") {
		if segment == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}
