// Package mirror replicates the local catalog document to a versioned remote
// object using a read-version-then-conditional-write handshake.
package mirror

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Remote is a versioned object the catalog document is mirrored to.
type Remote interface {
	// Version returns the current version token of the remote object,
	// or "" when the object does not exist yet.
	Version(ctx context.Context) (string, error)
	// Put writes content conditioned on version and returns the new token.
	// An empty version creates the object. A stale version returns ErrConflict.
	Put(ctx context.Context, content []byte, message, version string) (string, error)
	// Target describes the remote object for logs and status reports.
	Target() string
}

// Disabled is the Remote used when the mirror is not configured.
// Every call fails with ErrNotConfigured carrying Reason.
type Disabled struct {
	Reason string
}

func (d Disabled) Version(context.Context) (string, error) {
	return "", d.err()
}

func (d Disabled) Put(context.Context, []byte, string, string) (string, error) {
	return "", d.err()
}

func (d Disabled) Target() string {
	return "disabled"
}

func (d Disabled) err() error {
	return fmt.Errorf("%w: %s", ErrNotConfigured, d.Reason)
}

// NewRemote returns a GitHub remote for cfg, or a Disabled remote naming the
// missing settings when cfg is incomplete.
func NewRemote(cfg *Config, client *http.Client) (Remote, error) {
	if missing := cfg.Missing(); len(missing) > 0 {
		return Disabled{Reason: "missing " + strings.Join(missing, ", ")}, nil
	}
	return NewGitHub(cfg, client)
}
