package mirror

import "errors"

var (
	// ErrConflict indicates the remote rejected a write because the version
	// token was stale.
	ErrConflict = errors.New("remote version conflict")
	// ErrNotConfigured indicates the mirror is missing the configuration it
	// needs to reach the remote.
	ErrNotConfigured = errors.New("mirror not configured")
)
