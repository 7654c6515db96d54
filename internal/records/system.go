package records

import (
	"context"
	"io"

	"github.com/JaimeStill/gostcat/pkg/pagination"
)

// System defines the public contract for record domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(ctx context.Context, page pagination.PageRequest) pagination.PageResult[Entry]
	Find(ctx context.Context, key string) (*Entry, error)
	Create(ctx context.Context, cmd CreateCommand) (*Entry, error)
	Update(ctx context.Context, key string, cmd UpdateCommand) (*Entry, error)
	Delete(ctx context.Context, key string) error

	AttachImage(ctx context.Context, key string, cmd ImageCommand) (*Entry, error)
	OpenImage(ctx context.Context, blobKey string) (io.ReadCloser, string, error)

	// Snapshot returns the serialized current document.
	Snapshot(ctx context.Context) ([]byte, error)
	// Count returns the number of stored records.
	Count(ctx context.Context) int
}
