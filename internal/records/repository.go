package records

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/JaimeStill/gostcat/internal/metrics"
	"github.com/JaimeStill/gostcat/pkg/pagination"
	"github.com/JaimeStill/gostcat/pkg/storage"
	"github.com/JaimeStill/gostcat/pkg/textmatch"
)

// AllowedImageExtensions lists the accepted image file extensions.
var AllowedImageExtensions = []string{".png", ".jpg", ".jpeg", ".webp"}

type repo struct {
	store      *Store
	blobs      storage.System
	validate   *validator.Validate
	logger     *slog.Logger
	metrics    *metrics.Metrics
	pagination pagination.Config
	imageBase  string
}

// New creates a record system over store. Image references are written as
// imageBase + "/" + blob key; imageBase is normally the API base path plus
// "/images".
func New(
	store *Store,
	blobs storage.System,
	logger *slog.Logger,
	m *metrics.Metrics,
	pagination pagination.Config,
	imageBase string,
) System {
	return &repo{
		store:      store,
		blobs:      blobs,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger.With("system", "records"),
		metrics:    m,
		pagination: pagination,
		imageBase:  strings.TrimSuffix(imageBase, "/"),
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest) pagination.PageResult[Entry] {
	page.Normalize(r.pagination)

	entries := r.store.Load(ctx).Entries()

	if page.Search != nil {
		q := textmatch.Normalize(*page.Search)
		filtered := entries[:0]
		for _, e := range entries {
			if textmatch.Contains(q, e.Key, e.Mark, e.Text) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	return pagination.Paginate(entries, page)
}

func (r *repo) Find(ctx context.Context, key string) (*Entry, error) {
	e, ok := r.store.Load(ctx).Entry(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return &e, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Entry, error) {
	cmd.Key = strings.TrimSpace(cmd.Key)
	cmd.Mark = strings.TrimSpace(cmd.Mark)
	if cmd.Key == "" {
		return nil, ErrInvalidKey
	}
	if err := r.check(cmd); err != nil {
		return nil, err
	}

	prev, had := r.store.Load(ctx).Get(cmd.Key)

	rec, err := r.store.Upsert(ctx, cmd.Key, Fields{Mark: cmd.Mark, Text: cmd.Text})
	if err != nil {
		return nil, err
	}

	r.metrics.ObserveMutation("upsert")
	if had && prev.Image != "" && prev.Image != rec.Image {
		r.removeBlob(ctx, prev.Image)
	}
	return &Entry{Key: cmd.Key, Record: rec}, nil
}

func (r *repo) Update(ctx context.Context, key string, cmd UpdateCommand) (*Entry, error) {
	cmd.Mark = strings.TrimSpace(cmd.Mark)
	if err := r.check(cmd); err != nil {
		return nil, err
	}

	rec, err := r.store.Update(ctx, key, Fields{Mark: cmd.Mark, Text: cmd.Text})
	if err != nil {
		return nil, err
	}

	r.metrics.ObserveMutation("update")
	return &Entry{Key: key, Record: rec}, nil
}

// Delete is idempotent; removing an absent key is not an error. An attached
// image blob is removed best-effort.
func (r *repo) Delete(ctx context.Context, key string) error {
	prev, had := r.store.Load(ctx).Get(key)

	removed, err := r.store.Remove(ctx, key)
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}

	r.metrics.ObserveMutation("remove")
	if had && prev.Image != "" {
		r.removeBlob(ctx, prev.Image)
	}
	return nil
}

func (r *repo) AttachImage(ctx context.Context, key string, cmd ImageCommand) (*Entry, error) {
	ext := strings.ToLower(filepath.Ext(cmd.Filename))
	if !allowedExtension(ext) {
		return nil, fmt.Errorf("%w: extension %q not allowed", ErrInvalidImage, ext)
	}

	if _, ok := r.store.Load(ctx).Get(key); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	blobKey := buildBlobKey(key, ext)
	if err := r.blobs.Upload(ctx, blobKey, cmd.Data, cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	rec, prev, err := r.store.AttachImage(ctx, key, r.imageRef(blobKey))
	if err != nil {
		if delErr := r.blobs.Delete(ctx, blobKey); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", blobKey, "error", delErr)
		}
		return nil, err
	}

	r.metrics.ObserveMutation("attach_image")
	if prev != "" {
		r.removeBlob(ctx, prev)
	}
	return &Entry{Key: key, Record: rec}, nil
}

func (r *repo) OpenImage(ctx context.Context, blobKey string) (io.ReadCloser, string, error) {
	return r.blobs.Download(ctx, blobKey)
}

func (r *repo) Snapshot(ctx context.Context) ([]byte, error) {
	doc, err := r.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Encode()
}

func (r *repo) Count(ctx context.Context) int {
	return r.store.Load(ctx).Len()
}

func (r *repo) check(cmd any) error {
	if err := r.validate.Struct(cmd); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", ErrInvalidRecord, describe(verrs))
		}
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}

func describe(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s exceeds %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// removeBlob deletes the blob behind an image reference this system wrote.
// References it does not recognize are left alone.
func (r *repo) removeBlob(ctx context.Context, ref string) {
	blobKey, ok := r.blobKey(ref)
	if !ok {
		return
	}
	if err := r.blobs.Delete(ctx, blobKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		r.logger.Warn("previous image delete failed", "key", blobKey, "error", err)
	}
}

// imageRef escapes each blob key segment so the reference survives a
// round trip through the request path.
func (r *repo) imageRef(blobKey string) string {
	segments := strings.Split(blobKey, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return r.imageBase + "/" + strings.Join(segments, "/")
}

func (r *repo) blobKey(ref string) (string, bool) {
	rest, ok := strings.CutPrefix(ref, r.imageBase+"/")
	if !ok {
		return "", false
	}
	key, err := url.PathUnescape(rest)
	if err != nil {
		return "", false
	}
	return key, true
}

func buildBlobKey(recordKey, ext string) string {
	return url.PathEscape(recordKey) + "/" + uuid.NewString() + ext
}

func allowedExtension(ext string) bool {
	return slices.Contains(AllowedImageExtensions, ext)
}
