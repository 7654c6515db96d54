package records

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// CommitHook receives the serialized document after a save is durable.
type CommitHook func(content []byte)

// Store reads and mutates the document through a Backend.
//
// Every read goes to the backend; nothing is cached between calls.
// Mutations run load, modify, save under one writer lock. Commit hooks run
// after the lock is released so a slow hook never delays the next write.
type Store struct {
	backend Backend
	logger  *slog.Logger
	hooks   []CommitHook

	mu sync.Mutex
}

// NewStore creates a store over backend.
func NewStore(backend Backend, logger *slog.Logger, hooks ...CommitHook) *Store {
	return &Store{
		backend: backend,
		logger:  logger.With("system", "store", "backend", backend.Describe()),
		hooks:   hooks,
	}
}

// OnCommit registers an additional commit hook. Call before serving.
func (s *Store) OnCommit(hook CommitHook) {
	s.hooks = append(s.hooks, hook)
}

// Describe names the backend.
func (s *Store) Describe() string {
	return s.backend.Describe()
}

// Load returns the current document for readers. It never fails: a missing
// or corrupt document is empty, and so is one the backend cannot read, with
// a logged warning.
func (s *Store) Load(ctx context.Context) *Document {
	doc, err := s.Read(ctx)
	if err != nil {
		s.logger.Warn("document unreadable, using empty catalog", "error", err)
		return NewDocument()
	}
	return doc
}

// Read returns the current document, failing with ErrStorage when the
// backend cannot be read. A missing or corrupt document is still empty.
// Writers and snapshot publication use Read so a failed read is never
// saved or mirrored as an empty catalog.
func (s *Store) Read(ctx context.Context) (*Document, error) {
	data, err := s.backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return NewDocument(), nil
	}

	doc, err := ParseDocument(data)
	if err != nil {
		s.logger.Warn("document corrupt, using empty catalog", "error", err)
		return NewDocument(), nil
	}
	return doc, nil
}

// Save replaces the stored document and runs the commit hooks.
func (s *Store) Save(ctx context.Context, doc *Document) error {
	s.mu.Lock()
	content, err := s.write(ctx, doc)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.commit(content)
	return nil
}

// Upsert stores fields under key in the current shape, overwriting any
// existing record. Key and fields are trimmed; an empty key is rejected.
func (s *Store) Upsert(ctx context.Context, key string, fields Fields) (Record, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Record{}, ErrInvalidKey
	}
	f := fields.normalize()
	rec := Record{Text: f.Text, Mark: f.Mark}

	err := s.mutate(ctx, func(doc *Document) (bool, error) {
		doc.Set(key, rec)
		return true, nil
	})
	if err != nil {
		return Record{}, err
	}

	s.logger.Info("record upserted", "key", key)
	return rec, nil
}

// Update replaces the structured fields of an existing record, keeping its
// image reference. A legacy entry is rewritten in the current shape.
func (s *Store) Update(ctx context.Context, key string, fields Fields) (Record, error) {
	f := fields.normalize()
	var rec Record

	err := s.mutate(ctx, func(doc *Document) (bool, error) {
		prev, ok := doc.Get(key)
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		rec = Record{Text: f.Text, Mark: f.Mark, Image: prev.Image}
		doc.Set(key, rec)
		return true, nil
	})
	if err != nil {
		return Record{}, err
	}

	s.logger.Info("record updated", "key", key)
	return rec, nil
}

// Remove deletes key. Removing an absent key writes nothing and reports false.
func (s *Store) Remove(ctx context.Context, key string) (bool, error) {
	var removed bool

	err := s.mutate(ctx, func(doc *Document) (bool, error) {
		removed = doc.Delete(key)
		return removed, nil
	})
	if err != nil {
		return false, err
	}

	if removed {
		s.logger.Info("record removed", "key", key)
	}
	return removed, nil
}

// AttachImage sets the image reference of an existing record and returns the
// updated record with the reference it replaced.
func (s *Store) AttachImage(ctx context.Context, key, ref string) (Record, string, error) {
	var rec Record
	var prev string

	err := s.mutate(ctx, func(doc *Document) (bool, error) {
		current, ok := doc.Get(key)
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		prev = current.Image
		rec = current
		rec.Image = ref
		doc.Set(key, rec)
		return true, nil
	})
	if err != nil {
		return Record{}, "", err
	}

	s.logger.Info("record image attached", "key", key, "image", ref)
	return rec, prev, nil
}

// mutate applies fn to a freshly loaded document under the writer lock and
// saves it when fn reports a change.
func (s *Store) mutate(ctx context.Context, fn func(*Document) (bool, error)) error {
	s.mu.Lock()

	doc, err := s.Read(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	changed, err := fn(doc)
	if err != nil || !changed {
		s.mu.Unlock()
		return err
	}

	content, err := s.write(ctx, doc)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.commit(content)
	return nil
}

func (s *Store) write(ctx context.Context, doc *Document) ([]byte, error) {
	content, err := doc.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if err := s.backend.Save(ctx, content); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return content, nil
}

func (s *Store) commit(content []byte) {
	for _, hook := range s.hooks {
		hook(content)
	}
}
