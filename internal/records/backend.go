package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JaimeStill/gostcat/pkg/repository"
)

// Backend persists the serialized document as a whole.
type Backend interface {
	// Load returns the stored bytes, or nil with no error when nothing has
	// been stored yet.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the stored bytes.
	Save(ctx context.Context, data []byte) error
	// Describe names the backend for logs and status reports.
	Describe() string
}

// FileBackend stores the document in a local UTF-8 JSON file.
type FileBackend struct {
	path string
}

// NewFileBackend creates a backend for the file at path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (f *FileBackend) Describe() string {
	return "file:" + f.path
}

func (f *FileBackend) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return data, nil
}

// Save writes to a temporary file in the same directory and renames it over
// the document, so readers never observe a partial write.
func (f *FileBackend) Save(ctx context.Context, data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

var errNoDocument = errors.New("no stored document")

// PostgresBackend stores the document verbatim in one row of
// record_documents, keyed by name.
type PostgresBackend struct {
	db   *sql.DB
	name string
}

// NewPostgresBackend creates a backend for the named document row.
func NewPostgresBackend(db *sql.DB, name string) *PostgresBackend {
	return &PostgresBackend{db: db, name: name}
}

func (p *PostgresBackend) Describe() string {
	return "postgres:" + p.name
}

func (p *PostgresBackend) Load(ctx context.Context) ([]byte, error) {
	const q = `SELECT content FROM record_documents WHERE name = $1`

	content, err := repository.QueryOne(ctx, p.db, q, []any{p.name}, scanContent)
	if err != nil {
		err = repository.MapError(err, errNoDocument)
		if errors.Is(err, errNoDocument) {
			return nil, nil
		}
		return nil, fmt.Errorf("load document %s: %w", p.name, err)
	}
	return []byte(content), nil
}

func (p *PostgresBackend) Save(ctx context.Context, data []byte) error {
	const q = `
		INSERT INTO record_documents (name, content, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at`

	if err := repository.ExecExpectOne(ctx, p.db, q, p.name, string(data)); err != nil {
		return fmt.Errorf("save document %s: %w", p.name, repository.MapError(err, errNoDocument))
	}
	return nil
}

func scanContent(s repository.Scanner) (string, error) {
	var content string
	err := s.Scan(&content)
	return content, err
}
