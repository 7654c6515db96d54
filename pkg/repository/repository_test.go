package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/gostcat/pkg/repository"
)

var errNotFound = errors.New("not found")

func TestMapError(t *testing.T) {
	other := errors.New("some other error")
	fk := &pgconn.PgError{Code: "23503"}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, errNotFound},
		{"undefined table", &pgconn.PgError{Code: "42P01", Message: `relation "record_documents" does not exist`}, repository.ErrSchemaMissing},
		{"passthrough", other, other},
		{"other pg error", fk, fk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.err, errNotFound)
			if tt.want == nil {
				if got != nil {
					t.Errorf("MapError() = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("MapError() = %v, want %v", got, tt.want)
			}
		})
	}
}

type fakeResult struct{ rows int64 }

func (f fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (f fakeResult) RowsAffected() (int64, error) { return f.rows, nil }

type fakeExecutor struct {
	result sql.Result
	err    error
	query  string
}

func (f *fakeExecutor) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	f.query = query
	return f.result, f.err
}

func TestExecExpectOne(t *testing.T) {
	tests := []struct {
		name    string
		exec    *fakeExecutor
		wantErr error
	}{
		{"one row", &fakeExecutor{result: fakeResult{rows: 1}}, nil},
		{"no rows", &fakeExecutor{result: fakeResult{rows: 0}}, sql.ErrNoRows},
		{"exec error", &fakeExecutor{err: errNotFound}, errNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repository.ExecExpectOne(context.Background(), tt.exec, "DELETE FROM t")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ExecExpectOne() = %v, want %v", err, tt.wantErr)
			}
			if tt.exec.query != "DELETE FROM t" {
				t.Errorf("query = %q", tt.exec.query)
			}
		})
	}
}
