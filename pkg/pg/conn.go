// Package pg holds the PostgreSQL connection plumbing shared by the query
// builder and the view-definition store.
package pg

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Conn abstracts the subset of pgx connection behavior the query path needs,
// so both *pgx.Conn and *pgxpool.Pool satisfy it and tests can stub it.
type Conn interface {
	// Exec executes a statement and returns its command tag.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	// Query executes a query and returns iterable rows.
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	// QueryRow executes a query expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
