// Package repo exposes the table-level operations request handlers call:
// select, filtered select, insert, update and delete over a single table.
// It composes value coercion, the filter engine and query options, executes
// exactly once, and classifies any service failure.
package repo

import (
	"context"

	"go.uber.org/zap"

	"github.com/datagate-io/datagate/pkg/apperr"
	"github.com/datagate-io/datagate/pkg/filter"
	"github.com/datagate-io/datagate/pkg/qb"
	"github.com/datagate-io/datagate/pkg/query"
)

// Repository is the primary entry point used by request collaborators.
type Repository struct {
	client qb.Client
	logger *zap.Logger
}

func New(client qb.Client, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{client: client, logger: logger}
}

// Select fetches rows matching a flat equality-filter map. Nil filter values
// are skipped; string booleans are coerced before reaching the builder.
func (r *Repository) Select(ctx context.Context, table, columns string, filters map[string]any, opts query.Options) (qb.Result, error) {
	q := r.client.From(table).Select(columns)
	q = applyEqualityFilters(q, filters)
	q = opts.Apply(q)
	return r.execute(ctx, q, table)
}

// SelectWithFilter fetches rows matching a filter tree instead of a flat
// equality map.
func (r *Repository) SelectWithFilter(ctx context.Context, table, columns string, node filter.Node, opts query.Options) (qb.Result, error) {
	q := r.client.From(table).Select(columns)

	q, err := filter.Apply(q, node)
	if err != nil {
		return qb.Result{}, err
	}

	q = opts.Apply(q)
	return r.execute(ctx, q, table)
}

// Insert writes a single record and returns the inserted rows.
func (r *Repository) Insert(ctx context.Context, table string, data map[string]any) (qb.Result, error) {
	q := r.client.From(table).Insert(data)
	return r.execute(ctx, q, table)
}

// Update modifies rows matching the equality filters and returns the
// affected rows.
func (r *Repository) Update(ctx context.Context, table string, data map[string]any, filters map[string]any) (qb.Result, error) {
	q := r.client.From(table).Update(data)
	q = applyEqualityFilters(q, filters)
	return r.execute(ctx, q, table)
}

// Delete removes rows matching the equality filters and returns the deleted
// rows.
func (r *Repository) Delete(ctx context.Context, table string, filters map[string]any) (qb.Result, error) {
	q := r.client.From(table).Delete()
	q = applyEqualityFilters(q, filters)
	return r.execute(ctx, q, table)
}

func (r *Repository) execute(ctx context.Context, q qb.Builder, table string) (qb.Result, error) {
	result, err := q.Execute(ctx)
	if err != nil {
		r.logger.Error("query execution failed", zap.String("table", table), zap.Error(err))
		return qb.Result{}, apperr.Wrap(apperr.QueryExecutionFailed, "repository", err)
	}
	return result, nil
}

func applyEqualityFilters(q qb.Builder, filters map[string]any) qb.Builder {
	for _, key := range sortedFilterKeys(filters) {
		value := filters[key]
		if value == nil {
			continue
		}
		q = q.Eq(key, filter.Coerce(value))
	}
	return q
}
