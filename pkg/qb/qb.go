// Package qb provides the fluent query-builder capability the core composes
// against. A Builder accumulates composition steps (conditions, joins, a row
// range, ordering) and executes exactly once against PostgreSQL. The filter
// and view engines only ever see the Builder interface, so tests substitute
// a recorder implementation.
package qb

import "context"

// Result is the uniform shape returned by every executed query.
// Count is nil when the execution does not produce a meaningful count.
type Result struct {
	Data  []map[string]any `json:"data"`
	Count *int64           `json:"count"`
}

// Builder incrementally composes a single query against one table.
// Composition methods return the Builder for chaining; invalid input
// surfaces on Execute, not mid-chain.
type Builder interface {
	// Select sets the projected columns ("*" by default).
	Select(columns string) Builder

	Eq(field string, value any) Builder
	Neq(field string, value any) Builder
	Gt(field string, value any) Builder
	Gte(field string, value any) Builder
	Lt(field string, value any) Builder
	Lte(field string, value any) Builder
	Like(field string, pattern any) Builder
	Ilike(field string, pattern any) Builder
	In(field string, values []any) Builder
	// Is encodes null-ness (IS NULL). Not negates an operator; the engines
	// only use it as Not(field, "is", nil) for IS NOT NULL.
	Is(field string, value any) Builder
	Not(field, operator string, value any) Builder
	// Or applies a disjunction encoded as "field.op.value,field.op.value,...".
	Or(encoded string) Builder

	// LeftJoin and InnerJoin attach a join and widen the projection with the
	// joined table's columns.
	LeftJoin(table, fromField, toField string) Builder
	InnerJoin(table, fromField, toField string) Builder

	// Range restricts rows to the inclusive window [from, to].
	Range(from, to int) Builder
	Order(column string, ascending bool) Builder

	Insert(data map[string]any) Builder
	Update(data map[string]any) Builder
	Delete() Builder

	// Execute performs the single round trip to the data service.
	Execute(ctx context.Context) (Result, error)
}

// Client hands out builders rooted at a table.
type Client interface {
	From(table string) Builder
}
