// Package view expands stored view definitions (a base table plus an ordered
// join chain and a filter allowlist) into query-builder calls.
package view

import "strings"

// TableField names one side of a join.
type TableField struct {
	Table string `json:"table"`
	Field string `json:"field"`
}

// JoinSpec is one entry of a view's join chain. Joins are applied strictly
// in array order; the engine never reorders them.
type JoinSpec struct {
	From     TableField `json:"from"`
	JoinType string     `json:"joinType"`
	To       TableField `json:"to"`
}

// Definition is a persisted view: a named join chain over a base table with
// an allowlist of filterable "table.column" keys. The first join entry's
// From.Table is the query's base table.
type Definition struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	IsPublic       bool       `json:"is_public"`
	JoinDefinition []JoinSpec `json:"join_definition"`
	AllowedFilters []string   `json:"allowed_filters"`
}

// ResolveFilter matches a caller-supplied filter key against the allowlist
// and returns the qualified "table.column" form to filter on. A bare column
// name matches an allowlist entry whose column part equals it.
func (d *Definition) ResolveFilter(key string) (string, bool) {
	for _, allowed := range d.AllowedFilters {
		if allowed == key || strings.HasSuffix(allowed, "."+key) {
			return allowed, true
		}
	}
	return "", false
}

// BaseTable returns the base table of the view's query, or "" when the join
// chain is empty.
func (d *Definition) BaseTable() string {
	if len(d.JoinDefinition) == 0 {
		return ""
	}
	return d.JoinDefinition[0].From.Table
}
