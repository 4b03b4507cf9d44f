// Package query holds the pagination and ordering options shared by plain
// selects, filtered selects and view execution.
package query

import "github.com/datagate-io/datagate/pkg/qb"

// Options carries the optional result-window and ordering parameters of a
// query. Page and PageSize only take effect together.
type Options struct {
	Page      int    `json:"page" mapstructure:"page"`
	PageSize  int    `json:"pageSize" mapstructure:"pageSize"`
	OrderBy   string `json:"orderBy" mapstructure:"orderBy"`
	Ascending *bool  `json:"ascending" mapstructure:"ascending"`
}

// Apply layers the row range and ordering onto a base query. The range is
// the inclusive window [(page-1)*pageSize, page*pageSize-1]; values are
// passed through without bounds validation. Ascending defaults to true.
func (o Options) Apply(q qb.Builder) qb.Builder {
	if o.Page != 0 && o.PageSize != 0 {
		from := (o.Page - 1) * o.PageSize
		to := o.Page*o.PageSize - 1
		q = q.Range(from, to)
	}
	if o.OrderBy != "" {
		q = q.Order(o.OrderBy, o.IsAscending())
	}
	return q
}

// IsAscending resolves the ordering direction, defaulting to ascending when
// unset.
func (o Options) IsAscending() bool {
	return o.Ascending == nil || *o.Ascending
}
