package rest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/datagate-io/datagate/pkg/query"
)

// reservedParams are query-string keys interpreted as options rather than
// equality filters.
var reservedParams = map[string]bool{
	"select":    true,
	"page":      true,
	"pageSize":  true,
	"orderBy":   true,
	"ascending": true,
}

// parseQueryOptions extracts pagination and ordering from the query string.
// Values are decoded but not bounds-checked; out-of-range values propagate
// to the data service.
func parseQueryOptions(r *http.Request) (query.Options, error) {
	values := r.URL.Query()
	opts := query.Options{}

	var err error
	if opts.Page, err = parseIntParam(values.Get("page")); err != nil {
		return opts, fmt.Errorf("invalid page: %w", err)
	}
	if opts.PageSize, err = parseIntParam(values.Get("pageSize")); err != nil {
		return opts, fmt.Errorf("invalid pageSize: %w", err)
	}

	opts.OrderBy = values.Get("orderBy")

	if asc := values.Get("ascending"); asc != "" {
		ascending := !strings.EqualFold(asc, "false")
		opts.Ascending = &ascending
	}

	return opts, nil
}

// parseEqualityFilters collects every non-reserved query parameter as an
// equality filter.
func parseEqualityFilters(r *http.Request) map[string]any {
	filters := make(map[string]any)
	for key, values := range r.URL.Query() {
		if reservedParams[key] {
			continue
		}
		if len(values) > 0 {
			filters[key] = values[0]
		}
	}
	return filters
}

func parseSelectParam(r *http.Request) string {
	if sel := r.URL.Query().Get("select"); sel != "" {
		return sel
	}
	return "*"
}

func parseIntParam(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	var result int
	if _, err := fmt.Sscanf(value, "%d", &result); err != nil {
		return 0, err
	}
	return result, nil
}
