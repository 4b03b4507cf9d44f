package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datagate-io/datagate/internal/testutil"
	"github.com/datagate-io/datagate/pkg/query"
)

func TestOptionsApply(t *testing.T) {
	desc := false

	tests := []struct {
		name string
		opts query.Options
		want []string
	}{
		{
			name: "empty options are identity",
			opts: query.Options{},
			want: []string{},
		},
		{
			name: "page and size become an inclusive range",
			opts: query.Options{Page: 2, PageSize: 10},
			want: []string{"Range(10, 19)"},
		},
		{
			name: "first page starts at zero",
			opts: query.Options{Page: 1, PageSize: 25},
			want: []string{"Range(0, 24)"},
		},
		{
			name: "page without size is ignored",
			opts: query.Options{Page: 3},
			want: []string{},
		},
		{
			name: "size without page is ignored",
			opts: query.Options{PageSize: 10},
			want: []string{},
		},
		{
			name: "negative values pass through unvalidated",
			opts: query.Options{Page: -1, PageSize: 10},
			want: []string{"Range(-20, -11)"},
		},
		{
			name: "order defaults to ascending",
			opts: query.Options{OrderBy: "created_at"},
			want: []string{"Order(created_at, true)"},
		},
		{
			name: "explicit descending order",
			opts: query.Options{OrderBy: "created_at", Ascending: &desc},
			want: []string{"Order(created_at, false)"},
		},
		{
			name: "range precedes order",
			opts: query.Options{Page: 2, PageSize: 5, OrderBy: "id"},
			want: []string{"Range(5, 9)", "Order(id, true)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testutil.NewRecorder()
			tt.opts.Apply(r)
			assert.Equal(t, tt.want, r.Calls())
		})
	}
}

func TestIsAscending(t *testing.T) {
	asc, desc := true, false

	assert.True(t, query.Options{}.IsAscending())
	assert.True(t, query.Options{Ascending: &asc}.IsAscending())
	assert.False(t, query.Options{Ascending: &desc}.IsAscending())
}
