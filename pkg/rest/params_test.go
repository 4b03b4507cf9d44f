package rest

import (
	"net/http/httptest"
	"testing"
)

func TestParseEqualityFilters(t *testing.T) {
	r := httptest.NewRequest("GET", "/tasks?status=active&page=2&pageSize=10&select=id&orderBy=id&ascending=false&priority=3", nil)

	filters := parseEqualityFilters(r)

	want := map[string]any{"status": "active", "priority": "3"}
	if len(filters) != len(want) {
		t.Fatalf("filters = %v, want %v", filters, want)
	}
	for k, v := range want {
		if filters[k] != v {
			t.Errorf("filters[%q] = %v, want %v", k, filters[k], v)
		}
	}
}

func TestParseSelectParam(t *testing.T) {
	r := httptest.NewRequest("GET", "/tasks", nil)
	if got := parseSelectParam(r); got != "*" {
		t.Errorf("parseSelectParam() = %q, want *", got)
	}

	r = httptest.NewRequest("GET", "/tasks?select=id,title", nil)
	if got := parseSelectParam(r); got != "id,title" {
		t.Errorf("parseSelectParam() = %q, want id,title", got)
	}
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{value: "", want: 0},
		{value: "42", want: 42},
		{value: "-5", want: -5},
		{value: "abc", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseIntParam(tt.value)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseIntParam(%q) expected error", tt.value)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseIntParam(%q) unexpected error: %v", tt.value, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseIntParam(%q) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestParseQueryOptions(t *testing.T) {
	r := httptest.NewRequest("GET", "/tasks?page=3&pageSize=20&orderBy=created_at&ascending=FALSE", nil)

	opts, err := parseQueryOptions(r)
	if err != nil {
		t.Fatalf("parseQueryOptions() failed: %v", err)
	}
	if opts.Page != 3 || opts.PageSize != 20 {
		t.Errorf("pagination = (%d, %d), want (3, 20)", opts.Page, opts.PageSize)
	}
	if opts.OrderBy != "created_at" {
		t.Errorf("OrderBy = %q, want created_at", opts.OrderBy)
	}
	if opts.IsAscending() {
		t.Error("ascending=FALSE should resolve to descending")
	}
}
