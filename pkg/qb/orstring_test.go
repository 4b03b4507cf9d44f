package qb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrEncoding(t *testing.T) {
	conds, err := parseOrEncoding(`role.eq."admin",age.gte.18`)
	require.NoError(t, err)
	require.Len(t, conds, 2)

	assert.Equal(t, condition{field: "role", operator: "eq", value: "admin"}, conds[0])
	assert.Equal(t, condition{field: "age", operator: "gte", value: int64(18)}, conds[1])
}

func TestParseOrEncodingEmpty(t *testing.T) {
	conds, err := parseOrEncoding("  ")
	require.NoError(t, err)
	assert.Nil(t, conds)
}

func TestParseOrEncodingNegation(t *testing.T) {
	conds, err := parseOrEncoding("deleted_at.not.is.null")
	require.NoError(t, err)
	require.Len(t, conds, 1)
	assert.Equal(t, condition{field: "deleted_at", operator: "is", value: nil, negated: true}, conds[0])
}

func TestParseOrEncodingQualifiedField(t *testing.T) {
	conds, err := parseOrEncoding(`users.role.eq."admin"`)
	require.NoError(t, err)
	require.Len(t, conds, 1)
	assert.Equal(t, "users.role", conds[0].field)
	assert.Equal(t, "eq", conds[0].operator)
	assert.Equal(t, "admin", conds[0].value)
}

func TestParseOrEncodingInList(t *testing.T) {
	conds, err := parseOrEncoding(`status.in.("open","blocked",5)`)
	require.NoError(t, err)
	require.Len(t, conds, 1)
	assert.Equal(t, "in", conds[0].operator)
	assert.Equal(t, []any{"open", "blocked", int64(5)}, conds[0].value)
}

func TestParseOrEncodingQuotedCommaSurvives(t *testing.T) {
	conds, err := parseOrEncoding(`title.eq."a,b",status.eq."open"`)
	require.NoError(t, err)
	require.Len(t, conds, 2)
	assert.Equal(t, "a,b", conds[0].value)
	assert.Equal(t, "open", conds[1].value)
}

func TestParseOrEncodingErrors(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{name: "no operator token", encoded: "justafield"},
		{name: "missing value", encoded: "status.eq"},
		{name: "negation missing value", encoded: "deleted_at.not.is"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseOrEncoding(tt.encoded)
			require.Error(t, err)
		})
	}
}

func TestDecodeOrValue(t *testing.T) {
	tests := []struct {
		want any
		name string
		raw  string
	}{
		{name: "null", raw: "null", want: nil},
		{name: "true", raw: "true", want: true},
		{name: "false", raw: "false", want: false},
		{name: "quoted string", raw: `"admin"`, want: "admin"},
		{name: "escaped quote", raw: `"say \"hi\""`, want: `say "hi"`},
		{name: "integer", raw: "42", want: int64(42)},
		{name: "float", raw: "4.5", want: 4.5},
		{name: "bare word falls through", raw: "admin", want: "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeOrValue(tt.raw))
		})
	}
}
