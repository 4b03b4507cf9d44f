package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datagate-io/datagate/pkg/apperr"
	"github.com/datagate-io/datagate/pkg/filter"
)

func TestParseJSONCondition(t *testing.T) {
	node, err := filter.ParseJSON([]byte(`{"field":"status","operator":"=","value":"active"}`))
	require.NoError(t, err)

	cond, ok := node.(*filter.Condition)
	require.True(t, ok, "expected a condition, got %T", node)
	assert.Equal(t, "status", cond.Field)
	assert.Equal(t, "=", cond.Operator)
	assert.Equal(t, "active", cond.Value)
}

func TestParseJSONGroup(t *testing.T) {
	doc := []byte(`{
		"logic": "and",
		"filters": [
			{"field": "status", "operator": "=", "value": "active"},
			{"logic": "or", "filters": [
				{"field": "role", "operator": "=", "value": "admin"},
				{"field": "role", "operator": "=", "value": "moderator"}
			]}
		]
	}`)

	node, err := filter.ParseJSON(doc)
	require.NoError(t, err)

	group, ok := node.(*filter.Group)
	require.True(t, ok, "expected a group, got %T", node)
	assert.Equal(t, "and", group.Logic)
	require.Len(t, group.Filters, 2)

	_, ok = group.Filters[0].(*filter.Condition)
	assert.True(t, ok, "first child should be a condition")

	inner, ok := group.Filters[1].(*filter.Group)
	require.True(t, ok, "second child should be a group")
	assert.Equal(t, "or", inner.Logic)
	assert.Len(t, inner.Filters, 2)
}

func TestParseJSONEmpty(t *testing.T) {
	node, err := filter.ParseJSON(nil)
	require.NoError(t, err)
	assert.Nil(t, node)
}

func TestParseJSONMalformed(t *testing.T) {
	_, err := filter.ParseJSON([]byte(`{"field": "status",`))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.InvalidFilterJSON))
}

func TestParseJSONConditionWithoutValue(t *testing.T) {
	// IS NULL conditions carry no value key.
	node, err := filter.ParseJSON([]byte(`{"field":"deleted_at","operator":"IS NULL"}`))
	require.NoError(t, err)

	cond, ok := node.(*filter.Condition)
	require.True(t, ok)
	assert.Nil(t, cond.Value)
}

func TestFromMapErrors(t *testing.T) {
	tests := []struct {
		raw  map[string]any
		name string
		kind apperr.Kind
	}{
		{
			name: "neither condition nor group",
			raw:  map[string]any{"foo": "bar"},
			kind: apperr.InvalidFilterStructure,
		},
		{
			name: "field not a string",
			raw:  map[string]any{"field": 5, "operator": "="},
			kind: apperr.InvalidFilterStructure,
		},
		{
			name: "operator not a string",
			raw:  map[string]any{"field": "status", "operator": 5},
			kind: apperr.InvalidFilterStructure,
		},
		{
			name: "logic not a string",
			raw:  map[string]any{"logic": 1, "filters": []any{}},
			kind: apperr.InvalidFilterStructure,
		},
		{
			name: "filters not an array",
			raw:  map[string]any{"logic": "and", "filters": "nope"},
			kind: apperr.InvalidFilterStructure,
		},
		{
			name: "filter entry not an object",
			raw:  map[string]any{"logic": "and", "filters": []any{"nope"}},
			kind: apperr.InvalidFilterStructure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := filter.FromMap(tt.raw)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, tt.kind))
		})
	}
}

func TestFromMapNil(t *testing.T) {
	node, err := filter.FromMap(nil)
	require.NoError(t, err)
	assert.Nil(t, node)
}
