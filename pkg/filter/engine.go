package filter

import (
	"fmt"
	"strings"

	"github.com/datagate-io/datagate/pkg/apperr"
	"github.com/datagate-io/datagate/pkg/qb"
)

// Apply translates a filter tree into query-builder calls on q and returns
// the composed builder. A nil node is the identity. AND groups are applied as
// a sequential conjunction in child order; OR groups collapse into a single
// textual disjunction handed to the builder in one call.
func Apply(q qb.Builder, node Node) (qb.Builder, error) {
	if node == nil {
		return q, nil
	}

	switch n := node.(type) {
	case *Condition:
		return applyCondition(q, n)
	case *Group:
		return applyGroup(q, n)
	default:
		return nil, apperr.New(apperr.InvalidFilterStructure, "filter", "unknown filter node type %T", node)
	}
}

func applyCondition(q qb.Builder, c *Condition) (qb.Builder, error) {
	value := Coerce(c.Value)

	switch normalizeOperator(c.Operator) {
	case "=":
		return q.Eq(c.Field, value), nil
	case "<>", "!=":
		return q.Neq(c.Field, value), nil
	case ">":
		return q.Gt(c.Field, value), nil
	case ">=":
		return q.Gte(c.Field, value), nil
	case "<":
		return q.Lt(c.Field, value), nil
	case "<=":
		return q.Lte(c.Field, value), nil
	case "LIKE":
		return q.Like(c.Field, value), nil
	case "ILIKE":
		return q.Ilike(c.Field, value), nil
	case "IN":
		values, ok := value.([]any)
		if !ok {
			values = []any{value}
		}
		return q.In(c.Field, values), nil
	case "IS", "IS NULL":
		if value != nil && normalizeOperator(c.Operator) == "IS" {
			return nil, apperr.New(apperr.UnsupportedOperatorValue, "filter",
				"operator IS only supports null values, got %v", value)
		}
		return q.Is(c.Field, nil), nil
	case "IS NOT", "IS NOT NULL":
		if value != nil && normalizeOperator(c.Operator) == "IS NOT" {
			return nil, apperr.New(apperr.UnsupportedOperatorValue, "filter",
				"operator IS NOT only supports null values, got %v", value)
		}
		return q.Not(c.Field, "is", nil), nil
	default:
		return nil, apperr.New(apperr.UnsupportedOperator, "filter", "unsupported operator %q", c.Operator)
	}
}

func applyGroup(q qb.Builder, g *Group) (qb.Builder, error) {
	logic := strings.ToUpper(g.Logic)
	if logic != LogicAnd && logic != LogicOr {
		return nil, apperr.New(apperr.UnsupportedLogic, "filter", "unsupported logic %q", g.Logic)
	}

	switch len(g.Filters) {
	case 0:
		return q, nil
	case 1:
		return Apply(q, g.Filters[0])
	}

	if logic == LogicAnd {
		var err error
		for _, child := range g.Filters {
			q, err = Apply(q, child)
			if err != nil {
				return nil, err
			}
		}
		return q, nil
	}

	encoded, err := encodeDisjunction(g.Filters)
	if err != nil {
		return nil, err
	}
	return q.Or(encoded), nil
}

// encodeDisjunction builds the textual OR expression. A nested group under an
// OR arm is flattened into its conditions, losing the inner AND/OR
// distinction; this mirrors the behavior callers depend on and is documented
// as a known limitation.
func encodeDisjunction(nodes []Node) (string, error) {
	parts := make([]string, 0, len(nodes))
	for _, node := range nodes {
		switch n := node.(type) {
		case *Condition:
			encoded, err := encodeCondition(n)
			if err != nil {
				return "", err
			}
			parts = append(parts, encoded)
		case *Group:
			nested, err := encodeDisjunction(n.Filters)
			if err != nil {
				return "", err
			}
			if nested != "" {
				parts = append(parts, nested)
			}
		default:
			return "", apperr.New(apperr.InvalidFilterStructure, "filter", "unknown filter node type %T", node)
		}
	}
	return strings.Join(parts, ","), nil
}

func encodeCondition(c *Condition) (string, error) {
	op := normalizeOperator(c.Operator)
	token, ok := operatorTokens[op]
	if !ok {
		return "", apperr.New(apperr.UnsupportedOperator, "filter", "unsupported operator %q", c.Operator)
	}

	value := Coerce(c.Value)
	if op == "IS NULL" || op == "IS NOT NULL" {
		value = nil
	}
	return c.Field + "." + token + "." + FormatValue(value), nil
}

// FormatValue renders a value the way the builder's textual disjunction
// syntax expects: null unquoted, strings double-quoted, booleans bare,
// arrays as parenthesized comma lists.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	case bool:
		if v {
			return "true"
		}
		return "false"
	case []any:
		parts := make([]string, 0, len(v))
		for _, elem := range v {
			parts = append(parts, FormatValue(elem))
		}
		return "(" + strings.Join(parts, ",") + ")"
	default:
		return fmt.Sprintf("%v", v)
	}
}
