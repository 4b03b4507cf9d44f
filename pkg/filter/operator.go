package filter

import "strings"

// operatorTokens maps the closed comparison-operator set to the query-builder
// primitive token used both for direct dispatch and for the OR-group string
// encoding.
var operatorTokens = map[string]string{
	"=":           "eq",
	"<>":          "neq",
	"!=":          "neq",
	">":           "gt",
	">=":          "gte",
	"<":           "lt",
	"<=":          "lte",
	"LIKE":        "like",
	"ILIKE":       "ilike",
	"IN":          "in",
	"IS":          "is",
	"IS NOT":      "not.is",
	"IS NULL":     "is",
	"IS NOT NULL": "not.is",
}

// MapOperator translates a textual operator to its primitive token,
// case-insensitively. Unrecognized operators come back unchanged; only the
// direct-dispatch path in Apply rejects them.
func MapOperator(op string) string {
	token, ok := operatorTokens[normalizeOperator(op)]
	if !ok {
		return op
	}
	return token
}

func normalizeOperator(op string) string {
	return strings.ToUpper(strings.Join(strings.Fields(op), " "))
}
