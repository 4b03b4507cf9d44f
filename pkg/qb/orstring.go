package qb

import (
	"fmt"
	"strconv"
	"strings"
)

// orTokens are the operator tokens valid inside an encoded disjunction.
var orTokens = map[string]bool{
	"eq":    true,
	"neq":   true,
	"gt":    true,
	"gte":   true,
	"lt":    true,
	"lte":   true,
	"like":  true,
	"ilike": true,
	"in":    true,
	"is":    true,
}

// parseOrEncoding decodes a disjunction of the form
// "field.op.value,field.op.value,..." into conditions. Values follow the
// engine's textual encoding: double-quoted strings, bare numbers, true/false,
// null, and parenthesized lists for in.
func parseOrEncoding(encoded string) ([]condition, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, nil
	}

	parts := splitTopLevel(encoded)
	conds := make([]condition, 0, len(parts))
	for _, part := range parts {
		c, err := parseOrCondition(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
	return conds, nil
}

func parseOrCondition(part string) (condition, error) {
	segments := strings.Split(part, ".")
	for i := 1; i < len(segments); i++ {
		if segments[i] == "not" && i+1 < len(segments) && segments[i+1] == "is" {
			if i+2 >= len(segments) {
				return condition{}, fmt.Errorf("or encoding %q: missing value", part)
			}
			return condition{
				field:    strings.Join(segments[:i], "."),
				operator: "is",
				value:    decodeOrValue(strings.Join(segments[i+2:], ".")),
				negated:  true,
			}, nil
		}
		if orTokens[segments[i]] {
			if i+1 >= len(segments) {
				return condition{}, fmt.Errorf("or encoding %q: missing value", part)
			}
			return condition{
				field:    strings.Join(segments[:i], "."),
				operator: segments[i],
				value:    decodeOrValue(strings.Join(segments[i+1:], ".")),
			}, nil
		}
	}
	return condition{}, fmt.Errorf("or encoding %q: no operator token", part)
}

func decodeOrValue(raw string) any {
	switch {
	case raw == "null":
		return nil
	case raw == "true":
		return true
	case raw == "false":
		return false
	case len(raw) >= 2 && strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`):
		return strings.ReplaceAll(raw[1:len(raw)-1], `\"`, `"`)
	case len(raw) >= 2 && strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")"):
		elems := splitTopLevel(raw[1 : len(raw)-1])
		values := make([]any, 0, len(elems))
		for _, e := range elems {
			values = append(values, decodeOrValue(strings.TrimSpace(e)))
		}
		return values
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

// splitTopLevel splits on commas that are outside double quotes and
// parentheses, so quoted strings and in-lists survive intact.
func splitTopLevel(s string) []string {
	var parts []string
	var current strings.Builder
	depth := 0
	inQuotes := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '"' && (i == 0 || s[i-1] != '\\'):
			inQuotes = !inQuotes
			current.WriteByte(ch)
		case ch == '(' && !inQuotes:
			depth++
			current.WriteByte(ch)
		case ch == ')' && !inQuotes:
			depth--
			current.WriteByte(ch)
		case ch == ',' && !inQuotes && depth == 0:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
