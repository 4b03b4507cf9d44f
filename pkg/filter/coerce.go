package filter

import "strings"

// Coerce normalizes a raw scalar as received from a query string or JSON
// body: the strings "true" and "false" (case-insensitive) become booleans,
// everything else passes through unchanged. It is deliberately not applied
// inside arrays handed to IN.
func Coerce(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return value
}
