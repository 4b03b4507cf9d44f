// Package apperr defines the classified errors shared by the filter engine,
// the view engine and the repository facade. Every failure in the query path
// is one of a closed set of kinds, each carrying an HTTP-equivalent status
// that the HTTP layer maps onto a response.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies a class of query-path failure.
type Kind string

const (
	InvalidFilterStructure   Kind = "invalid_filter_structure"
	UnsupportedLogic         Kind = "unsupported_logic"
	UnsupportedOperator      Kind = "unsupported_operator"
	UnsupportedOperatorValue Kind = "unsupported_operator_value"
	InvalidFilterJSON        Kind = "invalid_filter_json"
	ViewNotFound             Kind = "view_not_found"
	UnsupportedJoinType      Kind = "unsupported_join_type"
	QueryExecutionFailed     Kind = "query_execution_failed"
)

// Error is a classified query-path error. Context names the component that
// raised it (e.g. "filter", "view", "repository").
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Context string
	cause   error
}

func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Context, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a classified error with the default status for its kind.
func New(kind Kind, context, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Status:  statusFor(kind),
		Message: fmt.Sprintf(format, args...),
		Context: context,
	}
}

// Wrap classifies an underlying error, preserving it for errors.Is/As.
func Wrap(kind Kind, context string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Status:  statusFor(kind),
		Message: cause.Error(),
		Context: context,
		cause:   cause,
	}
}

// IsKind reports whether err is a classified error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

func statusFor(kind Kind) int {
	if kind == ViewNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
