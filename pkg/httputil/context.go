package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/datagate-io/datagate/pkg/apperr"
)

type ContextKey string

const (
	RequestIDCtxKey ContextKey = "RequestID"
	LogEntryCtxKey  ContextKey = "LogEntry"
	OIDCClaimsKey   ContextKey = "OIDCClaims"
	BasicAuthCtxKey ContextKey = "BasicAuth"
)

// OIDCClaims extracts verified token claims from the request context.
func OIDCClaims(r *http.Request) (map[string]any, bool) {
	claims, ok := r.Context().Value(OIDCClaimsKey).(map[string]any)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}

// BasicAuthUser retrieves the authenticated username from the context.
func BasicAuthUser(r *http.Request) (string, bool) {
	user, ok := r.Context().Value(BasicAuthCtxKey).(string)
	return user, ok
}

// BindOrError decodes the JSON body of r into dst, responding with a
// 400 Bad Request on failure.
func BindOrError(r *http.Request, w http.ResponseWriter, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return err
	}
	return nil
}

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Error sends a JSON response with an error code and message.
func Error(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Code: statusCode, Message: message}); err != nil {
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}

// ClassifiedError maps a classified query-path error onto its
// HTTP-equivalent status; anything unclassified becomes a 500.
func ClassifiedError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		Error(w, appErr.Status, appErr.Message)
		return
	}
	Error(w, http.StatusInternalServerError, err.Error())
}
