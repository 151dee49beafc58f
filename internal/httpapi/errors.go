package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"lxllama/internal/native"
	"lxllama/internal/provider"
	"lxllama/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// statusForError maps service errors to an HTTP status and a metrics reason.
func statusForError(err error) (int, string) {
	var he HTTPError
	switch {
	case errors.As(err, &he):
		return he.StatusCode(), "http_error"
	case native.IsDependencyUnavailable(err):
		return http.StatusServiceUnavailable, "dependency_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case provider.IsInferenceRuntimeError(err):
		return http.StatusBadGateway, "inference"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
