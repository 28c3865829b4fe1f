// Package render writes JSON responses and maps domain errors to HTTP
// statuses.
package render

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/wandura/internal/apperr"
)

type errorResponse struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Status returns the HTTP status for err.
func Status(err error) int {
	if !apperr.IsDomain(err) {
		if errors.Is(err, apperr.ErrUnavailable) {
			return http.StatusServiceUnavailable
		}

		return http.StatusInternalServerError
	}

	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrAuthorization):
		return http.StatusForbidden
	default:
		return http.StatusNotFound
	}
}

// Error writes err as a JSON error body. Infrastructure failures are logged
// and their detail is not exposed to the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	msg := err.Error()

	switch {
	case status == http.StatusInternalServerError:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)

		msg = "internal error"
	case status == http.StatusServiceUnavailable:
		slog.Warn("request deferred", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	JSON(w, status, errorResponse{Error: msg})
}

// BadRequest reports a malformed request that never reached a service.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
